package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/postdeck/internal/db"
	"gorm.io/gorm"
)

var (
	ErrBioPageNotFound = errors.New("bio page not found")
	ErrBioMissing      = errors.New("bio content is required")
	// ErrBioLinkNotFound 在指定的链接不存在时返回
	ErrBioLinkNotFound = errors.New("bio link not found")
	// ErrBioLinkInvalidInput 在输入数据不完整时返回
	ErrBioLinkInvalidInput = errors.New("invalid bio link input")
)

// 默认 link-in-bio 页面的固定 slug。
const defaultBioSlug = "bio"

// LinkBioService 负责 link-in-bio 页面及其跳转链接的维护
// 提供排序、增删改查与点击计数能力，与 handler 解耦

type LinkBioService struct {
	db *gorm.DB
}

// NewLinkBioService 构造 LinkBioService
func NewLinkBioService(gdb *gorm.DB) *LinkBioService {
	return &LinkBioService{db: gdb}
}

// BioLinkInput 描述创建或更新链接时可设置的字段
// Sort/Visible 使用指针判断是否显式传入

type BioLinkInput struct {
	Label   string
	URL     string
	Icon    string
	Sort    *int
	Visible *bool
}

// GetPage 获取指定 slug 的 bio 页面。
func (s *LinkBioService) GetPage(slug string) (*db.BioPage, error) {
	var page db.BioPage
	if err := s.db.Where("slug = ?", strings.TrimSpace(slug)).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBioPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

// SavePage 创建或更新默认 bio 页面的内容。
func (s *LinkBioService) SavePage(title, bio, theme string) (*db.BioPage, error) {
	trimmedBio := strings.TrimSpace(bio)
	if trimmedBio == "" {
		return nil, ErrBioMissing
	}

	trimmedTitle := strings.TrimSpace(title)
	trimmedTheme := strings.ToLower(strings.TrimSpace(theme))
	if trimmedTheme == "" {
		trimmedTheme = "light"
	}

	var page db.BioPage
	err := s.db.Where("slug = ?", defaultBioSlug).First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			page = db.BioPage{
				Slug:  defaultBioSlug,
				Title: trimmedTitle,
				Bio:   trimmedBio,
				Theme: trimmedTheme,
			}
			if page.Title == "" {
				page.Title = "My Links"
			}
			if err := s.db.Create(&page).Error; err != nil {
				return nil, err
			}
			return &page, nil
		}
		return nil, err
	}

	page.Bio = trimmedBio
	page.Theme = trimmedTheme
	if trimmedTitle != "" {
		page.Title = trimmedTitle
	}

	if err := s.db.Save(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

// ListLinks 返回链接集合，默认按照排序值升序
// 如果 includeHidden 为 false，则过滤掉 Visible=false 的条目
func (s *LinkBioService) ListLinks(includeHidden bool) ([]db.BioLink, error) {
	query := s.db.Model(&db.BioLink{})
	if !includeHidden {
		query = query.Where("visible = ?", true)
	}

	var links []db.BioLink
	if err := query.Order("sort ASC, id ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("list bio links: %w", err)
	}
	return links, nil
}

// GetLink 根据主键获取链接
func (s *LinkBioService) GetLink(id uint) (*db.BioLink, error) {
	var link db.BioLink
	if err := s.db.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBioLinkNotFound
		}
		return nil, fmt.Errorf("get bio link: %w", err)
	}
	return &link, nil
}

// CreateLink 新建链接，未指定排序时自动追加到末尾
func (s *LinkBioService) CreateLink(input BioLinkInput) (*db.BioLink, error) {
	if err := validateBioLinkInput(input); err != nil {
		return nil, err
	}

	sortValue, err := s.resolveSort(input.Sort)
	if err != nil {
		return nil, err
	}

	visible := true
	if input.Visible != nil {
		visible = *input.Visible
	}

	link := db.BioLink{
		Label:   strings.TrimSpace(input.Label),
		URL:     strings.TrimSpace(input.URL),
		Icon:    strings.TrimSpace(input.Icon),
		Sort:    sortValue,
		Visible: visible,
	}
	if err := s.db.Create(&link).Error; err != nil {
		return nil, fmt.Errorf("create bio link: %w", err)
	}
	return &link, nil
}

// UpdateLink 更新链接字段，仅覆盖显式传入的排序与可见性
func (s *LinkBioService) UpdateLink(id uint, input BioLinkInput) (*db.BioLink, error) {
	link, err := s.GetLink(id)
	if err != nil {
		return nil, err
	}

	if err := validateBioLinkInput(input); err != nil {
		return nil, err
	}

	link.Label = strings.TrimSpace(input.Label)
	link.URL = strings.TrimSpace(input.URL)
	link.Icon = strings.TrimSpace(input.Icon)
	if input.Sort != nil {
		link.Sort = *input.Sort
	}
	if input.Visible != nil {
		link.Visible = *input.Visible
	}

	if err := s.db.Save(link).Error; err != nil {
		return nil, fmt.Errorf("update bio link: %w", err)
	}
	return link, nil
}

// DeleteLink 删除链接
func (s *LinkBioService) DeleteLink(id uint) error {
	result := s.db.Delete(&db.BioLink{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete bio link: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBioLinkNotFound
	}
	return nil
}

// RecordClick 为链接累加一次点击计数。
func (s *LinkBioService) RecordClick(id uint) error {
	result := s.db.Model(&db.BioLink{}).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + 1"))
	if result.Error != nil {
		return fmt.Errorf("record bio link click: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBioLinkNotFound
	}
	return nil
}

func (s *LinkBioService) resolveSort(sort *int) (int, error) {
	if sort != nil {
		return *sort, nil
	}

	var maxSort int
	if err := s.db.Model(&db.BioLink{}).
		Select("COALESCE(MAX(sort), 0)").
		Scan(&maxSort).Error; err != nil {
		return 0, fmt.Errorf("resolve bio link sort: %w", err)
	}
	return maxSort + 10, nil
}

func validateBioLinkInput(input BioLinkInput) error {
	if strings.TrimSpace(input.Label) == "" || strings.TrimSpace(input.URL) == "" {
		return ErrBioLinkInvalidInput
	}
	return nil
}
