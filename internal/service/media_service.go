package service

import (
	"errors"
	"strings"

	"github.com/postdeck/internal/db"
	"gorm.io/gorm"
)

var (
	ErrMediaNotFound    = errors.New("media asset not found")
	ErrMediaURLMissing  = errors.New("media url is required")
	ErrMediaTypeInvalid = errors.New("media type is invalid")
)

const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// MediaService handles media library CRUD.
type MediaService struct {
	db *gorm.DB
}

// MediaFilter describes filters for listing media assets.
type MediaFilter struct {
	Search  string
	Type    string
	Page    int
	PerPage int
}

// MediaListResult aggregates paginated media results.
type MediaListResult struct {
	Items      []db.MediaAsset
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// MediaInput represents fields accepted when registering a media asset.
type MediaInput struct {
	FileName string
	FileType string
	FileSize int64
	URL      string
	Width    int
	Height   int
}

// NewMediaService creates a MediaService instance.
func NewMediaService(gdb *gorm.DB) *MediaService {
	return &MediaService{db: gdb}
}

// List returns media assets matching the filter, newest first.
func (s *MediaService) List(filter MediaFilter) (MediaListResult, error) {
	result := MediaListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 24),
	}

	query := s.db.Model(&db.MediaAsset{})
	if mediaType := strings.TrimSpace(filter.Type); mediaType != "" {
		query = query.Where("file_type = ?", mediaType)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("file_name LIKE ?", like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("created_at desc, id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}
	return result, nil
}

// Get fetches a media asset by id.
func (s *MediaService) Get(id uint) (*db.MediaAsset, error) {
	var asset db.MediaAsset
	if err := s.db.First(&asset, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &asset, nil
}

// Create registers an uploaded media asset.
func (s *MediaService) Create(input MediaInput) (*db.MediaAsset, error) {
	if strings.TrimSpace(input.URL) == "" {
		return nil, ErrMediaURLMissing
	}
	fileType := strings.ToLower(strings.TrimSpace(input.FileType))
	if fileType != MediaTypeImage && fileType != MediaTypeVideo {
		return nil, ErrMediaTypeInvalid
	}

	asset := db.MediaAsset{
		FileName: strings.TrimSpace(input.FileName),
		FileType: fileType,
		FileSize: input.FileSize,
		URL:      strings.TrimSpace(input.URL),
		Width:    input.Width,
		Height:   input.Height,
	}
	if err := s.db.Create(&asset).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// Delete removes a media asset record.
func (s *MediaService) Delete(id uint) error {
	result := s.db.Delete(&db.MediaAsset{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMediaNotFound
	}
	return nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePerPage(perPage, fallback int) int {
	if perPage <= 0 {
		return fallback
	}
	return perPage
}

func calculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 {
		return 1
	}
	if total == 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
