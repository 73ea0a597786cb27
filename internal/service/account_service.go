package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/postdeck/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrAccountNotFound 在指定账号不存在时返回
	ErrAccountNotFound = errors.New("social account not found")
	// ErrAccountHandleRequired 在缺少账号昵称时返回
	ErrAccountHandleRequired = errors.New("account handle is required")
)

// AccountService 维护已连接的社交账号。
// “连接”只是数据库里的状态切换，不会请求任何外部平台。
type AccountService struct {
	db *gorm.DB
}

// NewAccountService 构造 AccountService
func NewAccountService(gdb *gorm.DB) *AccountService {
	return &AccountService{db: gdb}
}

// List 返回全部账号，按平台与创建时间排序。
func (s *AccountService) List() ([]db.SocialAccount, error) {
	var accounts []db.SocialAccount
	if err := s.db.Order("platform asc, created_at asc").Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("list social accounts: %w", err)
	}
	return accounts, nil
}

// Connect 登记一个已连接账号；同平台同昵称的记录只会被重新标记为已连接。
func (s *AccountService) Connect(platform Platform, handle, displayName string) (*db.SocialAccount, error) {
	trimmedHandle := strings.TrimSpace(handle)
	if trimmedHandle == "" {
		return nil, ErrAccountHandleRequired
	}
	if !KnownPlatform(platform) {
		return nil, fmt.Errorf("%w: %s", ErrPlatformUnknown, platform)
	}

	var account db.SocialAccount
	err := s.db.Where("platform = ? AND handle = ?", string(platform), trimmedHandle).First(&account).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("connect social account: %w", err)
		}
		account = db.SocialAccount{
			Platform:    string(platform),
			Handle:      trimmedHandle,
			DisplayName: strings.TrimSpace(displayName),
			Connected:   true,
		}
		if account.DisplayName == "" {
			account.DisplayName = trimmedHandle
		}
		if err := s.db.Create(&account).Error; err != nil {
			return nil, fmt.Errorf("connect social account: %w", err)
		}
		return &account, nil
	}

	account.Connected = true
	if trimmed := strings.TrimSpace(displayName); trimmed != "" {
		account.DisplayName = trimmed
	}
	if err := s.db.Save(&account).Error; err != nil {
		return nil, fmt.Errorf("connect social account: %w", err)
	}
	return &account, nil
}

// Disconnect 将账号标记为未连接，记录本身保留。
func (s *AccountService) Disconnect(id uint) error {
	result := s.db.Model(&db.SocialAccount{}).
		Where("id = ?", id).
		Update("connected", false)
	if result.Error != nil {
		return fmt.Errorf("disconnect social account: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// EnsureDemoAccounts 在账号表为空时写入演示数据，便于前端直接展示。
func (s *AccountService) EnsureDemoAccounts() error {
	var count int64
	if err := s.db.Model(&db.SocialAccount{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	demo := []db.SocialAccount{
		{Platform: string(PlatformTwitter), Handle: "postdeck", DisplayName: "PostDeck", Connected: true, Followers: 12400},
		{Platform: string(PlatformInstagram), Handle: "postdeck.app", DisplayName: "PostDeck", Connected: true, Followers: 8300},
		{Platform: string(PlatformLinkedIn), Handle: "postdeck", DisplayName: "PostDeck", Connected: false, Followers: 2100},
	}
	return s.db.Create(&demo).Error
}
