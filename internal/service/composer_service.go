package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/postdeck/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrPollOptionCount 在投票选项数量不在 2~4 之间时返回
	ErrPollOptionCount = errors.New("poll requires between 2 and 4 options")
	// ErrOptionNotSupported 在平台不支持指定可选字段时返回
	ErrOptionNotSupported = errors.New("platform does not support this option")
	// ErrPlatformNotSelected 在为未选中的平台设置选项时返回
	ErrPlatformNotSelected = errors.New("platform is not selected")
)

// PollDraft 描述编辑器里尚未落库的投票配置。
type PollDraft struct {
	Options  []string `json:"options"`
	Duration int      `json:"duration"`
}

// ComposerState 镜像一条编辑中的内容：正文、平台集合、媒体、投票与可选字段。
// 它是纯数据结构，所有修改通过下面的更新函数完成，便于独立测试。
type ComposerState struct {
	Content         string                         `json:"content"`
	Platforms       []Platform                     `json:"platforms"`
	MediaURL        string                         `json:"mediaUrl"`
	MediaType       string                         `json:"mediaType"`
	Poll            *PollDraft                     `json:"poll"`
	PlatformOptions map[Platform]map[string]string `json:"platformOptions"`
	Status          string                         `json:"status"`
	IsGenerating    bool                           `json:"isGenerating"`
}

// NewComposerState 返回一个空的草稿状态。
func NewComposerState() ComposerState {
	return ComposerState{Status: StatusDraft}
}

// SetContent 更新正文。
func (s ComposerState) SetContent(content string) ComposerState {
	s.Content = content
	return s
}

// TogglePlatform 切换平台选中状态。取消选中时移除该平台的可选字段。
func (s ComposerState) TogglePlatform(platform Platform) ComposerState {
	for i, selected := range s.Platforms {
		if selected == platform {
			s.Platforms = append(append([]Platform(nil), s.Platforms[:i]...), s.Platforms[i+1:]...)
			if s.PlatformOptions != nil {
				options := make(map[Platform]map[string]string, len(s.PlatformOptions))
				for key, value := range s.PlatformOptions {
					if key != platform {
						options[key] = value
					}
				}
				s.PlatformOptions = options
			}
			return s
		}
	}
	s.Platforms = append(append([]Platform(nil), s.Platforms...), platform)
	return s
}

// HasPlatform 判断平台是否已选中。
func (s ComposerState) HasPlatform(platform Platform) bool {
	for _, selected := range s.Platforms {
		if selected == platform {
			return true
		}
	}
	return false
}

// AttachMedia 附加单个媒体资源，并清除已有的投票配置（两者互斥）。
func (s ComposerState) AttachMedia(url, mediaType string) ComposerState {
	s.MediaURL = strings.TrimSpace(url)
	s.MediaType = strings.TrimSpace(mediaType)
	s.Poll = nil
	return s
}

// RemoveMedia 移除已附加的媒体资源。
func (s ComposerState) RemoveMedia() ComposerState {
	s.MediaURL = ""
	s.MediaType = ""
	return s
}

// AttachPoll 附加投票配置，并清除已有媒体（两者互斥）。
// 选项数量必须在 2~4 之间，空白选项会被剔除。
func (s ComposerState) AttachPoll(options []string, durationDays int) (ComposerState, error) {
	var kept []string
	for _, option := range options {
		if trimmed := strings.TrimSpace(option); trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) < 2 || len(kept) > 4 {
		return s, ErrPollOptionCount
	}
	if durationDays <= 0 {
		durationDays = 1
	}

	s.Poll = &PollDraft{Options: kept, Duration: durationDays}
	s.MediaURL = ""
	s.MediaType = ""
	return s, nil
}

// RemovePoll 移除投票配置。
func (s ComposerState) RemovePoll() ComposerState {
	s.Poll = nil
	return s
}

// SetPlatformOption 为已选中的平台设置可选字段。
// 平台未选中或不支持该字段时状态保持不变并返回对应错误。
func (s ComposerState) SetPlatformOption(platform Platform, key, value string) (ComposerState, error) {
	if !s.HasPlatform(platform) {
		return s, ErrPlatformNotSelected
	}
	if !SupportsOption(platform, key) {
		return s, ErrOptionNotSupported
	}

	options := make(map[Platform]map[string]string, len(s.PlatformOptions)+1)
	for existing, bag := range s.PlatformOptions {
		copied := make(map[string]string, len(bag))
		for k, v := range bag {
			copied[k] = v
		}
		options[existing] = copied
	}
	if options[platform] == nil {
		options[platform] = make(map[string]string, 1)
	}
	options[platform][key] = value
	s.PlatformOptions = options
	return s, nil
}

// Reset 清空全部编辑状态，回到空白草稿。
func (s ComposerState) Reset() ComposerState {
	return NewComposerState()
}

// ComposerService 负责编辑器草稿正文的服务端暂存。
// 正文以固定键保存在系统设置表中，编辑器挂载时读取、每次变更时写入。
type ComposerService struct {
	db *gorm.DB
}

// NewComposerService 构造 ComposerService。
func NewComposerService(gdb *gorm.DB) *ComposerService {
	return &ComposerService{db: gdb}
}

// LoadDraft 读取暂存的草稿正文，不存在时返回空串。
func (s *ComposerService) LoadDraft() (string, error) {
	var record db.SystemSetting
	if err := s.db.Where("key = ?", db.SettingKeyComposerDraft).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("load composer draft: %w", err)
	}
	return record.Value, nil
}

// SaveDraft 写入暂存的草稿正文，内容原样保存。
func (s *ComposerService) SaveDraft(content string) error {
	setting := db.SystemSetting{Key: db.SettingKeyComposerDraft, Value: content}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      content,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("save composer draft: %w", err)
	}
	return nil
}

// ClearDraft 清空暂存的草稿正文。
func (s *ComposerService) ClearDraft() error {
	return s.SaveDraft("")
}
