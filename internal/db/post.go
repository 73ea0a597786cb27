package db

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Post 定义了多平台排期的内容模型
type Post struct {
	gorm.Model
	PublicID         string `gorm:"size:36;uniqueIndex;not null"`
	Content          string `gorm:"type:text"`
	Platforms        string `gorm:"size:255"` // 逗号分隔的平台集合
	ScheduledDate    string `gorm:"size:10"`  // YYYY-MM-DD
	ScheduledTime    string `gorm:"size:5"`   // HH:MM（24 小时制）
	Timezone         string `gorm:"size:64"`
	Status           string `gorm:"size:20;index;default:draft"`
	MediaURL         string `gorm:"size:255"`
	MediaType        string `gorm:"size:10"` // image, video
	PlatformOptions  string `gorm:"type:text"`
	Poll             string `gorm:"type:text"`
	UserID           uint
	User             User
	PublicationCount int
	PublishedAt      *time.Time
	Comments         []PostComment
}

// PollConfig 描述附加在内容上的投票配置
type PollConfig struct {
	Options  []string `json:"options"`
	Duration int      `json:"duration"` // 持续天数
}

// PlatformList 将逗号分隔的平台字段还原为有序去重的切片。
func (p *Post) PlatformList() []string {
	if strings.TrimSpace(p.Platforms) == "" {
		return nil
	}

	seen := make(map[string]bool)
	var platforms []string
	for _, raw := range strings.Split(p.Platforms, ",") {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		platforms = append(platforms, name)
	}
	return platforms
}

// SetPlatformList 序列化平台集合，保持调用方传入的顺序并去重。
func (p *Post) SetPlatformList(platforms []string) {
	seen := make(map[string]bool)
	var kept []string
	for _, raw := range platforms {
		name := strings.TrimSpace(raw)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		kept = append(kept, name)
	}
	p.Platforms = strings.Join(kept, ",")
}

// DecodePoll 解析投票配置，字段为空或解析失败时返回 nil。
func (p *Post) DecodePoll() *PollConfig {
	if strings.TrimSpace(p.Poll) == "" {
		return nil
	}
	var cfg PollConfig
	if err := json.Unmarshal([]byte(p.Poll), &cfg); err != nil {
		return nil
	}
	if len(cfg.Options) == 0 {
		return nil
	}
	return &cfg
}

// EncodePoll 序列化投票配置，传入 nil 时清空字段。
func (p *Post) EncodePoll(cfg *PollConfig) error {
	if cfg == nil {
		p.Poll = ""
		return nil
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	p.Poll = string(raw)
	return nil
}

// DecodePlatformOptions 解析按平台分组的可选字段。
func (p *Post) DecodePlatformOptions() map[string]map[string]string {
	if strings.TrimSpace(p.PlatformOptions) == "" {
		return nil
	}
	var options map[string]map[string]string
	if err := json.Unmarshal([]byte(p.PlatformOptions), &options); err != nil {
		return nil
	}
	return options
}

// EncodePlatformOptions 序列化按平台分组的可选字段。
func (p *Post) EncodePlatformOptions(options map[string]map[string]string) error {
	if len(options) == 0 {
		p.PlatformOptions = ""
		return nil
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return err
	}
	p.PlatformOptions = string(raw)
	return nil
}
