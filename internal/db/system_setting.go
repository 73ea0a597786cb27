package db

import "gorm.io/gorm"

// SystemSetting 存储后台可配置的系统级键值对。
type SystemSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SystemSetting) TableName() string {
	return "system_settings"
}

const (
	// SettingKeySiteName 表示工作区名称。
	SettingKeySiteName = "site_name"
	// SettingKeySiteLogoURL 表示工作区 Logo 链接。
	SettingKeySiteLogoURL = "site_logo_url"
	// SettingKeyAIProvider 表示当前启用的 AI 服务商。
	SettingKeyAIProvider = "ai_provider"
	// SettingKeyOpenAIAPIKey 表示 OpenAI API Key。
	SettingKeyOpenAIAPIKey = "openai_api_key"
	// SettingKeyDeepSeekAPIKey 表示 DeepSeek API Key。
	SettingKeyDeepSeekAPIKey = "deepseek_api_key"
	// SettingKeyComposerDraft 保存编辑器自动暂存的草稿正文。
	SettingKeyComposerDraft = "composer_draft"
)
