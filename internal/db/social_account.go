package db

import "gorm.io/gorm"

// SocialAccount 表示一个已连接的社交账号。
// 连接与断开都是模拟的状态切换，不发起任何外部请求。
type SocialAccount struct {
	gorm.Model
	Platform    string `gorm:"size:20;index"`
	Handle      string `gorm:"size:80"`
	DisplayName string `gorm:"size:80"`
	AvatarURL   string `gorm:"size:255"`
	Connected   bool
	Followers   int
}

// TableName 指定自定义表名。
func (SocialAccount) TableName() string {
	return "social_accounts"
}
