package db

import "time"

// PostEngagement 汇总单条内容在单个平台上的互动数据。
// 数据由演示层写入，本系统不做真实抓取。
type PostEngagement struct {
	ID          uint   `gorm:"primaryKey"`
	PostID      uint   `gorm:"index:idx_engagement_post_platform,unique"`
	Platform    string `gorm:"size:20;index:idx_engagement_post_platform,unique"`
	Likes       uint64 `gorm:"default:0"`
	Comments    uint64 `gorm:"default:0"`
	Shares      uint64 `gorm:"default:0"`
	Impressions uint64 `gorm:"default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (PostEngagement) TableName() string {
	return "post_engagements"
}
