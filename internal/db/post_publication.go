package db

import (
	"time"

	"gorm.io/gorm"
)

// PostPublication 记录模拟发布时生成的平台级快照。
// 每次 scheduled → published 转换会为所选的每个平台各生成一条记录。
type PostPublication struct {
	gorm.Model
	PostID       uint `gorm:"index"`
	Post         Post
	Platform     string `gorm:"size:20"`
	Content      string `gorm:"type:text"`
	SegmentCount int
	Version      int
	UserID       uint
	PublishedAt  time.Time
}

// TableName 指定自定义表名。
func (PostPublication) TableName() string {
	return "post_publications"
}
