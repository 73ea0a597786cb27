package db

import "gorm.io/gorm"

// BioLink 用于保存 link-in-bio 页面上展示的跳转链接
// 支持自定义排序与前台可见性控制
// Icon 字段用于匹配前端内置的图标
// Sort 值越小越靠前

type BioLink struct {
	gorm.Model
	Label   string `gorm:"size:80;not null"`
	URL     string `gorm:"size:255;not null"`
	Icon    string `gorm:"size:50"`
	Sort    int    `gorm:"default:0"`
	Visible bool
	Clicks  uint64 `gorm:"default:0"`
}

// TableName 返回自定义表名，避免冲突
func (BioLink) TableName() string {
	return "bio_links"
}
