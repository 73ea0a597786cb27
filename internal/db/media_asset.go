package db

import "gorm.io/gorm"

// MediaAsset 定义媒体库资源模型
type MediaAsset struct {
	gorm.Model
	FileName string `gorm:"size:255;not null"`
	FileType string `gorm:"size:10"` // image, video
	FileSize int64
	URL      string `gorm:"size:255"`
	Width    int
	Height   int
}

// TableName 指定自定义表名。
func (MediaAsset) TableName() string {
	return "media_assets"
}
