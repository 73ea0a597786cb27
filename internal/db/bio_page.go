package db

import "gorm.io/gorm"

// BioPage represents the link-in-bio landing page.
type BioPage struct {
	gorm.Model
	Slug  string `gorm:"uniqueIndex;not null"`
	Title string `gorm:"not null"`
	Bio   string `gorm:"type:text"` // markdown
	Theme string `gorm:"size:20;default:light"`
}

// TableName 指定自定义表名。
func (BioPage) TableName() string {
	return "bio_pages"
}
