package db

import "gorm.io/gorm"

// PostComment 记录审核流程中附加在内容上的评论
type PostComment struct {
	gorm.Model
	PostID uint   `gorm:"index"`
	Author string `gorm:"size:80"`
	Body   string `gorm:"type:text"`
}

// TableName 指定自定义表名。
func (PostComment) TableName() string {
	return "post_comments"
}
