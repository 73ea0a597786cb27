package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB 是一个全局的数据库连接实例
var DB *gorm.DB

// Init 初始化数据库连接并执行自动迁移。
// databasePath 为空时将回退到默认值 postdeck.db。
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "postdeck.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	if err = DB.AutoMigrate(
		&User{},
		&Post{},
		&PostComment{},
		&PostPublication{},
		&PostEngagement{},
		&MediaAsset{},
		&BioPage{},
		&BioLink{},
		&SocialAccount{},
		&SystemSetting{},
	); err != nil {
		return err
	}

	// 为历史数据补齐对外暴露的 PublicID
	var legacy []Post
	if err := DB.Where("public_id = '' OR public_id IS NULL").Find(&legacy).Error; err != nil {
		return err
	}
	for i := range legacy {
		if err := DB.Model(&legacy[i]).Update("public_id", uuid.New().String()).Error; err != nil {
			return err
		}
	}

	if err := DB.Model(&Post{}).
		Where("timezone = '' OR timezone IS NULL").
		Update("timezone", "UTC").Error; err != nil {
		return err
	}
	if err := DB.Model(&Post{}).
		Where("status = '' OR status IS NULL").
		Update("status", "draft").Error; err != nil {
		return err
	}

	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
