package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/postdeck/internal/db"
	"github.com/postdeck/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	expectedPostSeedCount    = 10
	minScheduledSeedCount    = 3
	expectedPublishSeedCount = 2
)

func setupPostSeedTestDB(t *testing.T) func() {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file:postdeck-seed?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{},
		&db.Post{},
		&db.PostComment{},
		&db.PostPublication{},
		&db.PostEngagement{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	db.DB = gdb

	return func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func TestCreateDemoPostsSeedsWorkflowVariation(t *testing.T) {
	cleanup := setupPostSeedTestDB(t)
	defer cleanup()

	legacy := db.Post{
		PublicID: uuid.NewString(),
		Content:  "legacy record",
		Status:   service.StatusDraft,
	}
	legacy.SetPlatformList([]string{"twitter"})
	if err := db.DB.Create(&legacy).Error; err != nil {
		t.Fatalf("failed to seed pre-existing post: %v", err)
	}

	createDemoUsers()
	createDemoPosts()

	var items []db.Post
	if err := db.DB.Find(&items).Error; err != nil {
		t.Fatalf("failed to list posts: %v", err)
	}
	if len(items) != expectedPostSeedCount {
		t.Fatalf("expected %d posts, got %d", expectedPostSeedCount, len(items))
	}

	statuses := make(map[string]int)
	scheduled := 0
	published := 0

	for _, item := range items {
		if item.PublicID == "" {
			t.Fatalf("expected public id to be set for post %d", item.ID)
		}
		if len(item.PlatformList()) == 0 {
			t.Fatalf("expected at least one platform for post %d", item.ID)
		}
		statuses[item.Status]++
		if item.Status == service.StatusScheduled {
			if item.ScheduledDate == "" || item.ScheduledTime == "" {
				t.Fatalf("expected schedule fields for scheduled post %d", item.ID)
			}
			scheduled++
		}
		if item.Status == service.StatusPublished {
			if item.PublicationCount < 1 {
				t.Fatalf("expected publication snapshot for published post %d", item.ID)
			}
			published++
		}
	}

	for _, status := range []string{
		service.StatusDraft,
		service.StatusPendingReview,
		service.StatusApproved,
		service.StatusRejected,
	} {
		if statuses[status] == 0 {
			t.Fatalf("expected at least one %s post in seed data", status)
		}
	}
	if scheduled < minScheduledSeedCount {
		t.Fatalf("expected at least %d scheduled posts, got %d", minScheduledSeedCount, scheduled)
	}
	if published != expectedPublishSeedCount {
		t.Fatalf("expected %d published posts, got %d", expectedPublishSeedCount, published)
	}

	var engagementCount int64
	if err := db.DB.Model(&db.PostEngagement{}).Count(&engagementCount).Error; err != nil {
		t.Fatalf("failed to count engagements: %v", err)
	}
	if engagementCount == 0 {
		t.Fatalf("expected engagement rows for published seed posts")
	}
}
