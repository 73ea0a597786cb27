package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/postdeck/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupLinkBioServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:linkbio-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.BioPage{}, &db.BioLink{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return gdb
}

func TestLinkBioSavePageCreatesAndUpdates(t *testing.T) {
	gdb := setupLinkBioServiceTestDB(t)
	svc := NewLinkBioService(gdb)

	if _, err := svc.SavePage("标题", "  ", "light"); !errors.Is(err, ErrBioMissing) {
		t.Fatalf("expected ErrBioMissing, got %v", err)
	}

	page, err := svc.SavePage("", "## 关于我", "")
	if err != nil {
		t.Fatalf("save page: %v", err)
	}
	if page.Slug != "bio" {
		t.Fatalf("expected default slug, got %q", page.Slug)
	}
	if page.Title != "My Links" {
		t.Fatalf("expected default title, got %q", page.Title)
	}
	if page.Theme != "light" {
		t.Fatalf("expected default theme, got %q", page.Theme)
	}

	updated, err := svc.SavePage("新标题", "更新后的简介", "DARK")
	if err != nil {
		t.Fatalf("update page: %v", err)
	}
	if updated.ID != page.ID {
		t.Fatalf("saving again must update the same page")
	}
	if updated.Title != "新标题" || updated.Theme != "dark" {
		t.Fatalf("unexpected page after update: %+v", updated)
	}

	loaded, err := svc.GetPage("bio")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if loaded.Bio != "更新后的简介" {
		t.Fatalf("expected persisted bio, got %q", loaded.Bio)
	}

	if _, err := svc.GetPage("missing"); !errors.Is(err, ErrBioPageNotFound) {
		t.Fatalf("expected ErrBioPageNotFound, got %v", err)
	}
}

func TestLinkBioCreateLinkAppendsSort(t *testing.T) {
	gdb := setupLinkBioServiceTestDB(t)
	svc := NewLinkBioService(gdb)

	first, err := svc.CreateLink(BioLinkInput{Label: "博客", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("create link: %v", err)
	}
	if first.Sort != 10 {
		t.Fatalf("expected first sort 10, got %d", first.Sort)
	}
	if !first.Visible {
		t.Fatalf("links default to visible")
	}

	second, err := svc.CreateLink(BioLinkInput{Label: "店铺", URL: "https://example.com/shop"})
	if err != nil {
		t.Fatalf("create second link: %v", err)
	}
	if second.Sort != 20 {
		t.Fatalf("expected second sort 20, got %d", second.Sort)
	}

	explicit := 5
	third, err := svc.CreateLink(BioLinkInput{Label: "置顶", URL: "https://example.com/top", Sort: &explicit})
	if err != nil {
		t.Fatalf("create third link: %v", err)
	}
	if third.Sort != 5 {
		t.Fatalf("explicit sort must be kept, got %d", third.Sort)
	}

	links, err := svc.ListLinks(true)
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	if len(links) != 3 || links[0].ID != third.ID {
		t.Fatalf("links must be ordered by sort, got %v", links)
	}

	if _, err := svc.CreateLink(BioLinkInput{Label: " ", URL: "https://example.com"}); !errors.Is(err, ErrBioLinkInvalidInput) {
		t.Fatalf("expected ErrBioLinkInvalidInput, got %v", err)
	}
}

func TestLinkBioListLinksFiltersHidden(t *testing.T) {
	gdb := setupLinkBioServiceTestDB(t)
	svc := NewLinkBioService(gdb)

	hidden := false
	if _, err := svc.CreateLink(BioLinkInput{Label: "隐藏", URL: "https://example.com/h", Visible: &hidden}); err != nil {
		t.Fatalf("create hidden link: %v", err)
	}
	if _, err := svc.CreateLink(BioLinkInput{Label: "可见", URL: "https://example.com/v"}); err != nil {
		t.Fatalf("create visible link: %v", err)
	}

	visibleOnly, err := svc.ListLinks(false)
	if err != nil {
		t.Fatalf("list visible links: %v", err)
	}
	if len(visibleOnly) != 1 || visibleOnly[0].Label != "可见" {
		t.Fatalf("expected only the visible link, got %v", visibleOnly)
	}

	all, err := svc.ListLinks(true)
	if err != nil {
		t.Fatalf("list all links: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected both links, got %d", len(all))
	}
}

func TestLinkBioUpdateLinkPartialFields(t *testing.T) {
	gdb := setupLinkBioServiceTestDB(t)
	svc := NewLinkBioService(gdb)

	link, err := svc.CreateLink(BioLinkInput{Label: "博客", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("create link: %v", err)
	}

	// 不传 Sort/Visible 时保持原值
	updated, err := svc.UpdateLink(link.ID, BioLinkInput{Label: "新博客", URL: "https://example.com/new"})
	if err != nil {
		t.Fatalf("update link: %v", err)
	}
	if updated.Label != "新博客" || updated.Sort != link.Sort || !updated.Visible {
		t.Fatalf("unexpected link after partial update: %+v", updated)
	}

	hidden := false
	sort := 99
	updated, err = svc.UpdateLink(link.ID, BioLinkInput{Label: "新博客", URL: "https://example.com/new", Sort: &sort, Visible: &hidden})
	if err != nil {
		t.Fatalf("update link: %v", err)
	}
	if updated.Sort != 99 || updated.Visible {
		t.Fatalf("explicit fields must be applied: %+v", updated)
	}

	if _, err := svc.UpdateLink(9999, BioLinkInput{Label: "x", URL: "https://example.com"}); !errors.Is(err, ErrBioLinkNotFound) {
		t.Fatalf("expected ErrBioLinkNotFound, got %v", err)
	}
}

func TestLinkBioRecordClick(t *testing.T) {
	gdb := setupLinkBioServiceTestDB(t)
	svc := NewLinkBioService(gdb)

	link, err := svc.CreateLink(BioLinkInput{Label: "博客", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("create link: %v", err)
	}

	if err := svc.RecordClick(link.ID); err != nil {
		t.Fatalf("record click: %v", err)
	}
	if err := svc.RecordClick(link.ID); err != nil {
		t.Fatalf("record second click: %v", err)
	}

	reloaded, err := svc.GetLink(link.ID)
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	if reloaded.Clicks != 2 {
		t.Fatalf("expected 2 clicks, got %d", reloaded.Clicks)
	}

	if err := svc.RecordClick(9999); !errors.Is(err, ErrBioLinkNotFound) {
		t.Fatalf("expected ErrBioLinkNotFound, got %v", err)
	}

	if err := svc.DeleteLink(link.ID); err != nil {
		t.Fatalf("delete link: %v", err)
	}
	if err := svc.DeleteLink(link.ID); !errors.Is(err, ErrBioLinkNotFound) {
		t.Fatalf("expected ErrBioLinkNotFound after delete, got %v", err)
	}
}
