package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/postdeck/internal/db"
	"github.com/postdeck/internal/service"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) (*API, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{}, &db.Post{}, &db.PostComment{}, &db.PostPublication{},
		&db.MediaAsset{}, &db.BioPage{}, &db.BioLink{}, &db.SocialAccount{},
		&db.PostEngagement{}, &db.SystemSetting{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	if err := gdb.Create(&db.User{Username: "tester", Password: "hashed"}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return NewAPI(gdb, t.TempDir(), "/static/uploads"), func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func testContext(w *httptest.ResponseRecorder, req *http.Request, postID uint) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if postID != 0 {
		c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(uint64(postID), 10)}}
	}
	return c
}

func seedPost(t *testing.T, api *API, status, content, platforms string) *db.Post {
	t.Helper()
	post := db.Post{
		PublicID:  uuid.New().String(),
		Content:   content,
		Platforms: platforms,
		Status:    status,
		Timezone:  "UTC",
	}
	if err := api.db.Create(&post).Error; err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return &post
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestSchedulePostCreatesRecordAndClearsDraft(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	if err := api.composer.SaveDraft("编辑器里的正文"); err != nil {
		t.Fatalf("seed composer draft: %v", err)
	}

	payload := map[string]any{
		"content":   "九月发布计划",
		"platforms": []string{"twitter", "instagram"},
		"platformOptions": map[string]map[string]string{
			"instagram": {"first_comment": "#plan"},
		},
		"date":     "2026-09-01",
		"time":     "09:30",
		"timezone": "Asia/Shanghai",
	}

	w := httptest.NewRecorder()
	c := testContext(w, jsonRequest(t, http.MethodPost, "/api/posts/schedule", payload), 0)
	api.SchedulePost(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	notifications, ok := body["notifications"].([]any)
	if !ok || len(notifications) == 0 {
		t.Fatalf("expected notifications in response, got %v", body["notifications"])
	}

	var created db.Post
	if err := api.db.First(&created).Error; err != nil {
		t.Fatalf("load created post: %v", err)
	}
	if created.Status != service.StatusScheduled {
		t.Fatalf("expected scheduled status, got %q", created.Status)
	}
	if created.ScheduledDate != "2026-09-01" || created.ScheduledTime != "09:30" {
		t.Fatalf("unexpected schedule: %q %q", created.ScheduledDate, created.ScheduledTime)
	}

	// 排期成功后服务端草稿被清空
	draft, err := api.composer.LoadDraft()
	if err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if draft != "" {
		t.Fatalf("expected cleared draft, got %q", draft)
	}
}

func TestSchedulePostMissingDateReturnsBadRequest(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	payload := map[string]any{
		"content":   "内容",
		"platforms": []string{"twitter"},
		"time":      "09:30",
	}

	w := httptest.NewRecorder()
	c := testContext(w, jsonRequest(t, http.MethodPost, "/api/posts/schedule", payload), 0)
	api.SchedulePost(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if notifications, ok := body["notifications"].([]any); !ok || len(notifications) == 0 {
		t.Fatalf("expected warning notification in error response, got %v", body)
	}

	var count int64
	if err := api.db.Model(&db.Post{}).Count(&count).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if count != 0 {
		t.Fatalf("failed scheduling must not create a record")
	}
}

func TestSchedulePostWithoutPlatformsReturnsBadRequest(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	payload := map[string]any{
		"content": "hello world",
		"date":    "2026-09-01",
		"time":    "09:00",
	}

	w := httptest.NewRecorder()
	c := testContext(w, jsonRequest(t, http.MethodPost, "/api/posts/schedule", payload), 0)
	api.SchedulePost(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if notifications, ok := body["notifications"].([]any); !ok || len(notifications) == 0 {
		t.Fatalf("expected warning notification in error response, got %v", body)
	}

	var count int64
	if err := api.db.Model(&db.Post{}).Count(&count).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	if count != 0 {
		t.Fatalf("scheduling without platforms must not create a record")
	}
}

func TestSchedulePostRejectsInvalidPoll(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	payload := map[string]any{
		"content":   "内容",
		"platforms": []string{"twitter"},
		"poll":      map[string]any{"options": []string{"只有一个"}, "duration": 1},
		"date":      "2026-09-01",
		"time":      "09:30",
	}

	w := httptest.NewRecorder()
	c := testContext(w, jsonRequest(t, http.MethodPost, "/api/posts/schedule", payload), 0)
	api.SchedulePost(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for invalid poll, got %d", w.Code)
	}
}

func TestSaveDraftPostAssignsID(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	payload := map[string]any{"content": "草稿内容"}
	w := httptest.NewRecorder()
	c := testContext(w, jsonRequest(t, http.MethodPost, "/api/posts/draft", payload), 0)
	api.SaveDraftPost(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	var created db.Post
	if err := api.db.First(&created).Error; err != nil {
		t.Fatalf("load draft: %v", err)
	}
	if created.Status != service.StatusDraft || created.ID == 0 {
		t.Fatalf("unexpected draft record: %+v", created)
	}
}

func TestWorkflowEndpointsDriveLifecycle(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPost(t, api, service.StatusDraft, "待审核内容", "twitter")

	steps := []struct {
		name    string
		handler func(*gin.Context)
		status  string
	}{
		{"submit", api.SubmitForReview, service.StatusPendingReview},
		{"approve", api.ApprovePost, service.StatusApproved},
	}
	for _, step := range steps {
		w := httptest.NewRecorder()
		c := testContext(w, httptest.NewRequest(http.MethodPost, "/api/posts/x", nil), post.ID)
		step.handler(c)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d (%s)", step.name, w.Code, w.Body.String())
		}

		var reloaded db.Post
		if err := api.db.First(&reloaded, post.ID).Error; err != nil {
			t.Fatalf("reload post: %v", err)
		}
		if reloaded.Status != step.status {
			t.Fatalf("%s: expected status %q, got %q", step.name, step.status, reloaded.Status)
		}
	}
}

func TestWorkflowEndpointIllegalTransitionConflict(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPost(t, api, service.StatusDraft, "内容", "twitter")

	w := httptest.NewRecorder()
	c := testContext(w, httptest.NewRequest(http.MethodPost, "/api/posts/x", nil), post.ID)
	api.ApprovePost(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if notifications, ok := body["notifications"].([]any); !ok || len(notifications) == 0 {
		t.Fatalf("expected notifications with the conflict, got %v", body)
	}

	var reloaded db.Post
	if err := api.db.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.Status != service.StatusDraft {
		t.Fatalf("illegal transition must not change status, got %q", reloaded.Status)
	}
}

func TestPublishPostCreatesSnapshots(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPost(t, api, service.StatusScheduled, "发布内容", "twitter,linkedin")

	w := httptest.NewRecorder()
	c := testContext(w, httptest.NewRequest(http.MethodPost, "/api/posts/x", nil), post.ID)
	api.PublishPost(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	var count int64
	if err := api.db.Model(&db.PostPublication{}).Where("post_id = ?", post.ID).Count(&count).Error; err != nil {
		t.Fatalf("count publications: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected a snapshot per platform, got %d", count)
	}
}

func TestReschedulePostMovesDate(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPost(t, api, service.StatusPublished, "内容", "twitter")

	w := httptest.NewRecorder()
	c := testContext(w, jsonRequest(t, http.MethodPost, "/api/posts/x/reschedule", map[string]string{"date": "2026-09-15"}), post.ID)
	api.ReschedulePost(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	var reloaded db.Post
	if err := api.db.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.ScheduledDate != "2026-09-15" || reloaded.Status != service.StatusScheduled {
		t.Fatalf("unexpected post after reschedule: %q %q", reloaded.ScheduledDate, reloaded.Status)
	}
}

func TestUpdatePostReturnsRejectedToDraft(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPost(t, api, service.StatusRejected, "被驳回", "twitter")

	payload := map[string]any{
		"content":   "修改后的内容",
		"platforms": []string{"twitter"},
	}
	w := httptest.NewRecorder()
	c := testContext(w, jsonRequest(t, http.MethodPut, "/api/posts/x", payload), post.ID)
	api.UpdatePost(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	var reloaded db.Post
	if err := api.db.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if reloaded.Status != service.StatusDraft {
		t.Fatalf("expected draft after editing rejected post, got %q", reloaded.Status)
	}
}

func TestAddPostCommentValidation(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPost(t, api, service.StatusPendingReview, "内容", "twitter")

	w := httptest.NewRecorder()
	c := testContext(w, jsonRequest(t, http.MethodPost, "/api/posts/x/comments", map[string]string{"author": "reviewer", "body": "  "}), post.ID)
	api.AddPostComment(c)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for empty body, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	c = testContext(w, jsonRequest(t, http.MethodPost, "/api/posts/x/comments", map[string]string{"author": "reviewer", "body": "配图需要更换"}), post.ID)
	api.AddPostComment(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	c = testContext(w, httptest.NewRequest(http.MethodGet, "/api/posts/x/comments", nil), post.ID)
	api.GetPostComments(c)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if comments, ok := body["comments"].([]any); !ok || len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %v", body["comments"])
	}
}

func TestGetPostsFilters(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedPost(t, api, service.StatusDraft, "草稿内容", "twitter")
	seedPost(t, api, service.StatusPublished, "发布内容", "linkedin")

	w := httptest.NewRecorder()
	c := testContext(w, httptest.NewRequest(http.MethodGet, "/api/posts?status=draft", nil), 0)
	api.GetPosts(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if total, ok := body["total"].(float64); !ok || total != 1 {
		t.Fatalf("expected filtered total 1, got %v", body["total"])
	}
	if draftCount, ok := body["draft_count"].(float64); !ok || draftCount != 1 {
		t.Fatalf("expected draft_count 1, got %v", body["draft_count"])
	}
}

func TestGetPostNotFound(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := httptest.NewRecorder()
	c := testContext(w, httptest.NewRequest(http.MethodGet, "/api/posts/x", nil), 9999)
	api.GetPost(c)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}
