package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/postdeck/internal/service"
)

func TestGetCalendarGrid(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post := seedPost(t, api, service.StatusScheduled, "排期内容", "twitter")
	if err := api.db.Model(post).Update("scheduled_date", "2026-08-28").Error; err != nil {
		t.Fatalf("set schedule: %v", err)
	}
	seedPost(t, api, service.StatusDraft, "无排期草稿", "twitter")

	w := httptest.NewRecorder()
	c := testContext(w, httptest.NewRequest(http.MethodGet, "/api/calendar?month=8&year=2026", nil), 0)
	api.GetCalendar(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d (%s)", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	cells, ok := body["cells"].([]any)
	if !ok || len(cells) != 35 {
		t.Fatalf("expected a 35-cell grid, got %d", len(cells))
	}

	attached := 0
	for _, raw := range cells {
		cell := raw.(map[string]any)
		if posts, ok := cell["posts"].([]any); ok {
			attached += len(posts)
		}
	}
	if attached != 1 {
		t.Fatalf("expected exactly the scheduled post in the grid, got %d", attached)
	}
}

func TestGetCalendarRejectsInvalidMonth(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	w := httptest.NewRecorder()
	c := testContext(w, httptest.NewRequest(http.MethodGet, "/api/calendar?month=13&year=2026", nil), 0)
	api.GetCalendar(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGetBoardBucketsByStatus(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedPost(t, api, service.StatusDraft, "草稿一", "twitter")
	seedPost(t, api, service.StatusDraft, "草稿二", "twitter")
	seedPost(t, api, service.StatusPublished, "已发布", "twitter")

	w := httptest.NewRecorder()
	c := testContext(w, httptest.NewRequest(http.MethodGet, "/api/board", nil), 0)
	api.GetBoard(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := decodeBody(t, w)
	board, ok := body["board"].(map[string]any)
	if !ok {
		t.Fatalf("expected board object, got %v", body)
	}
	if drafts, ok := board[service.StatusDraft].([]any); !ok || len(drafts) != 2 {
		t.Fatalf("expected 2 drafts on the board, got %v", board[service.StatusDraft])
	}
	if columns, ok := body["columns"].([]any); !ok || len(columns) != 6 {
		t.Fatalf("expected 6 workflow columns, got %v", body["columns"])
	}
}
