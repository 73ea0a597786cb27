package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/postdeck/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrPlatformRequired = errors.New("at least one platform is required")
	ErrPlatformUnknown  = errors.New("unknown platform")
	ErrCommentEmpty     = errors.New("comment body is required")
)

// PostService wraps post related database operations.
type PostService struct {
	db *gorm.DB
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search    string
	Status    string
	Platform  string
	StartDate string
	EndDate   string
	Page      int
	PerPage   int
}

// PostListResult aggregates paginated list data and counters.
type PostListResult struct {
	Posts          []db.Post
	Total          int64
	DraftCount     int64
	PendingCount   int64
	ScheduledCount int64
	PublishedCount int64
	TotalPages     int
	Page           int
	PerPage        int
}

// PostInput represents fields accepted when updating a post from the composer.
type PostInput struct {
	Content         string
	Platforms       []string
	MediaURL        string
	MediaType       string
	Poll            *db.PollConfig
	PlatformOptions map[string]map[string]string
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// ListAll returns all posts ordered by created time descending.
func (s *PostService) ListAll() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Preload("Comments").Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Get fetches a post by id with review comments preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Comments").Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetByPublicID fetches a post by its opaque public identifier.
func (s *PostService) GetByPublicID(publicID string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Comments").Where("public_id = ?", strings.TrimSpace(publicID)).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Update applies composer edits to an existing post.
// Editing a rejected post implicitly returns it to draft for resubmission;
// published content keeps its status and only the text fields change.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	platforms, err := normalizePlatformNames(input.Platforms)
	if err != nil {
		return nil, err
	}
	if len(platforms) == 0 && existing.Status != StatusDraft {
		return nil, ErrPlatformRequired
	}

	existing.Content = input.Content
	existing.SetPlatformList(platforms)
	existing.MediaURL = strings.TrimSpace(input.MediaURL)
	existing.MediaType = strings.TrimSpace(input.MediaType)

	// 媒体与投票互斥，以后写入的一方为准
	if input.Poll != nil && existing.MediaURL != "" {
		existing.MediaURL = ""
		existing.MediaType = ""
	}
	if err := existing.EncodePoll(input.Poll); err != nil {
		return nil, fmt.Errorf("encode poll: %w", err)
	}
	if err := existing.EncodePlatformOptions(input.PlatformOptions); err != nil {
		return nil, fmt.Errorf("encode platform options: %w", err)
	}

	if existing.Status == StatusRejected {
		existing.Status = StatusDraft
	}

	if err := s.db.Save(&existing).Error; err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &existing, nil
}

// Delete removes a post together with its comments.
func (s *PostService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&db.PostComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&db.Post{}, id).Error
	})
}

// List provides paginated posts with aggregated counters based on filters.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 10),
	}

	modelQuery := s.applyFilters(s.db.Model(&db.Post{}), filter, true)
	if err := modelQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var posts []db.Post
	dataQuery := s.applyFilters(s.db.Model(&db.Post{}).Preload("Comments"), filter, true)

	orderBy := "posts.created_at desc"
	if strings.EqualFold(filter.Status, StatusScheduled) {
		orderBy = "posts.scheduled_date asc, posts.scheduled_time asc, posts.id asc"
	}

	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}

	filterWithoutStatus := filter
	filterWithoutStatus.Status = ""
	baseCounter := s.applyFilters(s.db.Model(&db.Post{}), filterWithoutStatus, false)

	counters := []struct {
		status string
		dest   *int64
	}{
		{StatusDraft, &result.DraftCount},
		{StatusPendingReview, &result.PendingCount},
		{StatusScheduled, &result.ScheduledCount},
		{StatusPublished, &result.PublishedCount},
	}
	for _, counter := range counters {
		if err := baseCounter.Session(&gorm.Session{}).
			Where("posts.status = ?", counter.status).
			Count(counter.dest).Error; err != nil {
			return nil, err
		}
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	result.Posts = posts
	return result, nil
}

// ListForMonth 返回供日历视图使用的记录集合。
// 与分桶逻辑保持一致：这里不按月份过滤，仅排除没有排期日期的记录。
func (s *PostService) ListForMonth() ([]db.Post, error) {
	var posts []db.Post
	if err := s.db.Where("scheduled_date <> ''").
		Order("scheduled_date asc, scheduled_time asc, id asc").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// AddComment 在审核流程中为内容追加一条评论。
func (s *PostService) AddComment(postID uint, author, body string) (*db.PostComment, error) {
	trimmedBody := strings.TrimSpace(body)
	if trimmedBody == "" {
		return nil, ErrCommentEmpty
	}

	if _, err := s.Get(postID); err != nil {
		return nil, err
	}

	comment := db.PostComment{
		PostID: postID,
		Author: strings.TrimSpace(author),
		Body:   trimmedBody,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return &comment, nil
}

// Comments 返回内容的审核评论，按创建时间升序。
func (s *PostService) Comments(postID uint) ([]db.PostComment, error) {
	var comments []db.PostComment
	if err := s.db.Where("post_id = ?", postID).
		Order("created_at asc, id asc").
		Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter, includeStatus bool) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("posts.content LIKE ?", search)
	}

	if includeStatus && filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}

	if platform := strings.TrimSpace(filter.Platform); platform != "" {
		like := "%" + platform + "%"
		query = query.Where("posts.platforms LIKE ?", like)
	}

	if start := strings.TrimSpace(filter.StartDate); start != "" {
		query = query.Where("posts.scheduled_date >= ?", start)
	}

	if end := strings.TrimSpace(filter.EndDate); end != "" {
		query = query.Where("posts.scheduled_date <= ?", end)
	}

	return query
}

// normalizePlatformNames 去重并校验平台标识，保持传入顺序。
func normalizePlatformNames(platforms []string) ([]string, error) {
	seen := make(map[string]bool)
	var kept []string
	for _, raw := range platforms {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		if !KnownPlatform(Platform(name)) {
			return nil, fmt.Errorf("%w: %s", ErrPlatformUnknown, name)
		}
		seen[name] = true
		kept = append(kept, name)
	}
	return kept, nil
}
