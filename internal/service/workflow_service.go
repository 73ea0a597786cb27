package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/postdeck/internal/db"
	"gorm.io/gorm"
)

// 内容在审批流水线中的状态。
const (
	StatusDraft         = "draft"
	StatusPendingReview = "pending_review"
	StatusApproved      = "approved"
	StatusRejected      = "rejected"
	StatusScheduled     = "scheduled"
	StatusPublished     = "published"
)

var (
	// ErrIllegalTransition 在尝试走未定义的状态边时返回，调用方应视为无操作
	ErrIllegalTransition = errors.New("illegal workflow transition")
	// ErrContentRequired 在正文为空却要推进流程时返回
	ErrContentRequired = errors.New("content is required")
)

// 通知级别，对应前端 toast 的展示样式。
const (
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Notifier 接收状态转换产生的用户可见提示。
type Notifier interface {
	Notify(message, severity string)
}

// NotifierFunc 允许用函数直接充当 Notifier。
type NotifierFunc func(message, severity string)

// Notify 实现 Notifier。
func (f NotifierFunc) Notify(message, severity string) {
	if f != nil {
		f(message, severity)
	}
}

// legalTransitions 枚举审批流水线的合法状态边。
// rejected → draft 不在表内：它通过重新编辑隐式完成（见 PostService.Update）。
// approved → scheduled 仅由 ScheduleService 触发；scheduled → published 由演示层触发。
var legalTransitions = map[string][]string{
	StatusDraft:         {StatusPendingReview},
	StatusPendingReview: {StatusApproved, StatusRejected},
	StatusApproved:      {StatusScheduled},
	StatusScheduled:     {StatusPublished},
}

// CanTransition 判断一条状态边是否合法。
func CanTransition(from, to string) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// WorkflowService 驱动内容的审批状态机。
// 所有转换同步完成；除调用 Notifier 外没有其他副作用，失败时状态保持不变。
type WorkflowService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewWorkflowService 构造 WorkflowService，notifier 为 nil 时提示会被丢弃。
func NewWorkflowService(gdb *gorm.DB, notifier Notifier) *WorkflowService {
	if notifier == nil {
		notifier = NotifierFunc(nil)
	}
	return &WorkflowService{db: gdb, notifier: notifier}
}

// SubmitForReview 执行 draft → pending_review。
// 正文为空或未选择平台时不做任何修改，发出警告提示并返回
// ErrContentRequired / ErrPlatformRequired。
func (s *WorkflowService) SubmitForReview(postID uint) (*db.Post, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(post.Status, StatusPendingReview) {
		s.notifier.Notify("当前状态无法提交审核", SeverityWarning)
		return nil, ErrIllegalTransition
	}
	if strings.TrimSpace(post.Content) == "" {
		s.notifier.Notify("正文为空，无法提交审核", SeverityWarning)
		return nil, ErrContentRequired
	}
	// 离开 draft 的记录必须带平台集合
	if len(post.PlatformList()) == 0 {
		s.notifier.Notify("未选择发布平台，无法提交审核", SeverityWarning)
		return nil, ErrPlatformRequired
	}

	if err := s.updateStatus(post, StatusPendingReview); err != nil {
		return nil, err
	}

	s.notifier.Notify("内容已提交审核", SeveritySuccess)
	return post, nil
}

// Approve 执行 pending_review → approved，解锁排期能力。
func (s *WorkflowService) Approve(postID uint) (*db.Post, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(post.Status, StatusApproved) {
		s.notifier.Notify("当前状态无法通过审核", SeverityWarning)
		return nil, ErrIllegalTransition
	}

	if err := s.updateStatus(post, StatusApproved); err != nil {
		return nil, err
	}

	s.notifier.Notify("内容已通过审核", SeveritySuccess)
	return post, nil
}

// Reject 执行 pending_review → rejected。
func (s *WorkflowService) Reject(postID uint) (*db.Post, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(post.Status, StatusRejected) {
		s.notifier.Notify("当前状态无法驳回", SeverityWarning)
		return nil, ErrIllegalTransition
	}

	if err := s.updateStatus(post, StatusRejected); err != nil {
		return nil, err
	}

	s.notifier.Notify("内容已被驳回", SeverityError)
	return post, nil
}

// MarkPublished 执行 scheduled → published 的模拟发布。
// 为所选的每个平台生成一条发布快照，并递增内容的发布版本号。
// 真实的对外发布不在本系统范围内，由外部演示层决定何时调用。
func (s *WorkflowService) MarkPublished(postID uint, publishedAt *time.Time) (*db.Post, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(post.Status, StatusPublished) {
		s.notifier.Notify("仅已排期的内容可以标记为已发布", SeverityWarning)
		return nil, ErrIllegalTransition
	}

	publishTime := time.Now()
	if publishedAt != nil && !publishedAt.IsZero() {
		publishTime = *publishedAt
	}

	version := post.PublicationCount + 1

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, platform := range post.PlatformList() {
			segments := RenderSegments(post.Content, Platform(platform))
			publication := db.PostPublication{
				PostID:       post.ID,
				Platform:     platform,
				Content:      post.Content,
				SegmentCount: len(segments),
				Version:      version,
				UserID:       post.UserID,
				PublishedAt:  publishTime,
			}
			if err := tx.Create(&publication).Error; err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"status":            StatusPublished,
			"published_at":      publishTime,
			"publication_count": version,
		}
		return tx.Model(&db.Post{}).Where("id = ?", post.ID).Updates(updates).Error
	}); err != nil {
		return nil, fmt.Errorf("mark published: %w", err)
	}

	post.Status = StatusPublished
	post.PublishedAt = &publishTime
	post.PublicationCount = version

	s.notifier.Notify("内容已发布", SeveritySuccess)
	return post, nil
}

// Publications 返回内容的发布快照，按时间倒序。
func (s *WorkflowService) Publications(postID uint) ([]db.PostPublication, error) {
	var publications []db.PostPublication
	if err := s.db.Where("post_id = ?", postID).
		Order("published_at desc, id desc").
		Find(&publications).Error; err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	return publications, nil
}

func (s *WorkflowService) loadPost(postID uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

func (s *WorkflowService) updateStatus(post *db.Post, status string) error {
	if err := s.db.Model(&db.Post{}).Where("id = ?", post.ID).Update("status", status).Error; err != nil {
		return fmt.Errorf("update post status: %w", err)
	}
	post.Status = status
	return nil
}
