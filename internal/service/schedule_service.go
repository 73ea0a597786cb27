package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/postdeck/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrScheduleFieldsMissing 在排期缺少日期或时间时返回
	ErrScheduleFieldsMissing = errors.New("scheduled date and time are required")
)

// ScheduleService 将编辑器状态物化为已排期的内容记录，
// 并承载日历拖拽触发的改期操作。
type ScheduleService struct {
	db       *gorm.DB
	notifier Notifier
}

// NewScheduleService 构造 ScheduleService，notifier 为 nil 时提示会被丢弃。
func NewScheduleService(gdb *gorm.DB, notifier Notifier) *ScheduleService {
	if notifier == nil {
		notifier = NotifierFunc(nil)
	}
	return &ScheduleService{db: gdb, notifier: notifier}
}

// Schedule 依据编辑器状态生成一条 scheduled 状态的内容记录。
// 正文为空返回 ErrContentRequired，未选择平台返回 ErrPlatformRequired，
// 日期或时间缺失返回 ErrScheduleFieldsMissing；
// 三种情况都只发出警告提示，不产生任何记录。
// date 按 YYYY-MM-DD 存储，timeStr 为 HH:MM（24 小时制）；
// timezone 仅作为元数据保存，不参与任何时间换算。
func (s *ScheduleService) Schedule(state ComposerState, date, timeStr, timezone string, userID uint) (*db.Post, error) {
	if strings.TrimSpace(state.Content) == "" {
		s.notifier.Notify("正文为空，无法排期", SeverityWarning)
		return nil, ErrContentRequired
	}
	// 离开 draft 的记录必须带平台集合
	if len(state.Platforms) == 0 {
		s.notifier.Notify("请先选择至少一个发布平台", SeverityWarning)
		return nil, ErrPlatformRequired
	}
	if strings.TrimSpace(date) == "" || strings.TrimSpace(timeStr) == "" {
		s.notifier.Notify("请先选择发布日期与时间", SeverityWarning)
		return nil, ErrScheduleFieldsMissing
	}

	post, err := s.buildPost(state, userID)
	if err != nil {
		return nil, err
	}
	post.Status = StatusScheduled
	post.ScheduledDate = strings.TrimSpace(date)
	post.ScheduledTime = strings.TrimSpace(timeStr)
	post.Timezone = strings.TrimSpace(timezone)
	if post.Timezone == "" {
		post.Timezone = "UTC"
	}

	if err := s.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create scheduled post: %w", err)
	}

	s.notifier.Notify(fmt.Sprintf("内容已排期至 %s %s", post.ScheduledDate, post.ScheduledTime), SeveritySuccess)
	return post, nil
}

// SaveDraft 将编辑器状态落库为一条 draft 记录，此时才分配持久化 ID。
func (s *ScheduleService) SaveDraft(state ComposerState, userID uint) (*db.Post, error) {
	post, err := s.buildPost(state, userID)
	if err != nil {
		return nil, err
	}
	post.Status = StatusDraft

	if err := s.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create draft post: %w", err)
	}

	s.notifier.Notify("草稿已保存", SeveritySuccess)
	return post, nil
}

// Reschedule 修改既有记录的排期日期，由日历拖拽调用。
// 对任何状态的记录都会成功，并把状态强制改为 scheduled：
// 未排期的内容在落到新日期时被静默提升，已发布的内容会被拽回
// scheduled 状态。这是与现有产品行为保持一致的刻意设计。
// 目标日期为空时不做任何修改，返回 ErrScheduleFieldsMissing。
func (s *ScheduleService) Reschedule(postID uint, newDate string) (*db.Post, error) {
	if strings.TrimSpace(newDate) == "" {
		s.notifier.Notify("缺少目标日期，改期未执行", SeverityWarning)
		return nil, ErrScheduleFieldsMissing
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{
		"scheduled_date": strings.TrimSpace(newDate),
		"status":         StatusScheduled,
	}
	if err := s.db.Model(&db.Post{}).Where("id = ?", post.ID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("reschedule post: %w", err)
	}

	post.ScheduledDate = strings.TrimSpace(newDate)
	post.Status = StatusScheduled

	s.notifier.Notify(fmt.Sprintf("内容已移动到 %s", post.ScheduledDate), SeveritySuccess)
	return &post, nil
}

func (s *ScheduleService) buildPost(state ComposerState, userID uint) (*db.Post, error) {
	post := &db.Post{
		PublicID:  uuid.New().String(),
		Content:   state.Content,
		MediaURL:  state.MediaURL,
		MediaType: state.MediaType,
		UserID:    userID,
		Timezone:  "UTC",
	}

	platforms := make([]string, 0, len(state.Platforms))
	for _, platform := range state.Platforms {
		platforms = append(platforms, string(platform))
	}
	post.SetPlatformList(platforms)

	if state.Poll != nil {
		if err := post.EncodePoll(&db.PollConfig{Options: state.Poll.Options, Duration: state.Poll.Duration}); err != nil {
			return nil, fmt.Errorf("encode poll: %w", err)
		}
	}

	if len(state.PlatformOptions) > 0 {
		options := make(map[string]map[string]string, len(state.PlatformOptions))
		for platform, bag := range state.PlatformOptions {
			if !state.HasPlatform(platform) {
				continue
			}
			copied := make(map[string]string, len(bag))
			for key, value := range bag {
				copied[key] = value
			}
			options[string(platform)] = copied
		}
		if err := post.EncodePlatformOptions(options); err != nil {
			return nil, fmt.Errorf("encode platform options: %w", err)
		}
	}

	return post, nil
}
