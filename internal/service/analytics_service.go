package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/postdeck/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnalyticsService 负责仪表盘与报表视图的聚合统计。
// 互动数据由演示层写入 post_engagements，这里只做读取与累加。
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService 创建 AnalyticsService。
func NewAnalyticsService(gdb *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: gdb}
}

// DashboardSummary 汇总仪表盘首屏需要的计数。
type DashboardSummary struct {
	TotalPosts     int64            `json:"totalPosts"`
	ByStatus       map[string]int64 `json:"byStatus"`
	ByPlatform     map[string]int64 `json:"byPlatform"`
	ScheduledMonth int64            `json:"scheduledThisMonth"`
	TotalAccounts  int64            `json:"connectedAccounts"`
}

// EngagementTotals 汇总全部平台的互动数据。
type EngagementTotals struct {
	Likes       uint64 `json:"likes"`
	Comments    uint64 `json:"comments"`
	Shares      uint64 `json:"shares"`
	Impressions uint64 `json:"impressions"`
}

// EngagementInput 描述一次互动数据写入。
type EngagementInput struct {
	PostID      uint
	Platform    Platform
	Likes       uint64
	Comments    uint64
	Shares      uint64
	Impressions uint64
}

// Summary 返回仪表盘聚合计数。
// monthPrefix 形如 2024-07，用于统计当月排期数量；为空时跳过该项。
func (s *AnalyticsService) Summary(monthPrefix string) (*DashboardSummary, error) {
	summary := &DashboardSummary{
		ByStatus:   make(map[string]int64),
		ByPlatform: make(map[string]int64),
	}

	if err := s.db.Model(&db.Post{}).Count(&summary.TotalPosts).Error; err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	type statusCount struct {
		Status string
		Total  int64
	}
	var statusCounts []statusCount
	if err := s.db.Model(&db.Post{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, fmt.Errorf("count posts by status: %w", err)
	}
	for _, row := range statusCounts {
		summary.ByStatus[row.Status] = row.Total
	}

	// 平台字段是逗号分隔的集合，这里在应用层展开统计
	var posts []db.Post
	if err := s.db.Select("platforms").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("load post platforms: %w", err)
	}
	for i := range posts {
		for _, platform := range posts[i].PlatformList() {
			summary.ByPlatform[platform]++
		}
	}

	if prefix := strings.TrimSpace(monthPrefix); prefix != "" {
		if err := s.db.Model(&db.Post{}).
			Where("status = ? AND scheduled_date LIKE ?", StatusScheduled, prefix+"%").
			Count(&summary.ScheduledMonth).Error; err != nil {
			return nil, fmt.Errorf("count scheduled posts: %w", err)
		}
	}

	if err := s.db.Model(&db.SocialAccount{}).
		Where("connected = ?", true).
		Count(&summary.TotalAccounts).Error; err != nil {
		return nil, fmt.Errorf("count connected accounts: %w", err)
	}

	return summary, nil
}

// RecordEngagement 写入或累加一条平台级互动数据。
func (s *AnalyticsService) RecordEngagement(input EngagementInput) (*db.PostEngagement, error) {
	if input.PostID == 0 || strings.TrimSpace(string(input.Platform)) == "" {
		return nil, errors.New("invalid post or platform")
	}

	var engagement db.PostEngagement
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		record := db.PostEngagement{
			PostID:      input.PostID,
			Platform:    string(input.Platform),
			Likes:       input.Likes,
			Comments:    input.Comments,
			Shares:      input.Shares,
			Impressions: input.Impressions,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "platform"}},
			DoNothing: true,
		}).Create(&record)
		if insert.Error != nil {
			return insert.Error
		}

		if insert.RowsAffected == 0 {
			if err := tx.Where("post_id = ? AND platform = ?", input.PostID, string(input.Platform)).
				First(&engagement).Error; err != nil {
				return err
			}
			engagement.Likes += input.Likes
			engagement.Comments += input.Comments
			engagement.Shares += input.Shares
			engagement.Impressions += input.Impressions
			return tx.Save(&engagement).Error
		}

		engagement = record
		return nil
	}); err != nil {
		return nil, fmt.Errorf("record engagement: %w", err)
	}

	return &engagement, nil
}

// Totals 汇总全部互动数据。
func (s *AnalyticsService) Totals() (*EngagementTotals, error) {
	var totals EngagementTotals
	row := s.db.Model(&db.PostEngagement{}).
		Select("COALESCE(SUM(likes),0) as likes, COALESCE(SUM(comments),0) as comments, COALESCE(SUM(shares),0) as shares, COALESCE(SUM(impressions),0) as impressions").
		Row()
	if err := row.Scan(&totals.Likes, &totals.Comments, &totals.Shares, &totals.Impressions); err != nil {
		return nil, fmt.Errorf("sum engagements: %w", err)
	}
	return &totals, nil
}

// PostEngagements 返回单条内容的平台级互动数据。
func (s *AnalyticsService) PostEngagements(postID uint) ([]db.PostEngagement, error) {
	var engagements []db.PostEngagement
	if err := s.db.Where("post_id = ?", postID).
		Order("platform asc").
		Find(&engagements).Error; err != nil {
		return nil, fmt.Errorf("list engagements: %w", err)
	}
	return engagements, nil
}
