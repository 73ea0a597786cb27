package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/postdeck/internal/db"
)

// CalendarCell 描述月视图网格中的一个格子。
type CalendarCell struct {
	Day     int       `json:"day"`
	InMonth bool      `json:"inMonth"`
	IsToday bool      `json:"isToday"`
	Posts   []db.Post `json:"posts"`
}

// calendarGridSize 固定为 5 行 7 列的简化布局。
const calendarGridSize = 35

// calendarLeadingCells 网格起始处的占位格数量。
// 简化布局不计算真实的月首星期偏移，也不区分大小月。
const calendarLeadingCells = 3

// BucketByDay 把内容按排期日期的“日”分桶，键为 1~31。
// 已知限制：只解析日期串的日部分，不校验月份与年份是否匹配当前
// 视图，同一日号的跨月内容会出现在每个月的网格里；日号越界的
// 记录会被静默丢弃。month/year 参数保留在签名中以便未来修正。
func BucketByDay(posts []db.Post, month time.Month, year int) map[int][]db.Post {
	_ = month
	_ = year

	buckets := make(map[int][]db.Post)
	for _, post := range posts {
		day, ok := scheduledDay(post.ScheduledDate)
		if !ok {
			continue
		}
		buckets[day] = append(buckets[day], post)
	}
	return buckets
}

// BucketByStatus 把内容按工作流状态分桶，供看板视图使用。
// 桶内保持传入顺序，不做二次排序。
func BucketByStatus(posts []db.Post, statuses []string) map[string][]db.Post {
	buckets := make(map[string][]db.Post, len(statuses))
	for _, status := range statuses {
		buckets[status] = []db.Post{}
	}
	for _, post := range posts {
		if _, ok := buckets[post.Status]; ok {
			buckets[post.Status] = append(buckets[post.Status], post)
		}
	}
	return buckets
}

// IsToday 判断给定的年月日是否为当前自然日。
func IsToday(day int, month time.Month, year int) bool {
	return isToday(day, month, year, time.Now())
}

func isToday(day int, month time.Month, year int, now time.Time) bool {
	return now.Year() == year && now.Month() == month && now.Day() == day
}

// GenerateGrid 生成固定 35 格的月视图网格。
// 格子是否属于当前月仅由推算出的日号是否落在 1~31 决定，
// 这是与前端一致的简化布局（见 BucketByDay 的已知限制说明）。
func GenerateGrid(posts []db.Post, month time.Month, year int) []CalendarCell {
	return generateGrid(posts, month, year, time.Now())
}

func generateGrid(posts []db.Post, month time.Month, year int, now time.Time) []CalendarCell {
	buckets := BucketByDay(posts, month, year)

	cells := make([]CalendarCell, 0, calendarGridSize)
	for i := 0; i < calendarGridSize; i++ {
		day := i - calendarLeadingCells + 1
		inMonth := day >= 1 && day <= 31

		cell := CalendarCell{Day: day, InMonth: inMonth}
		if inMonth {
			cell.Posts = buckets[day]
			cell.IsToday = isToday(day, month, year, now)
		}
		cells = append(cells, cell)
	}
	return cells
}

// scheduledDay 解析 YYYY-MM-DD 中的日号，越界或无法解析时返回 false。
func scheduledDay(scheduledDate string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(scheduledDate), "-")
	if len(parts) != 3 {
		return 0, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, false
	}
	if day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}
