package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postdeck/internal/service"
)

// GetCalendar 返回月视图网格，月份与年份缺省为当前自然月
func (a *API) GetCalendar(c *gin.Context) {
	now := time.Now()
	month := time.Month(parseIntQuery(c, "month", int(now.Month())))
	year := parseIntQuery(c, "year", now.Year())
	if month < time.January || month > time.December {
		respondError(c, http.StatusBadRequest, "无效的月份")
		return
	}

	posts, err := a.posts.ListForMonth()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取日历数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"month": int(month),
		"year":  year,
		"cells": service.GenerateGrid(posts, month, year),
	})
}

// GetBoard 返回看板视图，内容按工作流状态分列
func (a *API) GetBoard(c *gin.Context) {
	posts, err := a.posts.ListAll()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取看板数据失败")
		return
	}

	columns := []string{
		service.StatusDraft,
		service.StatusPendingReview,
		service.StatusApproved,
		service.StatusRejected,
		service.StatusScheduled,
		service.StatusPublished,
	}

	c.JSON(http.StatusOK, gin.H{
		"columns": columns,
		"board":   service.BucketByStatus(posts, columns),
	})
}
