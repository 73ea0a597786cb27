package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/postdeck/internal/service"
)

// GetDashboard 返回仪表盘首屏的聚合统计
func (a *API) GetDashboard(c *gin.Context) {
	monthPrefix := c.Query("month")
	if monthPrefix == "" {
		monthPrefix = time.Now().Format("2006-01")
	}

	summary, err := a.analytics.Summary(monthPrefix)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取仪表盘数据失败")
		return
	}

	totals, err := a.analytics.Totals()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取互动数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary, "engagement": totals})
}

// RecordEngagement 写入或累加一条平台级互动数据
func (a *API) RecordEngagement(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	var payload struct {
		Platform    string `json:"platform"`
		Likes       uint64 `json:"likes"`
		Comments    uint64 `json:"comments"`
		Shares      uint64 `json:"shares"`
		Impressions uint64 `json:"impressions"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	engagement, err := a.analytics.RecordEngagement(service.EngagementInput{
		PostID:      id,
		Platform:    service.Platform(payload.Platform),
		Likes:       payload.Likes,
		Comments:    payload.Comments,
		Shares:      payload.Shares,
		Impressions: payload.Impressions,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "写入互动数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"engagement": engagement})
}

// GetPostEngagements 返回单条内容的平台级互动数据
func (a *API) GetPostEngagements(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	engagements, err := a.analytics.PostEngagements(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取互动数据失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"engagements": engagements})
}
