package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postdeck/internal/service"
)

// maskKey 只保留 API Key 的尾部 4 位。
func maskKey(key string) string {
	if len(key) <= 4 {
		return key
	}
	return "****" + key[len(key)-4:]
}

func settingsResponse(settings service.SystemSettings) gin.H {
	return gin.H{
		"site_name":        settings.SiteName,
		"site_logo_url":    settings.SiteLogoURL,
		"ai_provider":      settings.AIProvider,
		"openai_api_key":   maskKey(settings.OpenAIAPIKey),
		"deepseek_api_key": maskKey(settings.DeepSeekAPIKey),
	}
}

// GetSystemSettings 读取系统设置
func (a *API) GetSystemSettings(c *gin.Context) {
	settings, err := a.system.GetSettings()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取系统设置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settingsResponse(settings)})
}

// UpdateSystemSettings 保存系统设置
func (a *API) UpdateSystemSettings(c *gin.Context) {
	var payload struct {
		SiteName       string `json:"site_name"`
		SiteLogoURL    string `json:"site_logo_url"`
		AIProvider     string `json:"ai_provider"`
		OpenAIAPIKey   string `json:"openai_api_key"`
		DeepSeekAPIKey string `json:"deepseek_api_key"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	settings, err := a.system.UpdateSettings(service.SystemSettingsInput{
		SiteName:       payload.SiteName,
		SiteLogoURL:    payload.SiteLogoURL,
		AIProvider:     payload.AIProvider,
		OpenAIAPIKey:   payload.OpenAIAPIKey,
		DeepSeekAPIKey: payload.DeepSeekAPIKey,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存系统设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settingsResponse(settings)})
}

// TestAIConnection 验证指定 AI 平台 API Key 的有效性
func (a *API) TestAIConnection(c *gin.Context) {
	var payload struct {
		Provider string `json:"provider"`
		APIKey   string `json:"api_key"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	if err := a.system.TestAIConnection(c.Request.Context(), payload.Provider, payload.APIKey); err != nil {
		if errors.Is(err, service.ErrAIAPIKeyMissing) {
			respondError(c, http.StatusBadRequest, "请先填写 API Key")
			return
		}
		respondError(c, http.StatusBadGateway, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "连接成功"})
}
