package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postdeck/internal/service"
)

// GenerateContent 调用 AI 按主题生成内容
func (a *API) GenerateContent(c *gin.Context) {
	var payload struct {
		Topic    string `json:"topic"`
		Platform string `json:"platform"`
		Tone     string `json:"tone"`
		Kind     string `json:"kind"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	result, err := a.generator.Generate(c.Request.Context(), service.GenerateInput{
		Topic:    payload.Topic,
		Platform: service.Platform(payload.Platform),
		Tone:     payload.Tone,
		Kind:     payload.Kind,
	})
	if err != nil {
		if errors.Is(err, service.ErrTopicRequired) {
			respondError(c, http.StatusBadRequest, "请先填写主题")
			return
		}
		respondError(c, http.StatusBadGateway, "AI 生成失败："+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content": result.Content,
		"usage": gin.H{
			"prompt_tokens":     result.PromptTokens,
			"completion_tokens": result.CompletionTokens,
		},
	})
}

// RefineContent 调用 AI 按指令润色既有内容
func (a *API) RefineContent(c *gin.Context) {
	var payload struct {
		Content     string `json:"content"`
		Instruction string `json:"instruction"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	result, err := a.refiner.Refine(c.Request.Context(), payload.Content, payload.Instruction)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentRequired):
			respondError(c, http.StatusBadRequest, "正文不能为空")
		case errors.Is(err, service.ErrInstructionRequired):
			respondError(c, http.StatusBadRequest, "请填写修改说明")
		default:
			respondError(c, http.StatusBadGateway, "AI 润色失败："+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"content": result.Content})
}

// GenerateHashtags 调用 AI 推荐话题标签
func (a *API) GenerateHashtags(c *gin.Context) {
	var payload struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	hashtags, err := a.hashtags.GenerateHashtags(c.Request.Context(), payload.Content)
	if err != nil {
		if errors.Is(err, service.ErrContentRequired) {
			respondError(c, http.StatusBadRequest, "正文不能为空")
			return
		}
		respondError(c, http.StatusBadGateway, "AI 标签推荐失败："+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"hashtags": hashtags})
}

// AnalyzeContent 调用 AI 评估内容质量
func (a *API) AnalyzeContent(c *gin.Context) {
	var payload struct {
		Content  string `json:"content"`
		Platform string `json:"platform"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	analysis, err := a.analyzer.Analyze(c.Request.Context(), payload.Content, service.Platform(payload.Platform))
	if err != nil {
		if errors.Is(err, service.ErrContentRequired) {
			respondError(c, http.StatusBadRequest, "正文不能为空")
			return
		}
		respondError(c, http.StatusBadGateway, "AI 评估失败："+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}
