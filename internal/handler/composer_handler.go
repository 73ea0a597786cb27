package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postdeck/internal/service"
)

// GetComposerDraft 读取服务端暂存的草稿正文
func (a *API) GetComposerDraft(c *gin.Context) {
	content, err := a.composer.LoadDraft()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "读取草稿失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content})
}

// SaveComposerDraft 暂存草稿正文，编辑器每次变更时调用
func (a *API) SaveComposerDraft(c *gin.Context) {
	var payload struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	if err := a.composer.SaveDraft(payload.Content); err != nil {
		respondError(c, http.StatusInternalServerError, "保存草稿失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "草稿已暂存"})
}

// ClearComposerDraft 清空服务端暂存的草稿正文
func (a *API) ClearComposerDraft(c *gin.Context) {
	if err := a.composer.ClearDraft(); err != nil {
		respondError(c, http.StatusInternalServerError, "清空草稿失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "草稿已清空"})
}

// previewEntry 是单个平台的预览结果。
type previewEntry struct {
	Platform  string   `json:"platform"`
	Segments  []string `json:"segments"`
	Footer    string   `json:"footer,omitempty"`
	MaxLength int      `json:"maxLength"`
	Badge     string   `json:"badge"`
	Color     string   `json:"color"`
}

// PreviewPost 按平台渲染正文预览：超限平台拆分为多段线程，
// 并附带可选字段组成的尾部说明。
func (a *API) PreviewPost(c *gin.Context) {
	var payload struct {
		Content         string                       `json:"content"`
		Platforms       []string                     `json:"platforms"`
		PlatformOptions map[string]map[string]string `json:"platformOptions"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	previews := make([]previewEntry, 0, len(payload.Platforms))
	for _, name := range payload.Platforms {
		platform := service.Platform(name)
		badge, color := service.PlatformBadge(platform)
		previews = append(previews, previewEntry{
			Platform:  name,
			Segments:  service.RenderSegments(payload.Content, platform),
			Footer:    service.RenderOptionsFooter(platform, payload.PlatformOptions[name]),
			MaxLength: service.MaxLength(platform),
			Badge:     badge,
			Color:     color,
		})
	}

	c.JSON(http.StatusOK, gin.H{"previews": previews})
}

// GetPlatforms 返回全部已知平台及其规则，供编辑器展示
func (a *API) GetPlatforms(c *gin.Context) {
	type platformInfo struct {
		Name      string `json:"name"`
		MaxLength int    `json:"maxLength"`
		Badge     string `json:"badge"`
		Color     string `json:"color"`
	}

	known := service.KnownPlatforms()
	platforms := make([]platformInfo, 0, len(known))
	for _, platform := range known {
		badge, color := service.PlatformBadge(platform)
		platforms = append(platforms, platformInfo{
			Name:      string(platform),
			MaxLength: service.MaxLength(platform),
			Badge:     badge,
			Color:     color,
		})
	}

	c.JSON(http.StatusOK, gin.H{"platforms": platforms})
}
