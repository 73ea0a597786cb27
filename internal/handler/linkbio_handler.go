package handler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/postdeck/internal/service"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// renderMarkdown 将 Markdown 渲染为净化后的 HTML。
func renderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// GetPublicBioPage 返回对外展示的 bio 页面：简介渲染为 HTML，只含可见链接
func (a *API) GetPublicBioPage(c *gin.Context) {
	page, err := a.linkbio.GetPage(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrBioPageNotFound) {
			respondError(c, http.StatusNotFound, "页面不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取页面失败")
		return
	}

	bioHTML, err := renderMarkdown(page.Bio)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "渲染简介失败")
		return
	}

	links, err := a.linkbio.ListLinks(false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取链接失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"page": gin.H{
			"slug":    page.Slug,
			"title":   page.Title,
			"bio":     page.Bio,
			"bioHtml": bioHTML,
			"theme":   page.Theme,
		},
		"links": links,
	})
}

// GetBioPage 返回后台编辑视图的 bio 页面与全部链接
func (a *API) GetBioPage(c *gin.Context) {
	page, err := a.linkbio.GetPage("bio")
	if err != nil && !errors.Is(err, service.ErrBioPageNotFound) {
		respondError(c, http.StatusInternalServerError, "获取页面失败")
		return
	}

	links, err := a.linkbio.ListLinks(true)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取链接失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page, "links": links})
}

// SaveBioPage 创建或更新 bio 页面
func (a *API) SaveBioPage(c *gin.Context) {
	var payload struct {
		Title string `json:"title"`
		Bio   string `json:"bio"`
		Theme string `json:"theme"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	page, err := a.linkbio.SavePage(payload.Title, payload.Bio, payload.Theme)
	if err != nil {
		if errors.Is(err, service.ErrBioMissing) {
			respondError(c, http.StatusBadRequest, "简介内容不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "保存页面失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"page": page})
}

type bioLinkPayload struct {
	Label   string `json:"label"`
	URL     string `json:"url"`
	Icon    string `json:"icon"`
	Sort    *int   `json:"sort"`
	Visible *bool  `json:"visible"`
}

func (p bioLinkPayload) toInput() service.BioLinkInput {
	return service.BioLinkInput{
		Label:   p.Label,
		URL:     p.URL,
		Icon:    p.Icon,
		Sort:    p.Sort,
		Visible: p.Visible,
	}
}

// CreateBioLink 新增跳转链接
func (a *API) CreateBioLink(c *gin.Context) {
	var payload bioLinkPayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	link, err := a.linkbio.CreateLink(payload.toInput())
	if err != nil {
		if errors.Is(err, service.ErrBioLinkInvalidInput) {
			respondError(c, http.StatusBadRequest, "链接名称与地址不能为空")
			return
		}
		respondError(c, http.StatusInternalServerError, "创建链接失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// UpdateBioLink 更新跳转链接
func (a *API) UpdateBioLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	var payload bioLinkPayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	link, err := a.linkbio.UpdateLink(id, payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBioLinkNotFound):
			respondError(c, http.StatusNotFound, "链接不存在")
		case errors.Is(err, service.ErrBioLinkInvalidInput):
			respondError(c, http.StatusBadRequest, "链接名称与地址不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "更新链接失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"link": link})
}

// DeleteBioLink 删除跳转链接
func (a *API) DeleteBioLink(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	if err := a.linkbio.DeleteLink(id); err != nil {
		if errors.Is(err, service.ErrBioLinkNotFound) {
			respondError(c, http.StatusNotFound, "链接不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "删除链接失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "链接已删除"})
}

// RecordBioLinkClick 记录公开页面上的一次链接点击
func (a *API) RecordBioLinkClick(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的链接ID")
		return
	}

	if err := a.linkbio.RecordClick(id); err != nil {
		if errors.Is(err, service.ErrBioLinkNotFound) {
			respondError(c, http.StatusNotFound, "链接不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "记录点击失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
