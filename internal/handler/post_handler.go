package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/postdeck/internal/db"
	"github.com/postdeck/internal/service"
)

// composerPayload 镜像前端编辑器提交的完整状态。
type composerPayload struct {
	Content   string   `json:"content"`
	Platforms []string `json:"platforms"`
	MediaURL  string   `json:"mediaUrl"`
	MediaType string   `json:"mediaType"`
	Poll      *struct {
		Options  []string `json:"options"`
		Duration int      `json:"duration"`
	} `json:"poll"`
	PlatformOptions map[string]map[string]string `json:"platformOptions"`
}

// toComposerState 通过编辑器的更新函数重建状态，确保媒体/投票互斥等
// 约束在服务端同样生效。
func (p composerPayload) toComposerState() (service.ComposerState, error) {
	state := service.NewComposerState().SetContent(p.Content)
	for _, name := range p.Platforms {
		state = state.TogglePlatform(service.Platform(name))
	}
	if p.MediaURL != "" {
		state = state.AttachMedia(p.MediaURL, p.MediaType)
	}
	if p.Poll != nil {
		var err error
		state, err = state.AttachPoll(p.Poll.Options, p.Poll.Duration)
		if err != nil {
			return state, err
		}
	}
	for platform, bag := range p.PlatformOptions {
		for key, value := range bag {
			var err error
			state, err = state.SetPlatformOption(service.Platform(platform), key, value)
			if err != nil {
				return state, err
			}
		}
	}
	return state, nil
}

// GetPosts 获取内容列表，支持搜索、状态、平台与日期过滤
func (a *API) GetPosts(c *gin.Context) {
	filter := service.PostFilter{
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		Platform:  c.Query("platform"),
		StartDate: c.Query("start"),
		EndDate:   c.Query("end"),
		Page:      parseIntQuery(c, "page", 1),
		PerPage:   parseIntQuery(c, "per_page", 10),
	}

	result, err := a.posts.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取内容列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":           result.Posts,
		"total":           result.Total,
		"total_pages":     result.TotalPages,
		"page":            result.Page,
		"per_page":        result.PerPage,
		"draft_count":     result.DraftCount,
		"pending_count":   result.PendingCount,
		"scheduled_count": result.ScheduledCount,
		"published_count": result.PublishedCount,
	})
}

// GetPost 获取单条内容
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "内容不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取内容失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// SaveDraftPost 将编辑器状态落库为草稿，此时才分配持久化 ID
func (a *API) SaveDraftPost(c *gin.Context) {
	var payload composerPayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	state, err := payload.toComposerState()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	collector := &noticeCollector{}
	post, err := a.schedulerFor(collector).SaveDraft(state, currentUserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "保存草稿失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "notifications": collector.notices})
}

// SchedulePost 将编辑器状态物化为已排期的内容记录，并清空服务端草稿
func (a *API) SchedulePost(c *gin.Context) {
	var payload struct {
		composerPayload
		Date     string `json:"date"`
		Time     string `json:"time"`
		Timezone string `json:"timezone"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	state, err := payload.toComposerState()
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	collector := &noticeCollector{}
	post, err := a.schedulerFor(collector).Schedule(state, payload.Date, payload.Time, payload.Timezone, currentUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContentRequired), errors.Is(err, service.ErrPlatformRequired),
			errors.Is(err, service.ErrScheduleFieldsMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "notifications": collector.notices})
		default:
			respondError(c, http.StatusInternalServerError, "排期失败")
		}
		return
	}

	// 排期成功后编辑器回到空白草稿
	if err := a.composer.ClearDraft(); err != nil {
		c.Error(err)
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "notifications": collector.notices})
}

// UpdatePost 更新内容；驳回状态的内容在重新编辑后隐式回到草稿
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	var payload composerPayload
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	input := service.PostInput{
		Content:         payload.Content,
		Platforms:       payload.Platforms,
		MediaURL:        payload.MediaURL,
		MediaType:       payload.MediaType,
		PlatformOptions: payload.PlatformOptions,
	}
	if payload.Poll != nil {
		input.Poll = &db.PollConfig{Options: payload.Poll.Options, Duration: payload.Poll.Duration}
	}

	post, err := a.posts.Update(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "内容不存在")
		case errors.Is(err, service.ErrPlatformRequired), errors.Is(err, service.ErrPlatformUnknown):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, "更新内容失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// DeletePost 删除内容及其审核评论
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除内容失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "内容已删除"})
}

// SubmitForReview 执行 draft → pending_review
func (a *API) SubmitForReview(c *gin.Context) {
	a.runTransition(c, func(workflow *service.WorkflowService, id uint) (*db.Post, error) {
		return workflow.SubmitForReview(id)
	})
}

// ApprovePost 执行 pending_review → approved
func (a *API) ApprovePost(c *gin.Context) {
	a.runTransition(c, func(workflow *service.WorkflowService, id uint) (*db.Post, error) {
		return workflow.Approve(id)
	})
}

// RejectPost 执行 pending_review → rejected
func (a *API) RejectPost(c *gin.Context) {
	a.runTransition(c, func(workflow *service.WorkflowService, id uint) (*db.Post, error) {
		return workflow.Reject(id)
	})
}

// PublishPost 执行 scheduled → published 的模拟发布
func (a *API) PublishPost(c *gin.Context) {
	a.runTransition(c, func(workflow *service.WorkflowService, id uint) (*db.Post, error) {
		return workflow.MarkPublished(id, nil)
	})
}

// runTransition 统一处理状态转换的加载、错误映射与提示返回。
func (a *API) runTransition(c *gin.Context, transition func(*service.WorkflowService, uint) (*db.Post, error)) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	collector := &noticeCollector{}
	post, err := transition(a.workflowFor(collector), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "内容不存在")
		case errors.Is(err, service.ErrIllegalTransition), errors.Is(err, service.ErrContentRequired),
			errors.Is(err, service.ErrPlatformRequired):
			// 非法转换按无操作处理，提示随响应返回
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "notifications": collector.notices})
		default:
			respondError(c, http.StatusInternalServerError, "状态更新失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "notifications": collector.notices})
}

// ReschedulePost 修改排期日期，由日历拖拽调用
func (a *API) ReschedulePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	var payload struct {
		Date string `json:"date"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	collector := &noticeCollector{}
	post, err := a.schedulerFor(collector).Reschedule(id, payload.Date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "内容不存在")
		case errors.Is(err, service.ErrScheduleFieldsMissing):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "notifications": collector.notices})
		default:
			respondError(c, http.StatusInternalServerError, "改期失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "notifications": collector.notices})
}

// GetPostComments 返回内容的审核评论
func (a *API) GetPostComments(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	comments, err := a.posts.Comments(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取评论失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddPostComment 在审核流程中追加一条评论
func (a *API) AddPostComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	var payload struct {
		Author string `json:"author"`
		Body   string `json:"body"`
	}
	if !bindJSON(c, &payload, "无效的请求数据") {
		return
	}

	comment, err := a.posts.AddComment(id, payload.Author, payload.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "内容不存在")
		case errors.Is(err, service.ErrCommentEmpty):
			respondError(c, http.StatusBadRequest, "评论内容不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "添加评论失败")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

// GetPostPublications 返回内容的发布快照
func (a *API) GetPostPublications(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的内容ID")
		return
	}

	publications, err := a.workflowFor(&noticeCollector{}).Publications(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取发布记录失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"publications": publications})
}
