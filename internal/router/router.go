package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/postdeck/internal/handler"
)

// Options 控制路由装配的可变部分。
type Options struct {
	SessionSecret string
	UploadDir     string
	UploadURLPath string
}

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, opts Options) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	secret := opts.SessionSecret
	if secret == "" {
		secret = "postdeck-dev-secret"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("postdeck_session", store))

	// 静态文件服务：已上传的媒体
	if opts.UploadDir != "" && opts.UploadURLPath != "" {
		r.Static(opts.UploadURLPath, opts.UploadDir)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// 无需认证的公开路由
	public := r.Group("/api/public")
	{
		public.GET("/bio/:slug", api.GetPublicBioPage)
		public.POST("/bio/links/:id/click", api.RecordBioLinkClick)
	}

	r.POST("/api/login", api.Login)
	r.POST("/api/logout", api.Logout)

	// 需要认证的工作区路由
	auth := r.Group("/api")
	auth.Use(handler.AuthRequired())
	{
		auth.GET("/me", api.CurrentUser)

		auth.GET("/posts", api.GetPosts)
		auth.GET("/posts/:id", api.GetPost)
		auth.PUT("/posts/:id", api.UpdatePost)
		auth.DELETE("/posts/:id", api.DeletePost)
		auth.POST("/posts/draft", api.SaveDraftPost)
		auth.POST("/posts/schedule", api.SchedulePost)
		auth.POST("/posts/:id/submit-review", api.SubmitForReview)
		auth.POST("/posts/:id/approve", api.ApprovePost)
		auth.POST("/posts/:id/reject", api.RejectPost)
		auth.POST("/posts/:id/publish", api.PublishPost)
		auth.POST("/posts/:id/reschedule", api.ReschedulePost)
		auth.GET("/posts/:id/comments", api.GetPostComments)
		auth.POST("/posts/:id/comments", api.AddPostComment)
		auth.GET("/posts/:id/publications", api.GetPostPublications)
		auth.GET("/posts/:id/engagements", api.GetPostEngagements)
		auth.POST("/posts/:id/engagements", api.RecordEngagement)

		auth.GET("/calendar", api.GetCalendar)
		auth.GET("/board", api.GetBoard)

		auth.GET("/platforms", api.GetPlatforms)
		auth.POST("/preview", api.PreviewPost)

		auth.GET("/composer/draft", api.GetComposerDraft)
		auth.PUT("/composer/draft", api.SaveComposerDraft)
		auth.DELETE("/composer/draft", api.ClearComposerDraft)

		auth.POST("/ai/generate", api.GenerateContent)
		auth.POST("/ai/refine", api.RefineContent)
		auth.POST("/ai/hashtags", api.GenerateHashtags)
		auth.POST("/ai/analyze", api.AnalyzeContent)

		auth.POST("/media", api.UploadMedia)
		auth.GET("/media", api.GetMediaAssets)
		auth.DELETE("/media/:id", api.DeleteMediaAsset)

		auth.GET("/bio", api.GetBioPage)
		auth.PUT("/bio", api.SaveBioPage)
		auth.POST("/bio/links", api.CreateBioLink)
		auth.PUT("/bio/links/:id", api.UpdateBioLink)
		auth.DELETE("/bio/links/:id", api.DeleteBioLink)

		auth.GET("/accounts", api.GetSocialAccounts)
		auth.POST("/accounts", api.ConnectSocialAccount)
		auth.POST("/accounts/:id/disconnect", api.DisconnectSocialAccount)

		auth.GET("/dashboard", api.GetDashboard)

		auth.GET("/settings", api.GetSystemSettings)
		auth.PUT("/settings", api.UpdateSystemSettings)
		auth.POST("/settings/test-ai", api.TestAIConnection)
	}

	return r
}
