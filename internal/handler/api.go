package handler

import (
	"github.com/postdeck/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	posts     *service.PostService
	composer  *service.ComposerService
	media     *service.MediaService
	linkbio   *service.LinkBioService
	accounts  *service.AccountService
	analytics *service.AnalyticsService
	system    *service.SystemSettingService
	generator service.ContentGenerator
	refiner   service.ContentRefiner
	hashtags  service.HashtagSuggester
	analyzer  service.ContentAnalyzer
	uploadDir string
	uploadURL string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, uploadDir, uploadURL string) *API {
	systemService := service.NewSystemSettingService(db)
	aiService := service.NewAIContentService(systemService)

	return &API{
		db:        db,
		posts:     service.NewPostService(db),
		composer:  service.NewComposerService(db),
		media:     service.NewMediaService(db),
		linkbio:   service.NewLinkBioService(db),
		accounts:  service.NewAccountService(db),
		analytics: service.NewAnalyticsService(db),
		system:    systemService,
		generator: aiService,
		refiner:   aiService,
		hashtags:  aiService,
		analyzer:  aiService,
		uploadDir: uploadDir,
		uploadURL: uploadURL,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// SetContentGenerator 注入内容生成实现，主要用于测试。
func (a *API) SetContentGenerator(generator service.ContentGenerator) {
	a.generator = generator
}

// SetContentRefiner 注入内容润色实现，主要用于测试。
func (a *API) SetContentRefiner(refiner service.ContentRefiner) {
	a.refiner = refiner
}

// SetHashtagSuggester 注入标签推荐实现，主要用于测试。
func (a *API) SetHashtagSuggester(suggester service.HashtagSuggester) {
	a.hashtags = suggester
}

// SetContentAnalyzer 注入内容评估实现，主要用于测试。
func (a *API) SetContentAnalyzer(analyzer service.ContentAnalyzer) {
	a.analyzer = analyzer
}

// notice 表示一次状态转换产生的用户可见提示，随响应返回给前端 toast。
type notice struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// noticeCollector 在单次请求内收集服务层发出的提示。
type noticeCollector struct {
	notices []notice
}

// Notify 实现 service.Notifier。
func (c *noticeCollector) Notify(message, severity string) {
	c.notices = append(c.notices, notice{Message: message, Severity: severity})
}

// workflowFor 为当前请求构造带提示收集器的工作流服务。
func (a *API) workflowFor(collector *noticeCollector) *service.WorkflowService {
	return service.NewWorkflowService(a.db, collector)
}

// schedulerFor 为当前请求构造带提示收集器的排期服务。
func (a *API) schedulerFor(collector *noticeCollector) *service.ScheduleService {
	return service.NewScheduleService(a.db, collector)
}
