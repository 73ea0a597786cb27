package main

import (
	"fmt"
	"log"
	"time"

	"github.com/postdeck/internal/config"
	"github.com/postdeck/internal/db"
	"github.com/postdeck/internal/service"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据生成器
func main() {
	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成演示数据...")

	// 创建演示用户
	createDemoUsers()

	// 创建演示社交账号
	createDemoAccounts()

	// 创建 Link-in-bio 页面
	createDemoBioPage()

	// 创建覆盖各流程状态的演示内容
	createDemoPosts()

	fmt.Println("演示数据生成完成！")
	fmt.Println("用户: admin (密码: admin123)")
	fmt.Println("内容: 覆盖草稿、待审、已排期、已发布等状态")
}

// 创建演示用户
func createDemoUsers() {
	// 检查是否已存在用户
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		return
	}

	// 创建管理员用户
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	admin := db.User{
		Username:    "admin",
		Password:    string(hashedPassword),
		DisplayName: "运营负责人",
	}
	db.DB.Create(&admin)

	// 创建普通编辑
	hashedPassword2, _ := bcrypt.GenerateFromPassword([]byte("editor123"), bcrypt.DefaultCost)
	editor := db.User{
		Username:    "editor",
		Password:    string(hashedPassword2),
		DisplayName: "内容编辑",
	}
	db.DB.Create(&editor)

	fmt.Println("✅ 演示用户创建完成")
}

// 创建演示社交账号
func createDemoAccounts() {
	if err := service.NewAccountService(db.DB).EnsureDemoAccounts(); err != nil {
		log.Printf("创建演示账号失败: %v", err)
		return
	}
	fmt.Println("✅ 演示社交账号创建完成")
}

// 创建 Link-in-bio 页面和链接
func createDemoBioPage() {
	linkSvc := service.NewLinkBioService(db.DB)
	if _, err := linkSvc.GetPage("bio"); err == nil {
		fmt.Println("Bio 页面已存在，跳过创建")
		return
	}

	if _, err := linkSvc.SavePage("PostDeck 官方", "一站式社交媒体排期工具，帮助团队管理多平台内容。", "dark"); err != nil {
		log.Printf("创建 Bio 页面失败: %v", err)
		return
	}

	links := []service.BioLinkInput{
		{Label: "官网", URL: "https://postdeck.example.com", Icon: "globe"},
		{Label: "产品更新日志", URL: "https://postdeck.example.com/changelog", Icon: "sparkles"},
		{Label: "加入社区", URL: "https://discord.example.com/postdeck", Icon: "users"},
	}
	for _, input := range links {
		if _, err := linkSvc.CreateLink(input); err != nil {
			log.Printf("创建 Bio 链接失败: %v", err)
		}
	}

	fmt.Println("✅ Link-in-bio 页面创建完成")
}

// 演示内容定义
type demoPostSeed struct {
	content     string
	platforms   []service.Platform
	status      string
	dayOffset   int
	timeStr     string
	likes       uint64
	impressions uint64
}

var demoPostSeeds = []demoPostSeed{
	{
		content:   "新版本的排期日历上线了！现在可以直接拖拽卡片改期，欢迎体验并告诉我们你的感受。",
		platforms: []service.Platform{service.PlatformTwitter, service.PlatformLinkedIn},
		status:    service.StatusDraft,
	},
	{
		content:   "写给团队的一点思考：内容排期不是填满日历，而是让每条内容都出现在它该出现的时刻。",
		platforms: []service.Platform{service.PlatformLinkedIn},
		status:    service.StatusDraft,
	},
	{
		content:   "我们整理了十个提升互动率的小技巧，从标题到配图逐条拆解，这周陆续发布。",
		platforms: []service.Platform{service.PlatformTwitter, service.PlatformInstagram},
		status:    service.StatusPendingReview,
	},
	{
		content:   "本周五晚八点直播：聊聊多平台运营的工作流，如何用一份草稿适配七个平台。",
		platforms: []service.Platform{service.PlatformYouTube},
		status:    service.StatusApproved,
	},
	{
		content:   "限时优惠最后一天！年付套餐直降三成，点击主页链接了解详情。",
		platforms: []service.Platform{service.PlatformInstagram},
		status:    service.StatusRejected,
	},
	{
		content:   "每周一图：过去 30 天团队发布节奏的热力图，周三下午依然是互动高峰。",
		platforms: []service.Platform{service.PlatformTwitter},
		status:    service.StatusScheduled,
		dayOffset: 1,
		timeStr:   "09:30",
	},
	{
		content:   "幕后故事：一条爆款短视频从脚本到发布的完整流程，我们把模板开放出来了。",
		platforms: []service.Platform{service.PlatformTikTok, service.PlatformInstagram},
		status:    service.StatusScheduled,
		dayOffset: 3,
		timeStr:   "18:00",
	},
	{
		content:   "招聘：我们在找一位熟悉内容运营的产品经理，远程友好，详情见评论区链接。",
		platforms: []service.Platform{service.PlatformLinkedIn},
		status:    service.StatusScheduled,
		dayOffset: 5,
		timeStr:   "10:00",
	},
	{
		content:     "感谢大家的支持，PostDeck 注册用户突破一万！我们准备了一份小礼物回馈早期用户。",
		platforms:   []service.Platform{service.PlatformTwitter, service.PlatformInstagram},
		status:      service.StatusPublished,
		dayOffset:   -2,
		timeStr:     "12:00",
		likes:       320,
		impressions: 12800,
	},
	{
		content:     "功能预告：AI 辅助写作已进入内测，输入主题即可生成符合平台长度限制的初稿。",
		platforms:   []service.Platform{service.PlatformTwitter},
		status:      service.StatusPublished,
		dayOffset:   -5,
		timeStr:     "20:00",
		likes:       145,
		impressions: 6400,
	},
}

// 创建演示内容
func createDemoPosts() {
	// 清理旧内容及关联
	db.DB.Exec("DELETE FROM post_engagements")
	db.DB.Exec("DELETE FROM post_publications")
	db.DB.Exec("DELETE FROM post_comments")
	db.DB.Exec("DELETE FROM posts")

	// 获取管理员用户
	var admin db.User
	db.DB.Where("username = ?", "admin").First(&admin)

	silent := service.NotifierFunc(func(message, severity string) {})
	scheduler := service.NewScheduleService(db.DB, silent)
	workflow := service.NewWorkflowService(db.DB, silent)
	posts := service.NewPostService(db.DB)
	analytics := service.NewAnalyticsService(db.DB)

	for _, seed := range demoPostSeeds {
		state := service.NewComposerState().SetContent(seed.content)
		for _, platform := range seed.platforms {
			state = state.TogglePlatform(platform)
		}

		var post *db.Post
		var err error
		if seed.timeStr != "" {
			date := time.Now().AddDate(0, 0, seed.dayOffset).Format("2006-01-02")
			post, err = scheduler.Schedule(state, date, seed.timeStr, "Asia/Shanghai", admin.ID)
		} else {
			post, err = scheduler.SaveDraft(state, admin.ID)
		}
		if err != nil {
			log.Printf("创建演示内容失败: %v", err)
			continue
		}

		switch seed.status {
		case service.StatusPendingReview:
			_, err = workflow.SubmitForReview(post.ID)
		case service.StatusApproved:
			if _, err = workflow.SubmitForReview(post.ID); err == nil {
				_, err = workflow.Approve(post.ID)
			}
		case service.StatusRejected:
			if _, err = workflow.SubmitForReview(post.ID); err == nil {
				if _, err = workflow.Reject(post.ID); err == nil {
					_, err = posts.AddComment(post.ID, "运营负责人", "促销文案需要先过法务，改完再提一次。")
				}
			}
		case service.StatusPublished:
			_, err = workflow.MarkPublished(post.ID, nil)
		}
		if err != nil {
			log.Printf("推进演示内容状态失败: %v", err)
			continue
		}

		if seed.status == service.StatusPublished && seed.likes > 0 {
			for _, platform := range seed.platforms {
				if _, err := analytics.RecordEngagement(service.EngagementInput{
					PostID:      post.ID,
					Platform:    platform,
					Likes:       seed.likes,
					Comments:    seed.likes / 10,
					Shares:      seed.likes / 20,
					Impressions: seed.impressions,
				}); err != nil {
					log.Printf("写入演示互动数据失败: %v", err)
				}
			}
		}
	}

	fmt.Println("✅ 演示内容创建完成")
}
