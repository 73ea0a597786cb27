package service

// Platform 标识一个目标社交平台。
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformPinterest Platform = "pinterest"
)

// 平台可选字段的键名，composer 与预览层共用。
const (
	OptionFirstComment    = "first_comment"
	OptionDestinationLink = "destination_link"
	OptionVisibility      = "visibility"
)

// platformProfile 描述单个平台的内容约束与展示信息。
// MaxLength 为 0 表示不限制长度。
type platformProfile struct {
	MaxLength int
	Options   []string
	Icon      string
	Color     string
}

var platformProfiles = map[Platform]platformProfile{
	PlatformTwitter:   {MaxLength: 280, Icon: "twitter", Color: "#1DA1F2"},
	PlatformLinkedIn:  {MaxLength: 3000, Icon: "linkedin", Color: "#0A66C2"},
	PlatformFacebook:  {Icon: "facebook", Color: "#1877F2"},
	PlatformInstagram: {MaxLength: 2200, Options: []string{OptionFirstComment}, Icon: "instagram", Color: "#E4405F"},
	PlatformTikTok:    {MaxLength: 2200, Icon: "tiktok", Color: "#010101"},
	PlatformYouTube:   {Options: []string{OptionVisibility}, Icon: "youtube", Color: "#FF0000"},
	PlatformPinterest: {MaxLength: 500, Options: []string{OptionDestinationLink}, Icon: "pinterest", Color: "#BD081C"},
}

// MaxLength 返回平台的单条内容长度上限，0 表示不限制。
// 未知平台按不限制处理，保证新增平台不会影响既有流程。
func MaxLength(platform Platform) int {
	return platformProfiles[platform].MaxLength
}

// SupportsOption 判断平台是否接受指定的可选字段。
func SupportsOption(platform Platform, key string) bool {
	for _, option := range platformProfiles[platform].Options {
		if option == key {
			return true
		}
	}
	return false
}

// PlatformBadge 返回平台的图标与主题色，未知平台回退到通用样式。
func PlatformBadge(platform Platform) (icon, color string) {
	profile, ok := platformProfiles[platform]
	if !ok {
		return "globe", "#6B7280"
	}
	return profile.Icon, profile.Color
}

// KnownPlatform 判断平台标识是否在内置列表中。
func KnownPlatform(platform Platform) bool {
	_, ok := platformProfiles[platform]
	return ok
}

// KnownPlatforms 返回内置平台的固定顺序列表，供前端渲染选择器。
func KnownPlatforms() []Platform {
	return []Platform{
		PlatformTwitter,
		PlatformLinkedIn,
		PlatformFacebook,
		PlatformInstagram,
		PlatformTikTok,
		PlatformYouTube,
		PlatformPinterest,
	}
}
