package service

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// RenderSegments 将内容按平台长度上限拆分为预览片段（即“线程”）。
// 不限长的平台原样返回单个片段；受限平台按贪心策略拆分：
// 在上限处向前寻找最近的空白字符作为断点，找不到时在上限处硬切。
// 除作为断点被消耗的空白外，原始字符全部保留且顺序不变。
func RenderSegments(content string, platform Platform) []string {
	limit := MaxLength(platform)
	if limit <= 0 || utf8.RuneCountInString(content) <= limit {
		return []string{content}
	}

	runes := []rune(content)
	var segments []string
	for len(runes) > limit {
		cut := limit
		consumed := limit
		for i := limit; i > 0; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				consumed = i + 1
				break
			}
		}
		segments = append(segments, string(runes[:cut]))
		runes = runes[consumed:]
	}
	if len(runes) > 0 {
		segments = append(segments, string(runes))
	}
	return segments
}

// RenderOptionsFooter 生成平台专属的尾部附加内容，仅用于首个预览片段。
// 平台未选择对应选项或不支持该选项时返回空串。
func RenderOptionsFooter(platform Platform, options map[string]string) string {
	if len(options) == 0 {
		return ""
	}

	var parts []string
	if SupportsOption(platform, OptionFirstComment) {
		if comment := strings.TrimSpace(options[OptionFirstComment]); comment != "" {
			parts = append(parts, fmt.Sprintf("首条评论：%s", comment))
		}
	}
	if SupportsOption(platform, OptionDestinationLink) {
		if link := strings.TrimSpace(options[OptionDestinationLink]); link != "" {
			parts = append(parts, fmt.Sprintf("目标链接：%s", link))
		}
	}
	if SupportsOption(platform, OptionVisibility) {
		if visibility := strings.TrimSpace(options[OptionVisibility]); visibility != "" {
			parts = append(parts, fmt.Sprintf("可见性：%s", visibility))
		}
	}

	return strings.Join(parts, "\n")
}
