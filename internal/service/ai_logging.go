package service

import (
	"log"
	"strings"
	"unicode/utf8"
)

// 日志里只保留片段，长文案按 rune 截断，避免生成结果刷屏。
const aiLogSnippetLimit = 600

// logAIExchange 记录一次 AI 调用的提示词或返回内容，便于核对模型行为。
func logAIExchange(op, stage, text string) {
	body := strings.TrimSpace(text)
	if body == "" {
		log.Printf("[ai:%s] %s: <empty>", op, stage)
		return
	}

	total := utf8.RuneCountInString(body)
	if total > aiLogSnippetLimit {
		body = string([]rune(body)[:aiLogSnippetLimit]) + "…（已截断）"
	}
	log.Printf("[ai:%s] %s runes=%d: %s", op, stage, total, body)
}
