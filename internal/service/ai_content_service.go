package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	defaultOpenAIContentModel   = "gpt-4o-mini"
	defaultDeepSeekContentModel = "deepseek-chat"
	defaultGenerateMaxTokens    = 1024
	defaultGenerateTemperature  = 0.7
	defaultAnalyzeMaxTokens     = 512
	defaultAnalyzeTemperature   = 0.2
	maxContentInputRuneCount    = 8000
)

var (
	// ErrAIContentEmpty 表示模型未返回可用内容。
	ErrAIContentEmpty = errors.New("ai returned empty content")
	// ErrTopicRequired 在生成请求缺少主题时返回
	ErrTopicRequired = errors.New("topic is required")
	// ErrInstructionRequired 在润色请求缺少修改说明时返回
	ErrInstructionRequired = errors.New("instruction is required")
)

// GenerateInput 描述一次内容生成请求。
type GenerateInput struct {
	Topic    string
	Platform Platform
	Tone     string
	Kind     string // post, caption, thread
}

// GenerateResult 返回生成的正文及用量信息。
type GenerateResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
}

// AnalysisResult 汇总模型对内容的评估结论。
type AnalysisResult struct {
	Score                int      `json:"score"`
	Sentiment            string   `json:"sentiment"`
	EngagementPrediction string   `json:"engagementPrediction"`
	Suggestions          []string `json:"suggestions"`
}

// ContentGenerator 定义按主题生成内容的能力，便于在业务层注入不同实现。
type ContentGenerator interface {
	Generate(ctx context.Context, input GenerateInput) (GenerateResult, error)
}

// ContentRefiner 定义按指令润色既有内容的能力。
type ContentRefiner interface {
	Refine(ctx context.Context, content, instruction string) (GenerateResult, error)
}

// HashtagSuggester 定义话题标签推荐能力。
type HashtagSuggester interface {
	GenerateHashtags(ctx context.Context, content string) ([]string, error)
}

// ContentAnalyzer 定义内容质量评估能力。
type ContentAnalyzer interface {
	Analyze(ctx context.Context, content string, platform Platform) (AnalysisResult, error)
}

// AIContentService 基于大模型接口为编辑器提供生成、润色、标签与评估能力。
type AIContentService struct {
	client *aiChatClient
}

// NewAIContentService 构造默认的 AIContentService。
func NewAIContentService(settings *SystemSettingService) *AIContentService {
	return &AIContentService{
		client: newAIChatClient(settings, defaultOpenAIContentModel, defaultDeepSeekContentModel),
	}
}

// SetHTTPClient 覆盖默认 HTTP 客户端，主要用于测试。
func (s *AIContentService) SetHTTPClient(client httpDoer) {
	s.client.SetHTTPClient(client)
}

// SetOpenAIBaseURL 覆盖默认的 OpenAI API 地址。
func (s *AIContentService) SetOpenAIBaseURL(base string) {
	s.client.SetOpenAIBaseURL(base)
}

// SetDeepSeekBaseURL 覆盖默认的 DeepSeek API 地址。
func (s *AIContentService) SetDeepSeekBaseURL(base string) {
	s.client.SetDeepSeekBaseURL(base)
}

// SetOpenAIModel 指定 OpenAI 所使用的模型名称。
func (s *AIContentService) SetOpenAIModel(model string) {
	s.client.SetOpenAIModel(model)
}

// SetDeepSeekModel 指定 DeepSeek 所使用的模型名称。
func (s *AIContentService) SetDeepSeekModel(model string) {
	s.client.SetDeepSeekModel(model)
}

// Generate 按主题、平台与语气生成一条社交内容。
func (s *AIContentService) Generate(ctx context.Context, input GenerateInput) (GenerateResult, error) {
	topic := strings.TrimSpace(input.Topic)
	if topic == "" {
		return GenerateResult{}, ErrTopicRequired
	}

	kind := strings.TrimSpace(input.Kind)
	if kind == "" {
		kind = "post"
	}
	tone := strings.TrimSpace(input.Tone)
	if tone == "" {
		tone = "专业且友好"
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("主题：%s\n", topic))
	builder.WriteString(fmt.Sprintf("内容类型：%s\n", kind))
	builder.WriteString(fmt.Sprintf("语气：%s\n", tone))
	if input.Platform != "" {
		builder.WriteString(fmt.Sprintf("目标平台：%s\n", input.Platform))
		if limit := MaxLength(input.Platform); limit > 0 {
			builder.WriteString(fmt.Sprintf("长度要求：尽量控制在 %d 字符以内\n", limit))
		}
	}

	userPrompt := builder.String()
	logAIExchange("GENERATE", "prompt", userPrompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: "你是一名资深社交媒体运营，请根据给定的主题、平台与语气撰写一条可直接发布的内容。只输出正文，不要附加解释。",
		UserPrompt:   userPrompt,
		MaxTokens:    defaultGenerateMaxTokens,
		Temperature:  defaultGenerateTemperature,
	})
	if err != nil {
		return GenerateResult{}, err
	}

	content := strings.TrimSpace(result.Content)
	logAIExchange("GENERATE", "response", content)
	if content == "" {
		return GenerateResult{}, ErrAIContentEmpty
	}

	return GenerateResult{
		Content:          content,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}, nil
}

// Refine 按给定指令润色既有内容，保持原有事实与链接不变。
func (s *AIContentService) Refine(ctx context.Context, content, instruction string) (GenerateResult, error) {
	trimmedContent := strings.TrimSpace(content)
	if trimmedContent == "" {
		return GenerateResult{}, ErrContentRequired
	}
	trimmedInstruction := strings.TrimSpace(instruction)
	if trimmedInstruction == "" {
		return GenerateResult{}, ErrInstructionRequired
	}

	snippet := truncateRunes(trimmedContent, maxContentInputRuneCount)
	userPrompt := fmt.Sprintf("修改要求：%s\n\n原文：\n%s", trimmedInstruction, snippet)
	logAIExchange("REFINE", "prompt", userPrompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: "你是一名资深社交媒体编辑，请按照修改要求重写给定内容。保留原有事实、链接与话题标签，只输出改写后的正文。",
		UserPrompt:   userPrompt,
		MaxTokens:    defaultGenerateMaxTokens,
		Temperature:  0.4,
	})
	if err != nil {
		return GenerateResult{}, err
	}

	refined := strings.TrimSpace(result.Content)
	logAIExchange("REFINE", "response", refined)
	if refined == "" {
		return GenerateResult{}, ErrAIContentEmpty
	}

	return GenerateResult{
		Content:          refined,
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}, nil
}

// GenerateHashtags 为内容推荐话题标签，每个标签带 # 前缀。
func (s *AIContentService) GenerateHashtags(ctx context.Context, content string) ([]string, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, ErrContentRequired
	}

	snippet := truncateRunes(trimmed, maxContentInputRuneCount)
	userPrompt := fmt.Sprintf("正文：\n%s", snippet)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: "你是一名社交媒体运营，请为给定内容推荐 5 到 8 个话题标签。每行输出一个标签，以 # 开头，不要附加其他文字。",
		UserPrompt:   userPrompt,
		MaxTokens:    256,
		Temperature:  0.5,
	})
	if err != nil {
		return nil, err
	}

	hashtags := parseHashtags(result.Content)
	if len(hashtags) == 0 {
		return nil, ErrAIContentEmpty
	}
	return hashtags, nil
}

// Analyze 评估内容质量，返回评分、情感倾向、互动预期与改进建议。
func (s *AIContentService) Analyze(ctx context.Context, content string, platform Platform) (AnalysisResult, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return AnalysisResult{}, ErrContentRequired
	}

	snippet := truncateRunes(trimmed, maxContentInputRuneCount)
	var builder strings.Builder
	if platform != "" {
		builder.WriteString(fmt.Sprintf("目标平台：%s\n", platform))
	}
	builder.WriteString("正文：\n")
	builder.WriteString(snippet)
	userPrompt := builder.String()
	logAIExchange("ANALYZE", "prompt", userPrompt)

	result, err := s.client.call(ctx, aiChatRequest{
		SystemPrompt: "你是一名社交媒体数据分析师，请评估给定内容并输出 JSON，字段为：score（0-100 整数）、sentiment（positive/neutral/negative）、engagementPrediction（一句话预测）、suggestions（字符串数组，最多 3 条改进建议）。只输出 JSON。",
		UserPrompt:   userPrompt,
		MaxTokens:    defaultAnalyzeMaxTokens,
		Temperature:  defaultAnalyzeTemperature,
	})
	if err != nil {
		return AnalysisResult{}, err
	}

	logAIExchange("ANALYZE", "response", result.Content)

	var analysis AnalysisResult
	if err := json.Unmarshal([]byte(extractJSONObject(result.Content)), &analysis); err != nil {
		return AnalysisResult{}, fmt.Errorf("解析评估结果失败: %w", err)
	}
	if analysis.Score < 0 {
		analysis.Score = 0
	}
	if analysis.Score > 100 {
		analysis.Score = 100
	}
	return analysis, nil
}

// parseHashtags 从模型输出中提取标签，去重并补齐 # 前缀。
func parseHashtags(raw string) []string {
	seen := make(map[string]bool)
	var hashtags []string
	for _, field := range strings.Fields(raw) {
		tag := strings.TrimSpace(field)
		tag = strings.Trim(tag, ",.;，。；")
		if tag == "" || tag == "#" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		if seen[tag] {
			continue
		}
		seen[tag] = true
		hashtags = append(hashtags, tag)
	}
	return hashtags
}

// extractJSONObject 截取首个花括号包围的片段，容忍模型输出的围栏代码块。
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

func truncateRunes(input string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(input)
	if len(runes) <= limit {
		return input
	}
	return string(runes[:limit])
}
