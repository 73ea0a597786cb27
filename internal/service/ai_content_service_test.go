package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/postdeck/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupAIContentTestService(t *testing.T, doer httpDoer) *AIContentService {
	t.Helper()
	dsn := fmt.Sprintf("file:ai-content-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.SystemSetting{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	settings := NewSystemSettingService(gdb)
	if _, err := settings.UpdateSettings(SystemSettingsInput{
		AIProvider:   AIProviderOpenAI,
		OpenAIAPIKey: "sk-test",
	}); err != nil {
		t.Fatalf("seed settings: %v", err)
	}

	svc := NewAIContentService(settings)
	svc.SetHTTPClient(doer)
	return svc
}

// fakeChatDoer 返回固定的 chat-completions 响应，并记录最近一次请求。
type fakeChatDoer struct {
	content     string
	lastRequest chatCompletionRequest
	requests    int
}

func (f *fakeChatDoer) Do(req *http.Request) (*http.Response, error) {
	f.requests++

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &f.lastRequest); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": f.content}},
		},
		"usage": map[string]int{"prompt_tokens": 12, "completion_tokens": 34},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(string(raw))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}, nil
}

func TestAIContentGenerate(t *testing.T) {
	doer := &fakeChatDoer{content: "这是生成的内容 #launch"}
	svc := setupAIContentTestService(t, doer)

	result, err := svc.Generate(context.Background(), GenerateInput{
		Topic:    "新功能发布",
		Platform: PlatformTwitter,
		Tone:     "兴奋",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Content != "这是生成的内容 #launch" {
		t.Fatalf("unexpected content: %q", result.Content)
	}
	if result.PromptTokens != 12 || result.CompletionTokens != 34 {
		t.Fatalf("usage not propagated: %+v", result)
	}

	// 平台长度约束要体现在提示词里
	prompt := doer.lastRequest.Messages[1].Content
	if !strings.Contains(prompt, "新功能发布") || !strings.Contains(prompt, "280") {
		t.Fatalf("prompt missing topic or platform limit: %q", prompt)
	}
}

func TestAIContentGenerateRequiresTopic(t *testing.T) {
	doer := &fakeChatDoer{content: "ignored"}
	svc := setupAIContentTestService(t, doer)

	if _, err := svc.Generate(context.Background(), GenerateInput{Topic: "  "}); !errors.Is(err, ErrTopicRequired) {
		t.Fatalf("expected ErrTopicRequired, got %v", err)
	}
	if doer.requests != 0 {
		t.Fatalf("validation failure must not call the API")
	}
}

func TestAIContentRefine(t *testing.T) {
	doer := &fakeChatDoer{content: "润色后的内容"}
	svc := setupAIContentTestService(t, doer)

	result, err := svc.Refine(context.Background(), "原始内容", "更简洁")
	if err != nil {
		t.Fatalf("refine: %v", err)
	}
	if result.Content != "润色后的内容" {
		t.Fatalf("unexpected content: %q", result.Content)
	}

	if _, err := svc.Refine(context.Background(), " ", "更简洁"); !errors.Is(err, ErrContentRequired) {
		t.Fatalf("expected ErrContentRequired, got %v", err)
	}
	if _, err := svc.Refine(context.Background(), "内容", "  "); !errors.Is(err, ErrInstructionRequired) {
		t.Fatalf("expected ErrInstructionRequired, got %v", err)
	}
}

func TestAIContentGenerateHashtags(t *testing.T) {
	doer := &fakeChatDoer{content: "#golang\ngin\n#golang\n#webdev,"}
	svc := setupAIContentTestService(t, doer)

	hashtags, err := svc.GenerateHashtags(context.Background(), "我们刚用 Gin 重写了后端")
	if err != nil {
		t.Fatalf("generate hashtags: %v", err)
	}

	want := []string{"#golang", "#gin", "#webdev"}
	if len(hashtags) != len(want) {
		t.Fatalf("expected %v, got %v", want, hashtags)
	}
	for i, tag := range want {
		if hashtags[i] != tag {
			t.Fatalf("expected %v, got %v", want, hashtags)
		}
	}
}

func TestAIContentAnalyzeParsesJSON(t *testing.T) {
	doer := &fakeChatDoer{content: "```json\n{\"score\": 150, \"sentiment\": \"positive\", \"engagementPrediction\": \"很可能获得高互动\", \"suggestions\": [\"加一张配图\"]}\n```"}
	svc := setupAIContentTestService(t, doer)

	analysis, err := svc.Analyze(context.Background(), "发布预告内容", PlatformTwitter)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	// 分数被钳制到 0~100
	if analysis.Score != 100 {
		t.Fatalf("expected clamped score 100, got %d", analysis.Score)
	}
	if analysis.Sentiment != "positive" {
		t.Fatalf("unexpected sentiment: %q", analysis.Sentiment)
	}
	if len(analysis.Suggestions) != 1 {
		t.Fatalf("unexpected suggestions: %v", analysis.Suggestions)
	}
}

func TestAIContentAnalyzeRejectsGarbage(t *testing.T) {
	doer := &fakeChatDoer{content: "抱歉，我无法评估。"}
	svc := setupAIContentTestService(t, doer)

	if _, err := svc.Analyze(context.Background(), "内容", PlatformTwitter); err == nil {
		t.Fatalf("expected parse error for non-JSON output")
	}
}

func TestAIContentMissingAPIKey(t *testing.T) {
	dsn := fmt.Sprintf("file:ai-content-nokey-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := gdb.AutoMigrate(&db.SystemSetting{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	svc := NewAIContentService(NewSystemSettingService(gdb))
	svc.SetHTTPClient(&fakeChatDoer{content: "ignored"})

	if _, err := svc.Generate(context.Background(), GenerateInput{Topic: "主题"}); !errors.Is(err, ErrAIAPIKeyMissing) {
		t.Fatalf("expected ErrAIAPIKeyMissing, got %v", err)
	}
}
