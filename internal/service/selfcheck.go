package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/fradegh/ai-sales-sub002/internal/config"
	"github.com/fradegh/ai-sales-sub002/internal/model"
)

const selfCheckUnavailableReason = "Проверка ответа недоступна, требуется подтверждение оператора"

// SelfCheckRequest carries the drafted reply plus the material it was
// drafted from
type SelfCheckRequest struct {
	CustomerText string
	Reply        string
	Sources      []model.UsedSource
}

// SelfChecker independently verifies a drafted reply. Implementations
// must always return a usable result: a failed or timed-out check comes
// back as a conservative handoff verdict, never an error.
type SelfChecker interface {
	Check(ctx context.Context, req SelfCheckRequest) model.SelfCheckResult
}

// SelfCheckService verifies replies with an LLM when configured and
// falls back to rule-based checks otherwise
type SelfCheckService struct {
	config *config.AIConfig
	client *openai.Client
}

func NewSelfCheckService(cfg *config.AIConfig) *SelfCheckService {
	var client *openai.Client
	if cfg.IsEnabled() {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		client = openai.NewClientWithConfig(clientCfg)
	}
	return &SelfCheckService{
		config: cfg,
		client: client,
	}
}

func (s *SelfCheckService) Check(ctx context.Context, req SelfCheckRequest) model.SelfCheckResult {
	if !s.config.IsEnabled() {
		return ruleCheck(req)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.config.TimeoutMS)*time.Millisecond)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.config.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: selfCheckSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildSelfCheckPrompt(req)},
		},
	})
	if err != nil {
		return model.DegradedSelfCheck(selfCheckUnavailableReason)
	}
	if len(resp.Choices) == 0 {
		return model.DegradedSelfCheck(selfCheckUnavailableReason)
	}

	var verdict struct {
		Score       float64  `json:"score"`
		NeedHandoff bool     `json:"needHandoff"`
		Reasons     []string `json:"reasons"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &verdict); err != nil {
		return model.DegradedSelfCheck(selfCheckUnavailableReason)
	}

	return model.SelfCheckResult{
		Score:       clamp01(verdict.Score),
		NeedHandoff: verdict.NeedHandoff,
		Reasons:     verdict.Reasons,
	}
}

const selfCheckSystemPrompt = `Ты проверяешь черновик ответа службы поддержки перед отправкой клиенту. Верни ТОЛЬКО валидный JSON:
{
  "score": 0.0-1.0,
  "needHandoff": true/false,
  "reasons": ["причина на русском", ...]
}
needHandoff = true, если ответ содержит факты или цены, которых нет в источниках, обещает то, чего компания не обещала, или не отвечает на вопрос клиента.`

func buildSelfCheckPrompt(req SelfCheckRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Вопрос клиента: %s\n\nЧерновик ответа: %s\n\nИсточники:\n", req.CustomerText, req.Reply)
	if len(req.Sources) == 0 {
		sb.WriteString("(источники отсутствуют)\n")
	}
	for _, src := range req.Sources {
		fmt.Fprintf(&sb, "- [%s] %s: %s\n", src.Type, src.Title, src.Quote)
	}
	return sb.String()
}

var numberPattern = regexp.MustCompile(`\d[\d\s]{2,}\d|\d{3,}`)

// ruleCheck is the deterministic fallback used when no verifier model is
// configured. It catches the two cheapest hallucination classes: empty
// replies and prices that appear nowhere in the sources.
func ruleCheck(req SelfCheckRequest) model.SelfCheckResult {
	if strings.TrimSpace(req.Reply) == "" {
		return model.SelfCheckResult{
			Score:       0,
			NeedHandoff: true,
			Reasons:     []string{"Черновик ответа пуст"},
		}
	}

	sourceText := make([]string, 0, len(req.Sources))
	for _, src := range req.Sources {
		sourceText = append(sourceText, src.Quote)
	}
	corpus := normalizeNumbersIn(strings.Join(sourceText, " "))

	for _, raw := range numberPattern.FindAllString(req.Reply, -1) {
		num := normalizeNumber(raw)
		if num == "" {
			continue
		}
		if !strings.Contains(corpus, num) {
			return model.SelfCheckResult{
				Score:       0.4,
				NeedHandoff: true,
				Reasons:     []string{"Ответ упоминает число, которого нет в источниках"},
			}
		}
	}

	return model.SelfCheckResult{Score: 0.9}
}

func normalizeNumber(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

func normalizeNumbersIn(s string) string {
	return numberPattern.ReplaceAllStringFunc(s, normalizeNumber)
}
