package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/trova/internal/domain"
)

const intentPrompt = `Extract JSON from the user's fashion search query with these fields:
 - color (a simple color name or null)
 - category (kurti/saree/dress/shirt/belt/jeans/jacket or null)
 - max_price (number in INR or null)
 - min_price (number in INR or null)
 - gender (male/female/unisex/null)
Return EXACTLY a single JSON object only (no extra text). Use lowercase color/category, numbers for prices or null.`

const rewritePrompt = `You are a helpful assistant that rewrites short fashion search queries into concise, descriptive search phrases suitable for semantic product retrieval. Do NOT invent attributes that are not present (e.g., do not add colors or materials unless asked). Keep it short (1-2 sentences). Output only the rewritten query.`

// Intent extracts structured shopping intent and rewrites queries via an
// OpenAI-compatible chat completion API. When the remote model is unavailable
// or returns garbage, a local rule-based extractor takes over, so Extract and
// Rewrite never fail outright on provider errors.
type Intent struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// IntentConfig holds the chat completion provider settings.
type IntentConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Logger  *zap.Logger
}

// NewIntent creates a chat-completion-backed intent extractor. An empty
// APIKey disables the remote path entirely and only the rule-based
// extraction runs.
func NewIntent(cfg *IntentConfig) *Intent {
	var client *openai.Client
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		client = openai.NewClientWithConfig(clientCfg)
	}

	return &Intent{
		client: client,
		model:  cfg.Model,
		logger: cfg.Logger,
	}
}

// intentPayload mirrors the JSON object the model is instructed to return.
type intentPayload struct {
	Color    *string  `json:"color"`
	Category *string  `json:"category"`
	MaxPrice *float64 `json:"max_price"`
	MinPrice *float64 `json:"min_price"`
	Gender   *string  `json:"gender"`
}

// Extract implements search.IntentExtractor.
func (i *Intent) Extract(ctx context.Context, query string) (domain.SearchIntent, error) {
	if strings.TrimSpace(query) == "" {
		return domain.SearchIntent{}, nil
	}

	if i.client != nil {
		text, err := i.complete(ctx, intentPrompt, query, 200)
		if err != nil {
			i.logger.Warn("intent extraction call failed, using rules",
				zap.String("model", i.model),
				zap.Error(err))
		} else if intent, ok := parseIntentJSON(text); ok {
			return intent, nil
		} else {
			i.logger.Warn("intent response is not valid JSON, using rules",
				zap.String("response", text))
		}
	}

	return extractIntentRules(query), nil
}

// Rewrite implements search.QueryRewriter.
func (i *Intent) Rewrite(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return query, nil
	}

	if i.client != nil {
		text, err := i.complete(ctx, rewritePrompt, query, 256)
		if err != nil {
			i.logger.Warn("query rewrite call failed, using local rewrite",
				zap.String("model", i.model),
				zap.Error(err))
		} else if cleaned := strings.TrimSpace(strings.ReplaceAll(text, "\n", " ")); cleaned != "" {
			return cleaned, nil
		}
	}

	return rewriteLocal(query), nil
}

func (i *Intent) complete(ctx context.Context, system, query string, maxTokens int) (string, error) {
	resp, err := i.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     i.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: "User query: " + query},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

// parseIntentJSON pulls the first {...} block out of the model response.
// Models sometimes wrap the object in prose or code fences.
func parseIntentJSON(text string) (domain.SearchIntent, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return domain.SearchIntent{}, false
	}

	var payload intentPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return domain.SearchIntent{}, false
	}

	return domain.SearchIntent{
		Color:    normalizeStr(payload.Color),
		Category: normalizeStr(payload.Category),
		MinPrice: payload.MinPrice,
		MaxPrice: payload.MaxPrice,
		Gender:   normalizeStr(payload.Gender),
	}, true
}

// normalizeStr lowercases a field and drops the textual nulls models emit.
func normalizeStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	if v == "" || v == "null" || v == "none" {
		return nil
	}
	return &v
}

var (
	fallbackColors = []string{
		"black", "white", "red", "blue", "green", "yellow",
		"pink", "brown", "grey", "maroon", "beige", "orange",
	}

	fallbackCategories = []struct {
		name string
		keys []string
	}{
		{"kurti", []string{"kurti", "kurta"}},
		{"saree", []string{"saree"}},
		{"dress", []string{"dress"}},
		{"shirt", []string{"shirt", "t-shirt", "tee"}},
		{"belt", []string{"belt"}},
		{"jeans", []string{"jean", "jeans"}},
		{"jacket", []string{"jacket", "coat"}},
	}

	priceRe = regexp.MustCompile(`\b\d{2,7}\b`)
)

// extractIntentRules is the offline extractor: colour word list, category
// keywords, "under/below/between" price heuristics and a gender probe.
func extractIntentRules(query string) domain.SearchIntent {
	q := strings.ToLower(query)
	var intent domain.SearchIntent

	for _, c := range fallbackColors {
		if strings.Contains(" "+q, " "+c) {
			colour := c
			intent.Color = &colour
			break
		}
	}

	for _, cat := range fallbackCategories {
		for _, k := range cat.keys {
			if strings.Contains(q, k) {
				name := cat.name
				intent.Category = &name
				break
			}
		}
		if intent.Category != nil {
			break
		}
	}

	var nums []float64
	for _, m := range priceRe.FindAllString(strings.ReplaceAll(q, ",", ""), -1) {
		if n, err := strconv.ParseFloat(m, 64); err == nil {
			nums = append(nums, n)
		}
	}
	if len(nums) > 0 {
		switch {
		case containsAny(q, "under", "below", "less than", "upto", "up to"):
			intent.MaxPrice = &nums[len(nums)-1]
		case strings.Contains(q, "between") && len(nums) >= 2:
			intent.MinPrice = &nums[0]
			intent.MaxPrice = &nums[1]
		default:
			// A bare number reads as a budget ceiling.
			intent.MaxPrice = &nums[len(nums)-1]
		}
	}

	switch {
	case containsAny(q, "women", "female", "girl"):
		g := "female"
		intent.Gender = &g
	case containsAny(q, "men", "male", "boy"):
		g := "male"
		intent.Gender = &g
	}

	return intent
}

// rewriteLocal is the offline rewrite: very short queries get a safe gender
// qualifier, everything else passes through untouched.
func rewriteLocal(query string) string {
	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)
	if len(strings.Fields(q)) < 3 && !strings.Contains(lower, "women") && !strings.Contains(lower, "men") {
		return q + " for women"
	}
	return q
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
