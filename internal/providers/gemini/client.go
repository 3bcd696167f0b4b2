// Package gemini adapts the Google Gen AI SDK to modelcall.Generator.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"rideinsight/internal/infra"
	"rideinsight/internal/modelcall"
)

const (
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 90 * time.Second
)

// ErrMissingAPIKey is returned by NewClient when no key is configured.
var ErrMissingAPIKey = errors.New("gemini api key is required")

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Generation infra.GenerationConfig
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client issues one generateContent request per Generate call. Retries belong
// to modelcall.
type Client struct {
	sdk    *genai.Client
	model  string
	config *genai.GenerateContentConfig
	logger *infra.Logger
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultModel
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimRight(opts.BaseURL, "/"); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base + "/"}
	}
	sdk, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{
		sdk:    sdk,
		model:  model,
		config: generateConfig(opts.Generation),
		logger: infra.LoggerOrDiscard(opts.Logger),
	}, nil
}

// generateConfig fixes the sampling parameters and blocks medium-or-higher
// harm in every category.
func generateConfig(g infra.GenerationConfig) *genai.GenerateContentConfig {
	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	safety := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		safety = append(safety, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(g.Temperature),
		TopK:            genai.Ptr(g.TopK),
		TopP:            genai.Ptr(g.TopP),
		MaxOutputTokens: g.MaxOutputTokens,
		SafetySettings:  safety,
	}
}

// Model reports the model name requests are sent to.
func (c *Client) Model() string { return c.model }

// Generate returns the concatenated text of the first candidate. A blank
// completion is returned as "" with a nil error so the caller decides.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.sdk.Models.GenerateContent(ctx, c.model, []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}, c.config)
	if err != nil {
		return "", normalizeError(err)
	}
	c.logger.Debug().Str("model", c.model).Dur("elapsed", time.Since(start)).Msg("gemini generate content")

	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", &modelcall.ProviderError{Code: "SAFETY", Message: fmt.Sprintf("prompt blocked: %s %s", fb.BlockReason, fb.BlockReasonMessage)}
	}
	if len(resp.Candidates) == 0 {
		return "", nil
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return "", &modelcall.ProviderError{Code: "SAFETY", Message: "candidate blocked by safety filters"}
	}
	return candidateText(cand), nil
}

func candidateText(cand *genai.Candidate) string {
	if cand == nil || cand.Content == nil {
		return ""
	}
	sb := &strings.Builder{}
	for _, part := range cand.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// normalizeError turns SDK API errors into modelcall.ProviderError and leaves
// transport errors untouched.
func normalizeError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &modelcall.ProviderError{Status: apiErr.Code, Code: apiErr.Status, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return &modelcall.ProviderError{Status: apiErrPtr.Code, Code: apiErrPtr.Status, Message: apiErrPtr.Message}
	}
	return err
}

// Unavailable stands in for the client when no API key is configured. Every
// call fails with a configuration error so the service still starts and the
// caller receives the configuration message.
type Unavailable struct{}

func (Unavailable) Generate(context.Context, string) (string, error) {
	return "", &modelcall.ProviderError{Code: "API_KEY_MISSING", Message: "gemini api key is not configured"}
}
