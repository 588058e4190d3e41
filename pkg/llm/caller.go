// Package llm provides provider-agnostic callers for JSON-mode LLM calls.
//
// A caller takes a prompt (text plus optional binary attachments) and
// returns the model's raw text output. Providers that support a native
// JSON response mode have it enabled; the rest are instructed in-prompt.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
)

const callTimeout = 30 * time.Second

// Attachment is a binary document or image sent alongside the prompt text.
type Attachment struct {
	MimeType string
	Data     []byte
}

// Prompt is the input to a single LLM call.
type Prompt struct {
	Text        string
	Attachments []Attachment
}

// CallFunc performs one LLM call and returns the raw text response.
type CallFunc func(ctx context.Context, prompt Prompt) (string, error)

// CallerConfig holds configuration for creating an LLM caller.
type CallerConfig struct {
	Provider string // "gemini", "openai", "anthropic", or "ollama"
	Model    string // e.g. "gemini-2.5-flash", "gpt-4o-mini"
	APIKey   string // explicit API key (highest priority)
	BaseURL  string // override base URL
}

// NewCaller creates a CallFunc based on the provided configuration.
// Resolution order for API key:
//  1. Explicit APIKey in config
//  2. Environment variable for the provider (GEMINI_API_KEY etc.)
//  3. Fall back to Ollama at localhost:11434
func NewCaller(cfg CallerConfig) (CallFunc, error) {
	provider := strings.ToLower(cfg.Provider)
	model := cfg.Model

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = resolveAPIKeyFromEnv(provider)
	}

	if apiKey == "" && provider != ProviderOllama {
		provider = ProviderOllama
	}

	switch provider {
	case ProviderGemini, "":
		if model == "" {
			model = "gemini-2.5-flash"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://generativelanguage.googleapis.com/v1beta"
		}
		return newGeminiCaller(apiKey, model, baseURL), nil

	case ProviderOpenAI:
		if model == "" {
			model = "gpt-4o-mini"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.openai.com"
		}
		return newOpenAICaller(apiKey, model, baseURL), nil

	case ProviderAnthropic:
		if model == "" {
			model = "claude-haiku-4-5-20251001"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://api.anthropic.com"
		}
		return newAnthropicCaller(apiKey, model, baseURL), nil

	case ProviderOllama:
		if model == "" {
			model = "llama3.2"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return newOllamaCaller(model, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

func resolveAPIKeyFromEnv(provider string) string {
	switch provider {
	case ProviderGemini, "":
		return os.Getenv("GEMINI_API_KEY")
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

// --- Gemini caller ---

type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig *geminiGenConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type geminiGenConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newGeminiCaller(apiKey, model, baseURL string) CallFunc {
	return func(ctx context.Context, prompt Prompt) (string, error) {
		parts := make([]geminiPart, 0, len(prompt.Attachments)+1)
		for _, att := range prompt.Attachments {
			parts = append(parts, geminiPart{
				InlineData: &geminiInlineData{
					MimeType: att.MimeType,
					Data:     base64.StdEncoding.EncodeToString(att.Data),
				},
			})
		}
		parts = append(parts, geminiPart{Text: prompt.Text})

		reqBody := geminiRequest{
			Contents:         []geminiContent{{Parts: parts}},
			GenerationConfig: &geminiGenConfig{ResponseMimeType: "application/json"},
		}

		data, err := json.Marshal(reqBody)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		url := fmt.Sprintf("%s/models/%s:generateContent", baseURL, model)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", apiKey)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("gemini request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("gemini API error (status %d): %s", resp.StatusCode, string(body))
		}

		var result geminiResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("unmarshal response: %w", err)
		}

		if result.Error != nil {
			return "", fmt.Errorf("gemini error: %s", result.Error.Message)
		}

		if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
			return "", errors.New("gemini returned no candidates")
		}

		return result.Candidates[0].Content.Parts[0].Text, nil
	}
}

// --- OpenAI caller ---

type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []openAIMessage   `json:"messages"`
	ResponseFormat *openAIRespFormat `json:"response_format,omitempty"`
}

type openAIMessage struct {
	Role    string          `json:"role"`
	Content []openAIContent `json:"content"`
}

type openAIContent struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL string `json:"url"`
}

type openAIRespFormat struct {
	Type string `json:"type"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newOpenAICaller(apiKey, model, baseURL string) CallFunc {
	return func(ctx context.Context, prompt Prompt) (string, error) {
		content := []openAIContent{{Type: "text", Text: prompt.Text}}
		for _, att := range prompt.Attachments {
			if !strings.HasPrefix(att.MimeType, "image/") {
				continue
			}
			dataURL := fmt.Sprintf("data:%s;base64,%s", att.MimeType, base64.StdEncoding.EncodeToString(att.Data))
			content = append(content, openAIContent{
				Type:     "image_url",
				ImageURL: &openAIImageURL{URL: dataURL},
			})
		}

		reqBody := openAIRequest{
			Model: model,
			Messages: []openAIMessage{
				{Role: "user", Content: content},
			},
			ResponseFormat: &openAIRespFormat{Type: "json_object"},
		}

		data, err := json.Marshal(reqBody)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+apiKey)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("openai request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(body))
		}

		var result openAIResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("unmarshal response: %w", err)
		}

		if result.Error != nil {
			return "", fmt.Errorf("openai error: %s", result.Error.Message)
		}

		if len(result.Choices) == 0 {
			return "", errors.New("openai returned no choices")
		}

		return result.Choices[0].Message.Content, nil
	}
}

// --- Anthropic caller ---

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
}

type anthropicContent struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Source *anthropicSource `json:"source,omitempty"`
}

type anthropicSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func newAnthropicCaller(apiKey, model, baseURL string) CallFunc {
	return func(ctx context.Context, prompt Prompt) (string, error) {
		content := make([]anthropicContent, 0, len(prompt.Attachments)+1)
		for _, att := range prompt.Attachments {
			blockType := "image"
			if att.MimeType == "application/pdf" {
				blockType = "document"
			}
			content = append(content, anthropicContent{
				Type: blockType,
				Source: &anthropicSource{
					Type:      "base64",
					MediaType: att.MimeType,
					Data:      base64.StdEncoding.EncodeToString(att.Data),
				},
			})
		}
		content = append(content, anthropicContent{
			Type: "text",
			Text: prompt.Text + "\n\nReturn ONLY valid JSON, no markdown or extra text.",
		})

		reqBody := anthropicRequest{
			Model:     model,
			MaxTokens: 4096,
			Messages: []anthropicMessage{
				{Role: "user", Content: content},
			},
		}

		data, err := json.Marshal(reqBody)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/messages", bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", apiKey)
		req.Header.Set("anthropic-version", "2023-06-01")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("anthropic request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, string(body))
		}

		var result anthropicResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("unmarshal response: %w", err)
		}

		if result.Error != nil {
			return "", fmt.Errorf("anthropic error: %s", result.Error.Message)
		}

		if len(result.Content) == 0 {
			return "", errors.New("anthropic returned no content")
		}

		return result.Content[0].Text, nil
	}
}

// --- Ollama caller ---

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Format   string              `json:"format"`
}

type ollamaChatMessage struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"` // base64
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

func newOllamaCaller(model, baseURL string) CallFunc {
	return func(ctx context.Context, prompt Prompt) (string, error) {
		msg := ollamaChatMessage{Role: "user", Content: prompt.Text}
		for _, att := range prompt.Attachments {
			if !strings.HasPrefix(att.MimeType, "image/") {
				continue
			}
			msg.Images = append(msg.Images, base64.StdEncoding.EncodeToString(att.Data))
		}

		reqBody := ollamaChatRequest{
			Model:    model,
			Messages: []ollamaChatMessage{msg},
			Stream:   false,
			Format:   "json",
		}

		data, err := json.Marshal(reqBody)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}

		ctx, cancel := context.WithTimeout(ctx, callTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/chat", bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("ollama request: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
		}

		var result ollamaChatResponse
		if err := json.Unmarshal(body, &result); err != nil {
			return "", fmt.Errorf("unmarshal response: %w", err)
		}

		return result.Message.Content, nil
	}
}
