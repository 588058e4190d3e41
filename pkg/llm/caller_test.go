package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewCaller", func() {
	It("falls back to ollama when no key is available", func() {
		cfg := CallerConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			APIKey:   "", // no key
		}
		caller, err := NewCaller(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(caller).NotTo(BeNil())
	})

	It("returns an error for unsupported provider", func() {
		cfg := CallerConfig{
			Provider: "unsupported",
			APIKey:   "key",
		}
		_, err := NewCaller(cfg)
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unsupported provider"))
	})

	It("creates a gemini caller with explicit key", func() {
		cfg := CallerConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			APIKey:   "test-key",
		}
		caller, err := NewCaller(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(caller).NotTo(BeNil())
	})

	It("creates an ollama caller explicitly", func() {
		cfg := CallerConfig{
			Provider: "ollama",
			Model:    "llama3.2",
		}
		caller, err := NewCaller(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(caller).NotTo(BeNil())
	})
})

var _ = Describe("Gemini caller", func() {
	It("calls the Gemini API with inline attachments and JSON mode", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/models/gemini-2.5-flash:generateContent"))
			Expect(r.Header.Get("x-goog-api-key")).To(Equal("test-key"))

			var req geminiRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.GenerationConfig).NotTo(BeNil())
			Expect(req.GenerationConfig.ResponseMimeType).To(Equal("application/json"))
			Expect(req.Contents).To(HaveLen(1))
			Expect(req.Contents[0].Parts).To(HaveLen(2))
			Expect(req.Contents[0].Parts[0].InlineData).NotTo(BeNil())
			Expect(req.Contents[0].Parts[0].InlineData.MimeType).To(Equal("application/pdf"))
			Expect(req.Contents[0].Parts[1].Text).To(Equal("analyze this"))

			resp := geminiResponse{}
			resp.Candidates = append(resp.Candidates, struct {
				Content struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"content"`
			}{})
			resp.Candidates[0].Content.Parts = []struct {
				Text string `json:"text"`
			}{{Text: `{"creditor":"Acme Corp"}`}}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		caller := newGeminiCaller("test-key", "gemini-2.5-flash", server.URL)
		result, err := caller(context.Background(), Prompt{
			Text: "analyze this",
			Attachments: []Attachment{
				{MimeType: "application/pdf", Data: []byte("%PDF")},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(ContainSubstring("Acme Corp"))
	})

	It("returns error on non-200 status", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"error":{"message":"invalid key"}}`))
		}))
		defer server.Close()

		caller := newGeminiCaller("bad-key", "gemini-2.5-flash", server.URL)
		_, err := caller(context.Background(), Prompt{Text: "test prompt"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("status 403"))
	})
})

var _ = Describe("OpenAI caller", func() {
	It("calls the OpenAI API and returns response content", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/v1/chat/completions"))
			Expect(r.Header.Get("Authorization")).To(Equal("Bearer test-key"))
			Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))

			var req openAIRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Model).To(Equal("gpt-4o-mini"))
			Expect(req.ResponseFormat).NotTo(BeNil())
			Expect(req.ResponseFormat.Type).To(Equal("json_object"))

			resp := openAIResponse{
				Choices: []struct {
					Message struct {
						Content string `json:"content"`
					} `json:"message"`
				}{
					{Message: struct {
						Content string `json:"content"`
					}{Content: `{"violationRisk":"High"}`}},
				},
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		caller := newOpenAICaller("test-key", "gpt-4o-mini", server.URL)
		result, err := caller(context.Background(), Prompt{Text: "test prompt"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(ContainSubstring("High"))
	})

	It("encodes image attachments as data URLs", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req openAIRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Messages[0].Content).To(HaveLen(2))
			Expect(req.Messages[0].Content[1].Type).To(Equal("image_url"))
			Expect(req.Messages[0].Content[1].ImageURL.URL).To(HavePrefix("data:image/png;base64,"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}]}`))
		}))
		defer server.Close()

		caller := newOpenAICaller("test-key", "gpt-4o-mini", server.URL)
		_, err := caller(context.Background(), Prompt{
			Text: "test prompt",
			Attachments: []Attachment{
				{MimeType: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47}},
			},
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("returns error on non-200 status", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"invalid key"}}`))
		}))
		defer server.Close()

		caller := newOpenAICaller("bad-key", "gpt-4o-mini", server.URL)
		_, err := caller(context.Background(), Prompt{Text: "test prompt"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("status 401"))
	})
})

var _ = Describe("Anthropic caller", func() {
	It("calls the Anthropic API and returns response content", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/v1/messages"))
			Expect(r.Header.Get("x-api-key")).To(Equal("test-key"))
			Expect(r.Header.Get("anthropic-version")).To(Equal("2023-06-01"))

			var req anthropicRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Messages[0].Content).To(HaveLen(2))
			Expect(req.Messages[0].Content[0].Type).To(Equal("document"))
			Expect(req.Messages[0].Content[0].Source.MediaType).To(Equal("application/pdf"))

			resp := anthropicResponse{
				Content: []struct {
					Type string `json:"type"`
					Text string `json:"text"`
				}{
					{Type: "text", Text: `{"creditor":"Beta LLC"}`},
				},
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		caller := newAnthropicCaller("test-key", "claude-haiku-4-5-20251001", server.URL)
		result, err := caller(context.Background(), Prompt{
			Text: "test prompt",
			Attachments: []Attachment{
				{MimeType: "application/pdf", Data: []byte("%PDF")},
			},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(ContainSubstring("Beta LLC"))
	})
})

var _ = Describe("Ollama caller", func() {
	It("calls the Ollama API and returns response content", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			Expect(r.URL.Path).To(Equal("/api/chat"))

			var req ollamaChatRequest
			err := json.NewDecoder(r.Body).Decode(&req)
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Stream).To(BeFalse())
			Expect(req.Format).To(Equal("json"))

			resp := ollamaChatResponse{Done: true}
			resp.Message.Content = `{"violationRisk":"None"}`
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(resp)
		}))
		defer server.Close()

		caller := newOllamaCaller("llama3.2", server.URL)
		result, err := caller(context.Background(), Prompt{Text: "test prompt"})
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(ContainSubstring("None"))
	})
})
