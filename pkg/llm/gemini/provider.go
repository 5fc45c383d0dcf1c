package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"second-brain-be/pkg/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type chatPart struct {
	Text string `json:"text"`
}

type chatContent struct {
	Parts []*chatPart `json:"parts"`
	Role  string      `json:"role,omitempty"`
}

type chatRequest struct {
	Contents          []*chatContent `json:"contents"`
	SystemInstruction *chatContent   `json:"systemInstruction,omitempty"`
}

type chatCandidate struct {
	Content *chatContent `json:"content"`
}

type chatResponse struct {
	Candidates []*chatCandidate `json:"candidates"`
}

// Gemini speaks "user"/"model"; everything that isn't the user is the model.
const (
	roleUser  = "user"
	roleModel = "model"
)

type Provider struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type ProviderOption func(*Provider)

// WithBaseURL points the provider at a different endpoint, used in tests.
func WithBaseURL(url string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = url
	}
}

func WithHTTPClient(client *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = client
	}
}

func NewProvider(apiKey, model string, opts ...ProviderOption) *Provider {
	p := &Provider{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Options{Model: p.model}
	for _, o := range options {
		o(&opts)
	}

	payload := chatRequest{}
	for _, msg := range history {
		if msg.Role == llm.RoleSystem {
			payload.SystemInstruction = &chatContent{
				Parts: []*chatPart{{Text: msg.Content}},
			}
			continue
		}
		role := roleModel
		if msg.Role == llm.RoleUser {
			role = roleUser
		}
		payload.Contents = append(payload.Contents, &chatContent{
			Parts: []*chatPart{{Text: msg.Content}},
			Role:  role,
		})
	}

	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, opts.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return "", err
	}

	req.Header.Set("x-goog-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	if res.StatusCode != http.StatusOK {
		return "", &llm.APIError{
			StatusCode: res.StatusCode,
			Message:    string(resBody),
		}
	}

	var geminiRes chatResponse
	if err := json.Unmarshal(resBody, &geminiRes); err != nil {
		return "", err
	}

	if len(geminiRes.Candidates) == 0 ||
		geminiRes.Candidates[0].Content == nil ||
		len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}
