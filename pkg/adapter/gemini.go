package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// DefaultGenerativeModel is the model used when none is configured
const DefaultGenerativeModel = "gemini-2.0-flash"

type Gemini interface {
	GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// TransportError is a failed call to the remote model: a network failure,
// a non-2xx status, or a response without any candidate text.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote model request failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote model request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type GeminiClient struct {
	client          *genai.Client
	generativeModel string
}

type GeminiOption func(*geminiConfig)

type geminiConfig struct {
	model   string
	baseURL string
}

func WithGenerativeModel(model string) GeminiOption {
	return func(g *geminiConfig) {
		g.model = model
	}
}

// WithBaseURL overrides the API endpoint
func WithBaseURL(url string) GeminiOption {
	return func(g *geminiConfig) {
		g.baseURL = url
	}
}

// NewGemini creates a client for the Gemini API authenticated by API key
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	return newGemini(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, opts...)
}

// NewVertexGemini creates a client for Gemini on Vertex AI
func NewVertexGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	return newGemini(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	}, opts...)
}

func newGemini(ctx context.Context, cc *genai.ClientConfig, opts ...GeminiOption) (*GeminiClient, error) {
	cfg := &geminiConfig{model: DefaultGenerativeModel}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	return &GeminiClient{
		client:          client,
		generativeModel: cfg.model,
	}, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.generativeModel, contents, config)
	if err != nil {
		return nil, NewTransportError(err)
	}
	return resp, nil
}

// NewTransportError wraps a failed model call, keeping the HTTP status when
// the API reported one.
func NewTransportError(err error) *TransportError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &TransportError{
			StatusCode: apiErr.Code,
			Err:        goerr.Wrap(err, "gemini API error", goerr.V("status", apiErr.Status)),
		}
	}
	return &TransportError{Err: goerr.Wrap(err, "failed to generate content")}
}

// FirstText returns the text of the first part of the first candidate
func FirstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil ||
		len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &TransportError{Err: goerr.New("invalid response structure from gemini")}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
