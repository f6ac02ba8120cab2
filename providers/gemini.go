package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"paintly_backend/core"
)

// Gemini generates images through the Gemini API. Source images travel
// inline as blobs; the generated image comes back inline and is surfaced as
// a data URI.
type Gemini struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

var _ Provider = (*Gemini)(nil)

// NewGemini creates the Gemini adapter.
func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, core.NewError(core.ErrorKindAuth, "gemini: API key is not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{client: client, model: model, log: log}, nil
}

func (g *Gemini) ID() ID              { return IDGemini }
func (g *Gemini) DisplayName() string { return defaultMetadata[IDGemini].DisplayName }
func (g *Gemini) Model() string       { return g.model }

// Generate sends the prompt and source images in a single multimodal
// request and extracts the first image part of the response.
func (g *Gemini) Generate(ctx context.Context, req Request) (*Result, error) {
	parts := []*genai.Part{
		{Text: req.Prompt},
		{InlineData: &genai.Blob{MIMEType: req.MainImage.MIME, Data: req.MainImage.Data}},
	}
	if req.SideImage != nil {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: req.SideImage.MIME, Data: req.SideImage.Data},
		})
	}

	g.log.Info("dispatching generation request",
		zap.String("provider", string(IDGemini)),
		zap.String("model", g.model),
		zap.Int("parts", len(parts)))

	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Role: genai.RoleUser, Parts: parts}}, nil)
	if err != nil {
		return nil, classifyGeminiError(err)
	}

	raw, marshalErr := json.Marshal(resp)
	if marshalErr != nil {
		raw = nil
	}
	result := &Result{Model: g.model, Raw: raw}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				result.ImageURL = fmt.Sprintf("data:%s;base64,%s",
					part.InlineData.MIMEType,
					base64.StdEncoding.EncodeToString(part.InlineData.Data))
				return result, nil
			}
		}
	}

	// Ambiguous empty success: the call went through but no image came back.
	return result, core.NewError(core.ErrorKindProcessing, "gemini: response contained no image data")
}

// HealthCheck verifies the configured model is reachable and visible to the
// configured API key.
func (g *Gemini) HealthCheck(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return classifyGeminiError(err)
	}
	return nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 401, 403:
			return core.WrapError(core.ErrorKindAuth, "gemini: authentication failed", err)
		case 400:
			return core.WrapError(core.ErrorKindValidation, "gemini: request rejected", err)
		default:
			return core.WrapError(core.ErrorKindAPI, "gemini: API call failed", err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return core.WrapError(core.ErrorKindNetwork, "gemini: request aborted", err)
	}
	return core.WrapError(core.ErrorKindNetwork, "gemini: request failed", err)
}
