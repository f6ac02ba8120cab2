package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"paintly_backend/core"
)

// FalAI generates images through the synchronous fal.run endpoint. Source
// images are embedded as data URIs, which the endpoint accepts in place of
// hosted URLs, so no separate upload round-trip is needed.
type FalAI struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	log     *zap.Logger
}

var _ Provider = (*FalAI)(nil)

// FalConfig configures the Fal.ai adapter.
type FalConfig struct {
	APIKey   string
	Endpoint string // base URL, normally https://fal.run
	Model    string // e.g. fal-ai/bytedance/seedream/v4/edit
	Timeout  time.Duration
}

// NewFalAI creates the Fal.ai adapter.
func NewFalAI(cfg FalConfig, log *zap.Logger) (*FalAI, error) {
	if cfg.APIKey == "" {
		return nil, core.NewError(core.ErrorKindAuth, "fal-ai: API key is not configured")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &FalAI{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.Endpoint, "/"),
		model:   cfg.Model,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

func (f *FalAI) ID() ID              { return IDFalAI }
func (f *FalAI) DisplayName() string { return defaultMetadata[IDFalAI].DisplayName }
func (f *FalAI) Model() string       { return f.model }

type falInput struct {
	Prompt              string   `json:"prompt"`
	ImageURLs           []string `json:"image_urls"`
	NumImages           int      `json:"num_images"`
	ImageSize           string   `json:"image_size"`
	EnableSafetyChecker bool     `json:"enable_safety_checker"`
}

type falOutput struct {
	Images []struct {
		URL         string `json:"url"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		ContentType string `json:"content_type"`
	} `json:"images"`
	Detail any `json:"detail"`
}

func dataURI(img Image) string {
	return fmt.Sprintf("data:%s;base64,%s", img.MIME, base64.StdEncoding.EncodeToString(img.Data))
}

// Generate posts a synchronous edit request and returns the hosted URL of
// the first generated image.
func (f *FalAI) Generate(ctx context.Context, req Request) (*Result, error) {
	urls := []string{dataURI(req.MainImage)}
	if req.SideImage != nil {
		urls = append(urls, dataURI(*req.SideImage))
	}
	input := falInput{
		Prompt:              req.Prompt,
		ImageURLs:           urls,
		NumImages:           1,
		ImageSize:           "auto_2K",
		EnableSafetyChecker: true,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, core.WrapError(core.ErrorKindProcessing, "fal-ai: encode request", err)
	}

	f.log.Info("dispatching generation request",
		zap.String("provider", string(IDFalAI)),
		zap.String("model", f.model),
		zap.Int("images", len(urls)))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		f.baseURL+"/"+f.model, bytes.NewReader(body))
	if err != nil {
		return nil, core.WrapError(core.ErrorKindProcessing, "fal-ai: build request", err)
	}
	httpReq.Header.Set("Authorization", "Key "+f.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, core.WrapError(core.ErrorKindNetwork, "fal-ai: request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, core.WrapError(core.ErrorKindNetwork, "fal-ai: read response", err)
	}
	result := &Result{Model: f.model, Raw: raw}

	if resp.StatusCode != http.StatusOK {
		return result, classifyFalStatus(resp.StatusCode, raw)
	}

	var out falOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return result, core.WrapError(core.ErrorKindProcessing, "fal-ai: decode response", err)
	}
	if len(out.Images) == 0 || out.Images[0].URL == "" {
		// Ambiguous empty success: HTTP 200 with no image.
		return result, core.NewError(core.ErrorKindProcessing, "fal-ai: response contained no image data")
	}
	result.ImageURL = out.Images[0].URL
	return result, nil
}

// HealthCheck verifies the endpoint answers at all. Any HTTP response
// counts as reachable; only transport-level failures are unhealthy.
func (f *FalAI) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, f.baseURL+"/", nil)
	if err != nil {
		return core.WrapError(core.ErrorKindProcessing, "fal-ai: build health request", err)
	}
	req.Header.Set("Authorization", "Key "+f.apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrorKindNetwork, "fal-ai: endpoint unreachable", err)
	}
	resp.Body.Close()
	return nil
}

func classifyFalStatus(status int, raw []byte) error {
	summary := string(raw)
	if len(summary) > 200 {
		summary = summary[:200]
	}
	err := errors.New(summary)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return core.WrapError(core.ErrorKindAuth,
			fmt.Sprintf("fal-ai: authentication failed (HTTP %d)", status), err)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return core.WrapError(core.ErrorKindValidation,
			fmt.Sprintf("fal-ai: request rejected (HTTP %d)", status), err)
	default:
		return core.WrapError(core.ErrorKindAPI,
			fmt.Sprintf("fal-ai: API call failed (HTTP %d)", status), err)
	}
}
