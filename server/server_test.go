package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"paintly_backend/core"
	"paintly_backend/db"
	"paintly_backend/errlog"
	"paintly_backend/generation"
	"paintly_backend/offline"
	"paintly_backend/providers"
	"paintly_backend/retry"
)

const testAdminPassword = "correct-horse"

// stubProvider satisfies providers.Provider with canned responses.
type stubProvider struct {
	id       providers.ID
	genErr   error
	imageURL string
}

func (p *stubProvider) ID() providers.ID    { return p.id }
func (p *stubProvider) DisplayName() string { return "Stub " + string(p.id) }
func (p *stubProvider) Model() string       { return "stub-model" }

func (p *stubProvider) Generate(ctx context.Context, req providers.Request) (*providers.Result, error) {
	if p.genErr != nil {
		return nil, p.genErr
	}
	return &providers.Result{
		ImageURL: p.imageURL,
		Model:    p.Model(),
		Raw:      []byte(`{"stub":true}`),
	}, nil
}

func (p *stubProvider) HealthCheck(ctx context.Context) error { return nil }

type testEnv struct {
	srv     *Server
	manager *providers.Manager
	errors  *errlog.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zap.NewNop()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	cfg := &core.Config{
		DefaultProvider:   string(providers.IDFalAI),
		MaxUploadBytes:    core.DefaultMaxUploadBytes,
		RatePerMinute:     0, // disabled unless a test overrides
		AdminPasswordHash: string(hash),
		AITimeout:         5 * time.Second,
	}

	database, err := db.New(db.DatabaseConfig{
		Path:           filepath.Join(t.TempDir(), "paintly.db"),
		MigrationsPath: "file://../db/migrations",
	})
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	errors := errlog.New(100, log)
	retryMgr := retry.New(retry.Config{
		MaxRetries: 1,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}, errors, log)
	net := offline.New(offline.Config{Interval: 0}, errors, log)

	meta := map[providers.ID]providers.Config{
		providers.IDFalAI:  {ID: providers.IDFalAI, DisplayName: "Fal AI", Enabled: true},
		providers.IDGemini: {ID: providers.IDGemini, DisplayName: "Gemini", Enabled: true},
	}
	manager := providers.NewManager(providers.IDFalAI, meta, providers.DefaultManagerConfig(), log)
	manager.Register(&stubProvider{id: providers.IDFalAI, imageURL: "https://img.example/out.png"})
	manager.Register(&stubProvider{id: providers.IDGemini, imageURL: "data:image/png;base64,AAAA"})

	orch := generation.NewOrchestrator(database.Repository(), manager, retryMgr, errors, net,
		generation.DefaultQuotaConfig(), log)

	return &testEnv{
		srv:     New(cfg, orch, manager, errors, net, log),
		manager: manager,
		errors:  errors,
	}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func generateForm(t *testing.T, fields map[string]string, withMain bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if withMain {
		part, err := mw.CreateFormFile("mainImage", "house.png")
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write(pngBytes(t)); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func defaultFields() map[string]string {
	return map[string]string{
		"customerId": "cust-1",
		"wallColor":  "Red",
		"roofColor":  "no change",
		"doorColor":  "no change",
		"weather":    "sunny",
	}
}

func TestGetProviders(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/ai-providers", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get("Cache-Control"); got != providersCacheControl {
		t.Errorf("Cache-Control = %q", got)
	}

	var resp providersResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("success = false")
	}
	if resp.CurrentProvider != providers.IDFalAI {
		t.Errorf("currentProvider = %q", resp.CurrentProvider)
	}
	if len(resp.Providers) != 2 {
		t.Fatalf("providers = %d, want 2", len(resp.Providers))
	}
	if resp.CurrentConfig == nil || resp.CurrentConfig.ID != providers.IDFalAI {
		t.Errorf("currentConfig = %+v", resp.CurrentConfig)
	}
	if resp.TotalProviders != 2 || resp.EnabledProviders != 2 {
		t.Errorf("totals = %d/%d, want 2/2", resp.EnabledProviders, resp.TotalProviders)
	}
	if len(resp.HealthStatus) != 2 {
		t.Fatalf("healthStatus = %d entries, want 2", len(resp.HealthStatus))
	}
	for id, status := range resp.HealthStatus {
		if !status.Healthy {
			t.Errorf("provider %s reported unhealthy: %+v", id, status)
		}
	}
	if resp.Timestamp == "" {
		t.Error("missing timestamp")
	}
}

func TestSetProviderRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	body := strings.NewReader(`{"provider":"gemini"}`)
	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/ai-providers", body))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if env.manager.Current() != providers.IDFalAI {
		t.Error("current provider changed without auth")
	}
}

func adminRequest(method, target string, body *strings.Reader) *http.Request {
	if body == nil {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+testAdminPassword)
	return req
}

func TestSetProvider(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(adminRequest(http.MethodPost, "/api/ai-providers",
		strings.NewReader(`{"provider":"gemini"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if env.manager.Current() != providers.IDGemini {
		t.Errorf("current = %q, want gemini", env.manager.Current())
	}

	var resp setProviderResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.PreviousProvider != providers.IDFalAI {
		t.Errorf("previousProvider = %q, want fal-ai", resp.PreviousProvider)
	}
	if resp.CurrentProvider != providers.IDGemini {
		t.Errorf("currentProvider = %q, want gemini", resp.CurrentProvider)
	}
	if resp.CurrentConfig == nil || resp.CurrentConfig.ID != providers.IDGemini {
		t.Errorf("currentConfig = %+v", resp.CurrentConfig)
	}
	if !strings.Contains(resp.Message, "gemini") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestSetProviderUnknownLeavesSelection(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(adminRequest(http.MethodPost, "/api/ai-providers",
		strings.NewReader(`{"provider":"openai"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if env.manager.Current() != providers.IDFalAI {
		t.Error("rejected switch mutated current provider")
	}

	var env2 errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env2); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env2.Success {
		t.Error("success = true on rejection")
	}
	if env2.Timestamp == "" {
		t.Error("missing timestamp in error envelope")
	}
}

func TestGenerate(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := generateForm(t, defaultFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.Result == nil {
		t.Fatalf("unexpected response: %s", rec.Body)
	}
	if resp.Result.Status != generation.StatusCompleted {
		t.Errorf("status = %q", resp.Result.Status)
	}
	if resp.Result.ImageURL != "https://img.example/out.png" {
		t.Errorf("imageUrl = %q", resp.Result.ImageURL)
	}
	if resp.Result.ProviderUsed != providers.IDFalAI {
		t.Errorf("providerUsed = %q", resp.Result.ProviderUsed)
	}
}

func TestGenerateMissingCustomer(t *testing.T) {
	env := newTestEnv(t)

	fields := defaultFields()
	delete(fields, "customerId")
	body, contentType := generateForm(t, fields, true)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestGenerateMissingImage(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := generateForm(t, defaultFields(), false)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestGenerateQuotaExhausted(t *testing.T) {
	env := newTestEnv(t)

	for i := 0; i < 3; i++ {
		body, contentType := generateForm(t, defaultFields(), true)
		req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
		req.Header.Set("Content-Type", contentType)
		if rec := env.do(req); rec.Code != http.StatusOK {
			t.Fatalf("generation %d: status = %d, body %s", i, rec.Code, rec.Body)
		}
	}

	body, contentType := generateForm(t, defaultFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", contentType)
	rec := env.do(req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403, body %s", rec.Code, rec.Body)
	}
}

func TestPreview(t *testing.T) {
	env := newTestEnv(t)

	body := strings.NewReader(`{"wallColor":"Red","weather":"sunny"}`)
	rec := env.do(httptest.NewRequest(http.MethodPost, "/api/generate/preview", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp previewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(resp.Prompt, "07-40X") {
		t.Errorf("prompt missing wall color code: %s", resp.Prompt)
	}
	if resp.Provider != providers.IDFalAI {
		t.Errorf("provider = %q", resp.Provider)
	}
}

func TestHistoryAfterGenerate(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := generateForm(t, defaultFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", contentType)
	if rec := env.do(req); rec.Code != http.StatusOK {
		t.Fatalf("generate: %d %s", rec.Code, rec.Body)
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/history?customerId=cust-1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp historyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.History) != 1 {
		t.Fatalf("history = %d entries, want 1", len(resp.History))
	}
	item := resp.History[0]
	if item.Status != "completed" || item.WallColorCode != "07-40X" {
		t.Errorf("unexpected history item: %+v", item)
	}
}

func TestColorsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/colors", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp colorsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Wall) == 0 || len(resp.Roof) == 0 || len(resp.Door) == 0 {
		t.Error("catalog response has empty surfaces")
	}
}

func TestErrorStatsRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/errors/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestErrorStats(t *testing.T) {
	env := newTestEnv(t)
	env.errors.Log(fmt.Errorf("boom"), core.ErrorKindNetwork, nil)

	rec := env.do(adminRequest(http.MethodGet, "/api/errors/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp errorStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Stats.TotalErrors != 1 {
		t.Errorf("totalErrors = %d, want 1", resp.Stats.TotalErrors)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Online {
		t.Error("online = false")
	}
	if len(resp.Providers) != 2 {
		t.Errorf("providers = %d, want 2", len(resp.Providers))
	}
}

func TestGenerateRateLimit(t *testing.T) {
	env := newTestEnv(t)
	env.srv.limiter = newIPLimiter(1)

	body, contentType := generateForm(t, defaultFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", contentType)
	if rec := env.do(req); rec.Code != http.StatusOK {
		t.Fatalf("first request: %d %s", rec.Code, rec.Body)
	}

	body, contentType = generateForm(t, defaultFields(), true)
	req = httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", contentType)
	if rec := env.do(req); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d, want 429", rec.Code)
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	env.manager.Register(&stubProvider{
		id:     providers.IDFalAI,
		genErr: core.NewError(core.ErrorKindAuth, "invalid api key"),
	})

	body, contentType := generateForm(t, defaultFields(), true)
	req := httptest.NewRequest(http.MethodPost, "/api/generate", body)
	req.Header.Set("Content-Type", contentType)

	rec := env.do(req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401, body %s", rec.Code, rec.Body)
	}
	var resp generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Result == nil || resp.Result.Status != generation.StatusFailed {
		t.Fatalf("expected failed result, got %s", rec.Body)
	}
	if resp.Result.ErrorMessage == "" {
		t.Error("failed result missing errorMessage")
	}
}
