package generation

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"paintly_backend/core"
	"paintly_backend/db"
	"paintly_backend/errlog"
	"paintly_backend/offline"
	"paintly_backend/providers"
	"paintly_backend/retry"
)

type stubProvider struct {
	id     providers.ID
	result *providers.Result
	err    error
	calls  int
}

func (s *stubProvider) ID() providers.ID    { return s.id }
func (s *stubProvider) DisplayName() string { return string(s.id) }
func (s *stubProvider) Model() string       { return "stub-model" }

func (s *stubProvider) Generate(context.Context, providers.Request) (*providers.Result, error) {
	s.calls++
	return s.result, s.err
}

func (s *stubProvider) HealthCheck(context.Context) error { return nil }

type fixture struct {
	orch *Orchestrator
	repo *db.Repository
	net  *offline.Manager
	errs *errlog.Logger
}

func newFixture(t *testing.T, stub *stubProvider, quota QuotaConfig) *fixture {
	t.Helper()
	database, err := db.New(db.DatabaseConfig{
		Path:           filepath.Join(t.TempDir(), "test.sqlite"),
		MigrationsPath: "file://../db/migrations",
	})
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	meta, err := providers.LoadMetadata("")
	if err != nil {
		t.Fatal(err)
	}
	manager := providers.NewManager(stub.id, meta, providers.DefaultManagerConfig(), zap.NewNop())
	manager.Register(stub)

	errs := errlog.New(100, zap.NewNop())
	retryMgr := retry.New(retry.Config{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}, errs, zap.NewNop())
	net := offline.New(offline.Config{Interval: 0}, errs, zap.NewNop())

	repo := database.Repository()
	return &fixture{
		orch: NewOrchestrator(repo, manager, retryMgr, errs, net, quota, zap.NewNop()),
		repo: repo,
		net:  net,
		errs: errs,
	}
}

func TestGenerateSuccess(t *testing.T) {
	stub := &stubProvider{
		id:     providers.IDFalAI,
		result: &providers.Result{ImageURL: "https://fal.media/out.png", Raw: []byte(`{"ok":true}`)},
	}
	fx := newFixture(t, stub, DefaultQuotaConfig())

	req := validRequest(t)
	result, err := fx.orch.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if result.Status != StatusCompleted || result.ImageURL != "https://fal.media/out.png" {
		t.Errorf("result = %+v", result)
	}
	if result.ProviderUsed != providers.IDFalAI {
		t.Errorf("ProviderUsed = %q", result.ProviderUsed)
	}

	rec, err := fx.repo.GetGeneration(context.Background(), result.HistoryID)
	if err != nil {
		t.Fatalf("GetGeneration: %v", err)
	}
	if rec.Status != "completed" || rec.ImageURL != result.ImageURL {
		t.Errorf("persisted record = %+v", rec)
	}
	if !strings.Contains(rec.Prompt, "#B90019") {
		t.Error("persisted prompt missing the rendered color")
	}
	if rec.RawResponse != `{"ok":true}` {
		t.Errorf("raw response = %q", rec.RawResponse)
	}

	sub, err := fx.repo.GetSubscription(context.Background(), req.CustomerID)
	if err != nil {
		t.Fatalf("GetSubscription: %v", err)
	}
	if sub.GenerationCount != 1 {
		t.Errorf("GenerationCount = %d, want 1", sub.GenerationCount)
	}
}

func TestGenerateQuotaExceeded(t *testing.T) {
	stub := &stubProvider{id: providers.IDFalAI, result: &providers.Result{ImageURL: "x"}}
	fx := newFixture(t, stub, QuotaConfig{DefaultPlanID: "free", DefaultLimit: 0})

	_, err := fx.orch.Generate(context.Background(), validRequest(t))
	if err == nil {
		t.Fatal("expected quota error")
	}
	if kind := core.KindOf(err); kind != core.ErrorKindQuota {
		t.Errorf("error kind = %q, want quota", kind)
	}
	if stub.calls != 0 {
		t.Errorf("provider invoked %d times despite quota", stub.calls)
	}
	if recs, _ := fx.repo.ListGenerations(context.Background(), "", 0); len(recs) != 0 {
		t.Errorf("history record created despite quota: %v", recs)
	}
}

func TestGenerateValidationFailsBeforeDispatch(t *testing.T) {
	stub := &stubProvider{id: providers.IDFalAI}
	fx := newFixture(t, stub, DefaultQuotaConfig())

	req := validRequest(t)
	req.CustomerID = ""
	_, err := fx.orch.Generate(context.Background(), req)
	if kind := core.KindOf(err); kind != core.ErrorKindValidation {
		t.Fatalf("error kind = %q, want validation", kind)
	}
	if stub.calls != 0 {
		t.Error("provider invoked for invalid request")
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	stub := &stubProvider{
		id:  providers.IDFalAI,
		err: core.NewError(core.ErrorKindAPI, "upstream exploded"),
	}
	fx := newFixture(t, stub, DefaultQuotaConfig())

	req := validRequest(t)
	result, err := fx.orch.Generate(context.Background(), req)
	if err == nil {
		t.Fatal("expected provider error")
	}
	if result == nil || result.Status != StatusFailed || result.ErrorMessage == "" {
		t.Errorf("result = %+v", result)
	}
	if stub.calls != 3 { // MaxRetries 2 in fixture
		t.Errorf("provider invoked %d times, want 3", stub.calls)
	}

	rec, getErr := fx.repo.GetGeneration(context.Background(), result.HistoryID)
	if getErr != nil {
		t.Fatalf("GetGeneration: %v", getErr)
	}
	if rec.Status != "failed" || rec.ErrorMessage == "" {
		t.Errorf("persisted record = %+v", rec)
	}

	sub, _ := fx.repo.GetSubscription(context.Background(), req.CustomerID)
	if sub.GenerationCount != 0 {
		t.Errorf("failed generation consumed quota: count = %d", sub.GenerationCount)
	}
}

func TestGenerateEmptySuccessPersistsRaw(t *testing.T) {
	stub := &stubProvider{
		id:     providers.IDFalAI,
		result: &providers.Result{Raw: []byte(`{"images":[]}`)},
		err:    core.NewError(core.ErrorKindProcessing, "fal-ai: response contained no image data"),
	}
	fx := newFixture(t, stub, DefaultQuotaConfig())

	result, err := fx.orch.Generate(context.Background(), validRequest(t))
	if err == nil {
		t.Fatal("empty success passed through as completed")
	}
	if result.Status != StatusFailed {
		t.Errorf("status = %q, want failed", result.Status)
	}

	rec, _ := fx.repo.GetGeneration(context.Background(), result.HistoryID)
	if rec.RawResponse != `{"images":[]}` {
		t.Errorf("raw response not preserved: %q", rec.RawResponse)
	}
}

func TestGenerateOffline(t *testing.T) {
	stub := &stubProvider{id: providers.IDFalAI}
	fx := newFixture(t, stub, DefaultQuotaConfig())
	fx.net.SetOnline(context.Background(), false)

	_, err := fx.orch.Generate(context.Background(), validRequest(t))
	if kind := core.KindOf(err); kind != core.ErrorKindNetwork {
		t.Fatalf("error kind = %q, want network", kind)
	}
	if stub.calls != 0 {
		t.Error("provider invoked while offline")
	}
}

func TestGenerateNetworkFailureQueuesHealthRefresh(t *testing.T) {
	stub := &stubProvider{
		id:  providers.IDFalAI,
		err: core.NewError(core.ErrorKindNetwork, "connection refused"),
	}
	fx := newFixture(t, stub, DefaultQuotaConfig())

	_, err := fx.orch.Generate(context.Background(), validRequest(t))
	if err == nil {
		t.Fatal("expected network error")
	}
	if fx.net.QueueLen() != 1 {
		t.Errorf("queued %d thunks, want 1 health refresh", fx.net.QueueLen())
	}
}

func TestPreviewPrompt(t *testing.T) {
	stub := &stubProvider{id: providers.IDGemini}
	fx := newFixture(t, stub, DefaultQuotaConfig())

	rendered, providerID, err := fx.orch.PreviewPrompt(validRequest(t))
	if err != nil {
		t.Fatalf("PreviewPrompt: %v", err)
	}
	if !strings.Contains(rendered, "07-40X") {
		t.Error("preview missing color code")
	}
	if providerID != providers.IDGemini {
		t.Errorf("provider = %q", providerID)
	}
	if recs, _ := fx.repo.ListGenerations(context.Background(), "", 0); len(recs) != 0 {
		t.Error("preview created a history record")
	}
}

func TestHistory(t *testing.T) {
	stub := &stubProvider{id: providers.IDFalAI, result: &providers.Result{ImageURL: "u"}}
	fx := newFixture(t, stub, QuotaConfig{DefaultPlanID: "pro", DefaultLimit: 100})

	for i := 0; i < 2; i++ {
		if _, err := fx.orch.Generate(context.Background(), validRequest(t)); err != nil {
			t.Fatalf("Generate: %v", err)
		}
	}
	recs, err := fx.orch.History(context.Background(), "cust-1", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("got %d records, want 2", len(recs))
	}
}
