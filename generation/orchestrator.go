package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paintly_backend/core"
	"paintly_backend/db"
	"paintly_backend/errlog"
	"paintly_backend/offline"
	"paintly_backend/prompt"
	"paintly_backend/providers"
	"paintly_backend/retry"
)

// QuotaConfig describes the subscription defaults applied to customers seen
// for the first time.
type QuotaConfig struct {
	DefaultPlanID string
	DefaultLimit  int
}

// DefaultQuotaConfig matches the free plan.
func DefaultQuotaConfig() QuotaConfig {
	return QuotaConfig{DefaultPlanID: "free", DefaultLimit: 3}
}

// Orchestrator runs a generation request end to end: quota check, prompt
// construction, provider dispatch under retry, response normalization, and
// history persistence.
type Orchestrator struct {
	repo    *db.Repository
	manager *providers.Manager
	retry   *retry.Manager
	errors  *errlog.Logger
	net     *offline.Manager
	quota   QuotaConfig
	log     *zap.Logger
	now     func() time.Time
}

// NewOrchestrator wires the orchestrator's collaborators together.
func NewOrchestrator(
	repo *db.Repository,
	manager *providers.Manager,
	retryMgr *retry.Manager,
	errors *errlog.Logger,
	net *offline.Manager,
	quota QuotaConfig,
	log *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		repo:    repo,
		manager: manager,
		retry:   retryMgr,
		errors:  errors,
		net:     net,
		quota:   quota,
		log:     log,
		now:     time.Now,
	}
}

// Generate runs the full pipeline. The returned Result always has a
// terminal status; a non-nil error accompanies StatusFailed and carries the
// core.ErrorKind that handlers map to an HTTP status.
//
// Request validation and prompt construction fail before any record is
// written or any network call is made. From dispatch onward, a history
// record exists and is finished with the terminal state whatever happens.
func (o *Orchestrator) Generate(ctx context.Context, req *Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		o.errors.Log(err, core.KindOf(err), map[string]any{"customerId": req.CustomerID})
		return nil, err
	}

	if !o.net.Online() {
		err := core.NewError(core.ErrorKindNetwork, "network is offline, try again shortly")
		o.errors.Log(err, core.ErrorKindNetwork, nil)
		return nil, err
	}

	sub, err := o.repo.EnsureSubscription(ctx, req.CustomerID, o.quota.DefaultPlanID, o.quota.DefaultLimit)
	if err != nil {
		return nil, core.WrapError(core.ErrorKindProcessing, "quota lookup failed", err)
	}
	if sub.Remaining() == 0 {
		err := core.NewError(core.ErrorKindQuota,
			fmt.Sprintf("generation limit reached (%d/%d on plan %s)",
				sub.GenerationCount, sub.GenerationLimit, sub.PlanID))
		o.errors.Log(err, core.ErrorKindQuota, map[string]any{"customerId": req.CustomerID})
		return nil, err
	}

	rendered, err := prompt.Build(req.PromptParams())
	if err != nil {
		o.errors.Log(err, core.KindOf(err), map[string]any{"customerId": req.CustomerID})
		return nil, err
	}

	// Snapshot the active provider before any network call; a concurrent
	// switch must not change this request mid-flight.
	provider, cfg, err := o.activeProvider()
	if err != nil {
		o.errors.Log(err, core.KindOf(err), nil)
		return nil, err
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	rec := recordFromRequest(req, rendered, provider)
	if err := o.repo.InsertGeneration(ctx, rec); err != nil {
		return nil, core.WrapError(core.ErrorKindProcessing, "failed to create history record", err)
	}
	if err := o.repo.UpdateGenerationStatus(ctx, req.ID, string(StatusProcessing)); err != nil {
		o.log.Warn("failed to mark record processing", zap.String("id", req.ID), zap.Error(err))
	}

	o.log.Info("dispatching generation",
		zap.String("id", req.ID),
		zap.String("customer_id", req.CustomerID),
		zap.String("provider", string(cfg.ID)))

	start := o.now()
	provResult, genErr := retry.Execute(ctx, o.retry, core.ErrorKindAPI,
		func(ctx context.Context) (*providers.Result, error) {
			return provider.Generate(ctx, providers.Request{
				Prompt:    rendered,
				MainImage: req.MainImage,
				SideImage: req.SideImage,
			})
		})
	elapsed := o.now().Sub(start).Milliseconds()

	result := &Result{
		HistoryID:        req.ID,
		ProviderUsed:     provider.ID(),
		Model:            provider.Model(),
		ProcessingTimeMS: elapsed,
	}
	if provResult != nil {
		result.ImageURL = provResult.ImageURL
		result.Raw = provResult.Raw
	}

	if genErr != nil {
		result.Status = StatusFailed
		result.ErrorMessage = genErr.Error()
		if core.KindOf(genErr) == core.ErrorKindNetwork {
			// Refresh provider health once connectivity returns.
			o.net.QueueRequest(func(ctx context.Context) error {
				o.manager.HealthCheck(ctx)
				return nil
			})
		}
		o.finish(ctx, rec, result)
		return result, genErr
	}

	result.Status = StatusCompleted
	o.finish(ctx, rec, result)
	if err := o.repo.IncrementGenerationCount(ctx, req.CustomerID); err != nil {
		o.log.Warn("failed to increment generation count",
			zap.String("customer_id", req.CustomerID), zap.Error(err))
	}

	o.log.Info("generation completed",
		zap.String("id", req.ID),
		zap.Int64("processing_ms", elapsed))
	return result, nil
}

// PreviewPrompt builds the prompt a request would dispatch, without touching
// quota, history, or any provider.
func (o *Orchestrator) PreviewPrompt(req *Request) (string, providers.ID, error) {
	rendered, err := prompt.Build(req.PromptParams())
	if err != nil {
		return "", "", err
	}
	return rendered, o.manager.Current(), nil
}

// History lists persisted generation records, newest first.
func (o *Orchestrator) History(ctx context.Context, customerID string, limit int) ([]db.GenerationRecord, error) {
	return o.repo.ListGenerations(ctx, customerID, limit)
}

// activeProvider snapshots the current provider, hard-failing when none is
// registered or the selection is disabled by health state. Dispatching to a
// provider known to be down would only burn the retry budget.
func (o *Orchestrator) activeProvider() (providers.Provider, providers.Config, error) {
	provider, ok := o.manager.CurrentProvider()
	if !ok {
		return nil, providers.Config{}, core.NewError(core.ErrorKindAPI, "no generation providers are available")
	}
	cfg, ok := o.manager.CurrentConfig()
	if !ok || !cfg.Enabled {
		return nil, providers.Config{}, core.NewError(core.ErrorKindAPI,
			fmt.Sprintf("provider %q is currently unavailable", provider.ID()))
	}
	return provider, cfg, nil
}

func (o *Orchestrator) finish(ctx context.Context, rec db.GenerationRecord, result *Result) {
	rec.Status = string(result.Status)
	rec.ImageURL = result.ImageURL
	rec.ErrorMessage = result.ErrorMessage
	rec.RawResponse = string(result.Raw)
	rec.ProcessingTimeMS = result.ProcessingTimeMS
	if err := o.repo.FinishGeneration(ctx, rec); err != nil {
		o.log.Error("failed to persist terminal generation state",
			zap.String("id", rec.ID), zap.Error(err))
	}
}

func recordFromRequest(req *Request, rendered string, provider providers.Provider) db.GenerationRecord {
	rec := db.GenerationRecord{
		ID:                req.ID,
		CustomerID:        req.CustomerID,
		Weather:           string(req.Weather),
		LayoutSideBySide:  req.LayoutSideBySide,
		BackgroundColor:   string(req.BackgroundColor),
		OtherInstructions: req.OtherInstructions,
		Prompt:            rendered,
		ProviderUsed:      string(provider.ID()),
		Model:             provider.Model(),
		Status:            string(StatusPending),
	}
	if req.Wall != nil {
		rec.WallColorName, rec.WallColorCode = req.Wall.Name, req.Wall.Code
	}
	if req.Roof != nil {
		rec.RoofColorName, rec.RoofColorCode = req.Roof.Name, req.Roof.Code
	}
	if req.Door != nil {
		rec.DoorColorName, rec.DoorColorCode = req.Door.Name, req.Door.Code
	}
	return rec
}
