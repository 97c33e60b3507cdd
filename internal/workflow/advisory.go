// Package workflow implements the two-phase preview/confirm advisory
// exchange as an explicit Form/Confirm state machine. Illegal transitions
// (confirm without a successful preview) are rejected, and at most one
// operation is in flight at a time.
package workflow

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/agrisense/advisor-cli/internal/history"
	"github.com/agrisense/advisor-cli/internal/model"
	"github.com/agrisense/advisor-cli/internal/normalize"
	"github.com/agrisense/advisor-cli/pkg/advisory"
)

// State is the workflow position.
type State string

const (
	StateForm    State = "form"
	StateConfirm State = "confirm"
)

// Sentinel errors.
var (
	// ErrValidation is a local pre-network failure; no request was sent.
	ErrValidation = eris.New("workflow: validation failed")
	// ErrNotPreviewed rejects confirm before a successful preview.
	ErrNotPreviewed = eris.New("workflow: confirm requires a successful preview")
	// ErrBusy rejects a second operation while one is in flight.
	ErrBusy = eris.New("workflow: an operation is already in flight")
)

// Advisory is the crop advisory workflow engine.
type Advisory struct {
	client   advisory.Client
	history  *history.Store
	validate *validator.Validate
	inflight *semaphore.Weighted

	state    State
	form     normalize.FormFields
	snapshot *model.PreviewSnapshot
}

// New creates an Advisory workflow in the Form state.
func New(client advisory.Client, hist *history.Store) *Advisory {
	return &Advisory{
		client:   client,
		history:  hist,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		inflight: semaphore.NewWeighted(1),
		state:    StateForm,
	}
}

// State returns the current workflow state.
func (a *Advisory) State() State {
	return a.state
}

// Form returns the current form field values.
func (a *Advisory) Form() normalize.FormFields {
	return a.form
}

// Snapshot returns the held preview snapshot, nil while in the Form state.
func (a *Advisory) Snapshot() *model.PreviewSnapshot {
	return a.snapshot
}

// Preview validates and normalizes the form and issues one preview
// request. On success the workflow holds the snapshot and moves to the
// Confirm state; on failure it stays in Form.
func (a *Advisory) Preview(ctx context.Context, form normalize.FormFields) (*model.PreviewSnapshot, error) {
	if !a.inflight.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer a.inflight.Release(1)

	if err := a.validate.Struct(form); err != nil {
		return nil, eris.Wrap(ErrValidation, "location is required")
	}
	inputs, err := normalize.Normalize(form)
	if err != nil {
		return nil, eris.Wrap(ErrValidation, err.Error())
	}

	snapshot, err := a.client.Preview(ctx, inputs)
	if err != nil {
		zap.L().Warn("advisory preview failed", zap.Error(err))
		return nil, err
	}

	a.form = form
	a.snapshot = snapshot
	a.state = StateConfirm
	zap.L().Info("advisory preview ready",
		zap.String("location", snapshot.Location),
		zap.String("soil_source", snapshot.SoilSource),
		zap.String("weather_source", snapshot.WeatherSource),
	)
	return snapshot, nil
}

// Confirm issues the committing advisory request. The payload is re-derived
// from the live form rather than the cached snapshot. On success the result
// is returned, a history entry is recorded best-effort, and the workflow
// resets to Form; on failure it stays in Confirm with the snapshot intact
// so the farmer need not re-preview.
func (a *Advisory) Confirm(ctx context.Context) (*model.AdvisoryResult, error) {
	if !a.inflight.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer a.inflight.Release(1)

	if a.state != StateConfirm || a.snapshot == nil {
		return nil, ErrNotPreviewed
	}

	inputs, err := normalize.Normalize(a.form)
	if err != nil {
		return nil, eris.Wrap(ErrValidation, err.Error())
	}

	resp, err := a.client.Advise(ctx, inputs)
	if err != nil {
		zap.L().Warn("advisory confirm failed", zap.Error(err))
		return nil, err
	}

	result := &model.AdvisoryResult{
		RecommendedCrop: resp.RecommendedCrop,
		ExpectedYield:   resp.ExpectedYield,
		EstimatedProfit: resp.EstimatedProfit,
		TopCrops:        resp.TopCrops,
		Inputs:          inputs,
		InputSummary:    *a.snapshot,
		LandSize:        inputs.LandSize,
	}

	a.history.Append(ctx, model.EntryTypeCrop, map[string]any{
		"crop":             resp.RecommendedCrop,
		"location":         inputs.Location,
		"estimated_profit": resp.EstimatedProfit,
	})

	a.snapshot = nil
	a.state = StateForm
	zap.L().Info("advisory confirmed",
		zap.String("crop", resp.RecommendedCrop),
		zap.Float64("estimated_profit", resp.EstimatedProfit),
	)
	return result, nil
}

// Back discards the preview snapshot and returns to the Form state with
// the field values intact.
func (a *Advisory) Back() {
	if !a.inflight.TryAcquire(1) {
		return
	}
	defer a.inflight.Release(1)

	a.snapshot = nil
	a.state = StateForm
}
