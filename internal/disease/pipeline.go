// Package disease implements the leaf-disease upload pipeline: local file
// validation, multipart submission, and normalization of the variably
// shaped detection response at the ingress boundary.
package disease

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/agrisense/advisor-cli/internal/history"
	"github.com/agrisense/advisor-cli/internal/model"
	"github.com/agrisense/advisor-cli/pkg/advisory"
)

// MaxUploadBytes is the upload size ceiling.
const MaxUploadBytes = 10 << 20 // 10 MB

// Sentinel errors, raised before any network call.
var (
	ErrFileTooLarge    = eris.New("disease: file exceeds the 10 MB limit")
	ErrUnsupportedType = eris.New("disease: only image files are supported")
	ErrBusy            = eris.New("disease: an upload is already in flight")
)

// Pipeline runs leaf-disease detections. One upload is in flight at a time.
type Pipeline struct {
	client   advisory.Client
	history  *history.Store
	maxBytes int64
	inflight *semaphore.Weighted
}

// New creates a Pipeline. maxBytes <= 0 selects MaxUploadBytes.
func New(client advisory.Client, hist *history.Store, maxBytes int64) *Pipeline {
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}
	return &Pipeline{
		client:   client,
		history:  hist,
		maxBytes: maxBytes,
		inflight: semaphore.NewWeighted(1),
	}
}

// Validate checks a staged file before submission. An empty mimeType is
// accepted; when present it must be an image type.
func (p *Pipeline) Validate(name string, size int64, mimeType string) error {
	if size > p.maxBytes {
		return ErrFileTooLarge
	}
	if mimeType != "" && !strings.HasPrefix(mimeType, "image/") {
		return ErrUnsupportedType
	}
	return nil
}

// DetectFile validates and submits a file from disk.
func (p *Pipeline) DetectFile(ctx context.Context, path string) (*model.DiseaseResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.Wrapf(err, "disease: stat %s", path)
	}
	name := filepath.Base(path)
	if err := p.Validate(name, info.Size(), mime.TypeByExtension(filepath.Ext(name))); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "disease: open %s", path)
	}
	defer f.Close()

	return p.submit(ctx, name, f)
}

// Detect validates and submits an already-staged reader, as used by the
// serve bridge for browser uploads.
func (p *Pipeline) Detect(ctx context.Context, name string, size int64, mimeType string, file io.Reader) (*model.DiseaseResult, error) {
	if err := p.Validate(name, size, mimeType); err != nil {
		return nil, err
	}
	return p.submit(ctx, name, file)
}

func (p *Pipeline) submit(ctx context.Context, name string, file io.Reader) (*model.DiseaseResult, error) {
	if !p.inflight.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer p.inflight.Release(1)

	raw, err := p.client.DetectDisease(ctx, name, file)
	if err != nil {
		zap.L().Warn("disease detection failed", zap.String("file", name), zap.Error(err))
		return nil, err
	}

	result, err := normalizeResult(raw, name)
	if err != nil {
		return nil, err
	}

	p.history.Append(ctx, model.EntryTypeDisease, map[string]any{
		"disease":    result.DiseaseName,
		"confidence": result.Confidence,
		"file_name":  result.FileName,
	})

	zap.L().Info("disease detected",
		zap.String("disease", result.DiseaseName),
		zap.Float64("confidence", result.Confidence),
		zap.Bool("low_confidence", result.LowConfidence()),
	)
	return result, nil
}

// normalizeResult maps the service's loosely named response onto one shape.
// Each logical value is looked up under its candidate field names in order;
// downstream code never sees the raw response.
func normalizeResult(raw json.RawMessage, fileName string) (*model.DiseaseResult, error) {
	var body struct {
		DiseaseName       *string         `json:"disease_name"`
		Disease           *string         `json:"disease"`
		Label             *string         `json:"label"`
		Confidence        *float64        `json:"confidence"`
		ConfidencePercent *float64        `json:"confidence_percent"`
		TreatmentAdvice   json.RawMessage `json:"treatment_advice"`
		Treatment         json.RawMessage `json:"treatment"`
		Recommendation    json.RawMessage `json:"recommendation"`
		Advice            json.RawMessage `json:"advice"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, eris.Wrap(err, "disease: unmarshal detection response")
	}

	result := &model.DiseaseResult{FileName: fileName}

	for _, name := range []*string{body.DiseaseName, body.Disease, body.Label} {
		if name != nil && *name != "" {
			result.DiseaseName = *name
			break
		}
	}
	if result.DiseaseName == "" {
		return nil, eris.New("disease: response contains no disease name")
	}

	switch {
	case body.Confidence != nil:
		result.Confidence = *body.Confidence
		if result.Confidence <= 1 {
			result.Confidence *= 100
		}
	case body.ConfidencePercent != nil:
		result.Confidence = *body.ConfidencePercent
	}

	for _, candidate := range []json.RawMessage{body.TreatmentAdvice, body.Treatment, body.Recommendation, body.Advice} {
		if len(candidate) == 0 || string(candidate) == "null" {
			continue
		}
		var t model.Treatment
		if err := json.Unmarshal(candidate, &t); err != nil {
			return nil, eris.Wrap(err, "disease: unmarshal treatment advice")
		}
		result.Treatment = t
		break
	}

	return result, nil
}
