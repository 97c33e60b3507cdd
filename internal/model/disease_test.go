package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreatment_StringShape(t *testing.T) {
	t.Parallel()

	var tr Treatment
	require.NoError(t, json.Unmarshal([]byte(`"Apply neem oil weekly"`), &tr))
	assert.Equal(t, "Apply neem oil weekly", tr.Text)
	assert.False(t, tr.Structured())

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.JSONEq(t, `"Apply neem oil weekly"`, string(data))
}

func TestTreatment_StructuredShape(t *testing.T) {
	t.Parallel()

	raw := `{"immediate":"Remove affected leaves","long_term":"Apply fungicide","prevention":"Rotate crops"}`
	var tr Treatment
	require.NoError(t, json.Unmarshal([]byte(raw), &tr))
	assert.True(t, tr.Structured())
	assert.Equal(t, "Remove affected leaves", tr.Immediate)
	assert.Equal(t, "Apply fungicide", tr.LongTerm)
	assert.Equal(t, "Rotate crops", tr.Prevention)

	data, err := json.Marshal(tr)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(data))
}

func TestDiseaseResult_LowConfidence(t *testing.T) {
	t.Parallel()

	assert.True(t, DiseaseResult{Confidence: 39.9}.LowConfidence())
	assert.False(t, DiseaseResult{Confidence: 40}.LowConfidence())
	assert.False(t, DiseaseResult{Confidence: 87}.LowConfidence())
}

func TestGPSFallbackName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "GPS: 12.8439, 80.1543", GPSFallbackName(12.84391, 80.15428))
	assert.Equal(t, "GPS: -1.0000, 0.5000", GPSFallbackName(-1, 0.5))
}
