// Package normalize maps raw categorical form fields into the numeric
// payload the advisory service expects. It is pure: no I/O, no state, same
// input always yields the same output.
package normalize

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/agrisense/advisor-cli/internal/model"
)

// FormFields are the raw, untyped values as entered in the advisory form.
// Empty string means the farmer left the field unset.
type FormFields struct {
	Location       string `json:"location" validate:"required"`
	PreviousCrop   string `json:"previous_crop"`
	LandSize       string `json:"land_size"`
	IrrigationType string `json:"irrigation_type"`
	Goal           string `json:"goal"`
	Temperature    string `json:"temperature"`
	Humidity       string `json:"humidity"`
	Rainfall       string `json:"rainfall"`
	SoilN          string `json:"N"`
	SoilP          string `json:"P"`
	SoilK          string `json:"K"`
	SoilPh         string `json:"ph"`
}

// Bucket midpoints. These values are part of the service contract.
var (
	temperatureMidpoints = map[string]float64{"Cool": 18, "Moderate": 25, "Hot": 32}
	humidityMidpoints    = map[string]float64{"Low": 30, "Medium": 55, "High": 80}
	rainfallMidpoints    = map[string]float64{"Low": 400, "Medium": 750, "High": 1200}
)

const defaultPh = 7

// Normalize converts form fields into AdvisoryInputs. Unset buckets become
// nil; manual soil is populated iff at least one soil field was entered,
// with absent sub-fields defaulting to 0 (pH to 7).
func Normalize(f FormFields) (model.AdvisoryInputs, error) {
	inputs := model.AdvisoryInputs{
		Location:       strings.TrimSpace(f.Location),
		PreviousCrop:   optionalString(f.PreviousCrop),
		IrrigationType: optionalString(f.IrrigationType),
		Goal:           optionalString(f.Goal),
	}

	var err error
	if inputs.Temperature, err = bucketValue(temperatureMidpoints, "temperature", f.Temperature); err != nil {
		return model.AdvisoryInputs{}, err
	}
	if inputs.Humidity, err = bucketValue(humidityMidpoints, "humidity", f.Humidity); err != nil {
		return model.AdvisoryInputs{}, err
	}
	if inputs.Rainfall, err = bucketValue(rainfallMidpoints, "rainfall", f.Rainfall); err != nil {
		return model.AdvisoryInputs{}, err
	}

	if v := strings.TrimSpace(f.LandSize); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return model.AdvisoryInputs{}, eris.Wrapf(err, "normalize: land size %q", v)
		}
		inputs.LandSize = &size
	}

	soil, err := manualSoil(f)
	if err != nil {
		return model.AdvisoryInputs{}, err
	}
	inputs.ManualSoil = soil

	return inputs, nil
}

// manualSoil returns nil when all four raw soil fields are empty; otherwise
// a fully populated ManualSoil with documented defaults.
func manualSoil(f FormFields) (*model.ManualSoil, error) {
	n := strings.TrimSpace(f.SoilN)
	p := strings.TrimSpace(f.SoilP)
	k := strings.TrimSpace(f.SoilK)
	ph := strings.TrimSpace(f.SoilPh)
	if n == "" && p == "" && k == "" && ph == "" {
		return nil, nil
	}

	soil := &model.ManualSoil{Ph: defaultPh}
	var err error
	if soil.N, err = soilValue("N", n, 0); err != nil {
		return nil, err
	}
	if soil.P, err = soilValue("P", p, 0); err != nil {
		return nil, err
	}
	if soil.K, err = soilValue("K", k, 0); err != nil {
		return nil, err
	}
	if soil.Ph, err = soilValue("ph", ph, defaultPh); err != nil {
		return nil, err
	}
	return soil, nil
}

func soilValue(field, raw string, def float64) (float64, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "normalize: soil %s %q", field, raw)
	}
	return v, nil
}

func bucketValue(midpoints map[string]float64, field, raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, ok := midpoints[raw]
	if !ok {
		return nil, eris.Errorf("normalize: unknown %s bucket %q", field, raw)
	}
	return &v, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
