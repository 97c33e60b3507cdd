package model

import "encoding/json"

// Treatment holds treatment advice, which the detection service may return
// either as a single free-text string or as a structured object. Both
// shapes survive a decode/encode round trip.
type Treatment struct {
	Text       string `json:"-"`
	Immediate  string `json:"immediate,omitempty"`
	LongTerm   string `json:"long_term,omitempty"`
	Prevention string `json:"prevention,omitempty"`
}

// Structured reports whether the advice arrived as an object rather than a
// plain string.
func (t Treatment) Structured() bool {
	return t.Immediate != "" || t.LongTerm != "" || t.Prevention != ""
}

// IsZero reports whether no advice was supplied at all.
func (t Treatment) IsZero() bool {
	return t.Text == "" && !t.Structured()
}

func (t *Treatment) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Treatment{Text: s}
		return nil
	}
	type structured struct {
		Immediate  string `json:"immediate"`
		LongTerm   string `json:"long_term"`
		Prevention string `json:"prevention"`
	}
	var obj structured
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*t = Treatment{Immediate: obj.Immediate, LongTerm: obj.LongTerm, Prevention: obj.Prevention}
	return nil
}

func (t Treatment) MarshalJSON() ([]byte, error) {
	if !t.Structured() {
		return json.Marshal(t.Text)
	}
	type structured struct {
		Immediate  string `json:"immediate,omitempty"`
		LongTerm   string `json:"long_term,omitempty"`
		Prevention string `json:"prevention,omitempty"`
	}
	return json.Marshal(structured{t.Immediate, t.LongTerm, t.Prevention})
}

// DiseaseResult is the normalized outcome of a leaf-disease detection.
// Confidence is on a 0-100 scale regardless of how the service reported it.
type DiseaseResult struct {
	DiseaseName string    `json:"disease_name"`
	Confidence  float64   `json:"confidence"`
	Treatment   Treatment `json:"treatment_advice"`
	FileName    string    `json:"file_name"`
}

// LowConfidenceThreshold is the confidence (0-100) below which the UI shows
// a low-confidence advisory notice.
const LowConfidenceThreshold = 40.0

// LowConfidence reports whether the detection falls below the advisory
// threshold.
func (r DiseaseResult) LowConfidence() bool {
	return r.Confidence < LowConfidenceThreshold
}
