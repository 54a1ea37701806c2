// Package report renders diagnosis records as PDF health reports.
package report

import (
	"encoding/json"
	"strings"

	"medguard-ai/internal/diagnosis"
	"medguard-ai/internal/storage"
)

// Data is the normalized input to the renderer. It decodes from either the
// snake_case diagnosis shape or the camelCase record shape.
type Data struct {
	Title           string   `json:"title,omitempty"`
	Diagnosis       string   `json:"diagnosis"`
	Causes          []string `json:"causes"`
	Suggestions     []string `json:"suggestions"`
	RiskLevel       string   `json:"risk_level"`
	FollowupNeeded  *bool    `json:"followup_needed,omitempty"`
	AdditionalNotes string   `json:"additional_notes,omitempty"`
	WellnessScore   int      `json:"wellness_score,omitempty"`
}

// UnmarshalJSON coalesces field aliases, preferring the snake_case key.
func (d *Data) UnmarshalJSON(b []byte) error {
	var raw struct {
		Title               string   `json:"title"`
		Diagnosis           string   `json:"diagnosis"`
		Causes              []string `json:"causes"`
		PossibleCauses      []string `json:"possibleCauses"`
		Suggestions         []string `json:"suggestions"`
		RiskLevel           string   `json:"risk_level"`
		RiskLevelCamel      string   `json:"riskLevel"`
		FollowupNeeded      *bool    `json:"followup_needed"`
		FollowupNeededCamel *bool    `json:"followupNeeded"`
		AdditionalNotes     string   `json:"additional_notes"`
		Summary             string   `json:"summary"`
		WellnessScore       *int     `json:"wellness_score"`
		WellnessScoreCamel  *int     `json:"wellnessScore"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*d = Data{
		Title:           raw.Title,
		Diagnosis:       raw.Diagnosis,
		Causes:          firstList(raw.Causes, raw.PossibleCauses),
		Suggestions:     raw.Suggestions,
		RiskLevel:       firstString(raw.RiskLevel, raw.RiskLevelCamel),
		FollowupNeeded:  raw.FollowupNeeded,
		AdditionalNotes: firstString(raw.AdditionalNotes, raw.Summary),
	}
	if d.FollowupNeeded == nil {
		d.FollowupNeeded = raw.FollowupNeededCamel
	}
	if raw.WellnessScore != nil {
		d.WellnessScore = *raw.WellnessScore
	} else if raw.WellnessScoreCamel != nil {
		d.WellnessScore = *raw.WellnessScoreCamel
	}
	d.normalize()
	return nil
}

// normalize fills defaults so the renderer never sees empty required fields.
func (d *Data) normalize() {
	d.Diagnosis = strings.TrimSpace(d.Diagnosis)
	if d.Diagnosis == "" {
		d.Diagnosis = "Undetermined"
	}
	if risk, ok := diagnosis.ParseRiskLevel(d.RiskLevel); ok {
		d.RiskLevel = string(risk)
	} else {
		d.RiskLevel = string(diagnosis.RiskUndetermined)
	}
	if d.Causes == nil {
		d.Causes = []string{}
	}
	if d.Suggestions == nil {
		d.Suggestions = []string{}
	}
	if d.WellnessScore < 0 || d.WellnessScore > 100 {
		d.WellnessScore = 0
	}
}

// FromDiagnosis builds report data from an extracted diagnosis.
func FromDiagnosis(rec diagnosis.Record) Data {
	followup := rec.FollowupNeeded
	d := Data{
		Diagnosis:       rec.DiagnosisLabel,
		Causes:          rec.Causes,
		Suggestions:     rec.Suggestions,
		RiskLevel:       string(rec.RiskLevel),
		FollowupNeeded:  &followup,
		AdditionalNotes: rec.AdditionalNotes,
		WellnessScore:   rec.WellnessScore,
	}
	d.normalize()
	return d
}

// FromHealthRecord builds report data from a stored record. details may be
// nil.
func FromHealthRecord(rec storage.HealthRecord, details *storage.HealthRecordDetails) Data {
	d := Data{
		Title:     rec.Title,
		Diagnosis: rec.Diagnosis,
		RiskLevel: rec.RiskLevel,
	}
	if rec.Summary != nil {
		d.AdditionalNotes = *rec.Summary
	}
	if rec.WellnessScore != nil {
		d.WellnessScore = *rec.WellnessScore
	}
	if details != nil {
		d.Causes = details.PossibleCauses
		d.Suggestions = details.Suggestions
	}
	d.normalize()
	return d
}

func firstString(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstList(vals ...[]string) []string {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}
