package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medguard-ai/internal/diagnosis"
	"medguard-ai/internal/storage"
)

var fixedClock = func() time.Time {
	return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
}

func TestData_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Data
	}{
		{
			name: "snake case",
			in: `{"diagnosis":"Common Cold","causes":["Virus"],"suggestions":["Rest"],
				"risk_level":"Low","followup_needed":false,"additional_notes":"n","wellness_score":82}`,
			want: Data{
				Diagnosis:       "Common Cold",
				Causes:          []string{"Virus"},
				Suggestions:     []string{"Rest"},
				RiskLevel:       "Low",
				FollowupNeeded:  boolPtr(false),
				AdditionalNotes: "n",
				WellnessScore:   82,
			},
		},
		{
			name: "camel case record shape",
			in: `{"title":"Visit","diagnosis":"Flu","possibleCauses":["Influenza"],"suggestions":[],
				"riskLevel":"high","followupNeeded":true,"summary":"s","wellnessScore":30}`,
			want: Data{
				Title:           "Visit",
				Diagnosis:       "Flu",
				Causes:          []string{"Influenza"},
				Suggestions:     []string{},
				RiskLevel:       "High",
				FollowupNeeded:  boolPtr(true),
				AdditionalNotes: "s",
				WellnessScore:   30,
			},
		},
		{
			name: "snake case wins over alias",
			in:   `{"diagnosis":"X","causes":["a"],"possibleCauses":["b"],"risk_level":"Low","riskLevel":"High"}`,
			want: Data{
				Diagnosis:   "X",
				Causes:      []string{"a"},
				Suggestions: []string{},
				RiskLevel:   "Low",
			},
		},
		{
			name: "empty object gets defaults",
			in:   `{}`,
			want: Data{
				Diagnosis:   "Undetermined",
				Causes:      []string{},
				Suggestions: []string{},
				RiskLevel:   "Undetermined",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Data
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestData_UnmarshalJSON_Invalid(t *testing.T) {
	var d Data
	assert.Error(t, json.Unmarshal([]byte(`{"causes":"not a list"}`), &d))
}

func TestFromDiagnosis(t *testing.T) {
	rec := diagnosis.Record{
		DiagnosisLabel: "Common Cold",
		Causes:         []string{"Virus"},
		Suggestions:    []string{"Rest"},
		RiskLevel:      diagnosis.RiskLow,
		FollowupNeeded: true,
		WellnessScore:  80,
	}

	d := FromDiagnosis(rec)
	assert.Equal(t, "Common Cold", d.Diagnosis)
	assert.Equal(t, "Low", d.RiskLevel)
	require.NotNil(t, d.FollowupNeeded)
	assert.True(t, *d.FollowupNeeded)
	assert.Equal(t, 80, d.WellnessScore)
}

func TestFromHealthRecord(t *testing.T) {
	summary := "Drink fluids"
	score := 55
	rec := storage.HealthRecord{
		Title:         "Checkup",
		Diagnosis:     "Sinusitis",
		RiskLevel:     "Medium",
		Summary:       &summary,
		WellnessScore: &score,
	}
	details := &storage.HealthRecordDetails{
		PossibleCauses: []string{"Allergy"},
		Suggestions:    []string{"Saline rinse"},
	}

	d := FromHealthRecord(rec, details)
	assert.Equal(t, "Checkup", d.Title)
	assert.Equal(t, "Medium", d.RiskLevel)
	assert.Equal(t, "Drink fluids", d.AdditionalNotes)
	assert.Equal(t, 55, d.WellnessScore)
	assert.Equal(t, []string{"Allergy"}, d.Causes)
	assert.Nil(t, d.FollowupNeeded)

	noDetails := FromHealthRecord(rec, nil)
	assert.Empty(t, noDetails.Causes)
	assert.NotNil(t, noDetails.Suggestions)
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock), WithCompression(false))

	d := Data{
		Diagnosis:       "Common Cold",
		Causes:          []string{"Rhinovirus infection"},
		Suggestions:     []string{"Rest", "Drink plenty of fluids"},
		RiskLevel:       "Low",
		FollowupNeeded:  boolPtr(false),
		AdditionalNotes: "Symptoms usually clear within 7-10 days.",
		WellnessScore:   84,
	}

	out, err := r.Render(d)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")), "output is not a PDF")

	for _, want := range []string{
		"(Common Cold)",
		"(Low)",
		"(84/100)",
		"(Rest)",
		"(Generated on: March 14, 2026)",
		"(No)",
	} {
		if !strings.Contains(string(out), want) && !containsBullet(out, want) {
			t.Errorf("Render() output missing %s", want)
		}
	}
}

func TestRenderer_RenderIsStable(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock), WithCompression(false))
	d := Data{Diagnosis: "Migraine", RiskLevel: "Medium", Causes: []string{"Stress"}, WellnessScore: 61}

	first, err := r.Render(d)
	require.NoError(t, err)
	second, err := r.Render(d)
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))
	assert.Contains(t, string(second), "(Migraine)")
	assert.Contains(t, string(second), "(Medium)")
}

func TestRenderer_OmitsZeroWellnessAndUnknownFollowup(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock), WithCompression(false))

	out, err := r.Render(Data{Diagnosis: "Rash", RiskLevel: "Undetermined"})
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "Wellness Score:")
	assert.NotContains(t, s, "Follow-up Needed:")
	assert.Contains(t, s, "(Undetermined)")
}

func TestRenderer_LongContentPaginates(t *testing.T) {
	r := NewRenderer(WithClock(fixedClock), WithCompression(false))

	causes := make([]string, 80)
	for i := range causes {
		causes[i] = "A fairly long possible cause description that fills most of a line"
	}
	out, err := r.Render(Data{Diagnosis: "Many", RiskLevel: "High", Causes: causes})
	require.NoError(t, err)

	assert.Contains(t, string(out), "(Page 2 of ")
	assert.Contains(t, string(out), "DISCLAIMER")
}

func TestRenderer_DefaultsCompress(t *testing.T) {
	compressed, err := NewRenderer(WithClock(fixedClock)).Render(Data{Diagnosis: "Common Cold", RiskLevel: "Low"})
	require.NoError(t, err)
	assert.NotContains(t, string(compressed), "(Common Cold)")
}

func TestColors(t *testing.T) {
	assert.Equal(t, colorGreen, riskColor("Low"))
	assert.Equal(t, colorYellow, riskColor("Medium"))
	assert.Equal(t, colorRed, riskColor("High"))
	assert.Equal(t, colorGray, riskColor("Undetermined"))

	assert.Equal(t, colorGreen, wellnessColor(80))
	assert.Equal(t, colorYellow, wellnessColor(79))
	assert.Equal(t, colorYellow, wellnessColor(60))
	assert.Equal(t, colorOrange, wellnessColor(40))
	assert.Equal(t, colorRed, wellnessColor(39))
}

func boolPtr(b bool) *bool { return &b }

// containsBullet matches bulleted list items, which are prefixed with the
// cp1252 bullet byte.
func containsBullet(out []byte, want string) bool {
	inner := strings.TrimSuffix(strings.TrimPrefix(want, "("), ")")
	return bytes.Contains(out, []byte("\x95 "+inner+")"))
}
