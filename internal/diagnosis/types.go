// Package diagnosis holds the structured diagnosis record produced from a
// completion, and the logic that extracts it from free text.
package diagnosis

import "strings"

// RiskLevel is the severity of a diagnosis.
type RiskLevel string

const (
	RiskLow          RiskLevel = "Low"
	RiskMedium       RiskLevel = "Medium"
	RiskHigh         RiskLevel = "High"
	RiskUndetermined RiskLevel = "Undetermined"
)

// ParseRiskLevel maps s onto one of the four risk levels, ignoring case and
// surrounding whitespace. ok is false when s matches none of them.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return RiskLow, true
	case "medium", "moderate":
		return RiskMedium, true
	case "high":
		return RiskHigh, true
	case "undetermined":
		return RiskUndetermined, true
	}
	return "", false
}

// Valid reports whether r is one of the enumerated levels.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskUndetermined:
		return true
	}
	return false
}

// Record is the structured output of symptom analysis.
type Record struct {
	DiagnosisLabel  string    `json:"diagnosis"`
	Causes          []string  `json:"causes"`
	Suggestions     []string  `json:"suggestions"`
	RiskLevel       RiskLevel `json:"risk_level"`
	FollowupNeeded  bool      `json:"followup_needed"`
	AdditionalNotes string    `json:"additional_notes"`
	WellnessScore   int       `json:"wellness_score"`
}

// DefaultRecord is substituted whenever a completion cannot be turned into a
// Record. It is never nil-valued.
func DefaultRecord() Record {
	return Record{
		DiagnosisLabel:  "Undetermined",
		Causes:          []string{"Unable to determine from the provided information"},
		Suggestions:     []string{"Please consult with a healthcare professional for proper diagnosis"},
		RiskLevel:       RiskUndetermined,
		FollowupNeeded:  true,
		AdditionalNotes: "The AI was unable to provide a specific diagnosis based on the information provided.",
		WellnessScore:   undeterminedScore,
	}
}

// AttachmentKind is the media type of a user attachment.
type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentAudio AttachmentKind = "audio"
	AttachmentVideo AttachmentKind = "video"
)

// Attachment is binary media supplied alongside the symptom text.
type Attachment struct {
	Kind     AttachmentKind
	MIMEType string
	Data     []byte
}

// DefaultSystemInstruction is the clinical-safety instruction sent when the
// caller supplies none.
const DefaultSystemInstruction = `You are a medical diagnosis assistant. Based on the symptoms and files provided by the user (e.g. images, audio), your task is to return an informed, structured response. Do not speculate or make unsafe assumptions. You are **not a substitute for a licensed physician**.

Please format your response using clear, well-structured markdown:
- Use **bold text** for important information
- Use headings (## and ###) to organize your response
- Use bullet points for lists
- Add line breaks between sections for readability

Your response should include both a conversational analysis AND structured JSON data.

For the JSON data, please use this schema:

` + "```json" + `
{
  "diagnosis": {
    "value": "string",
    "description": "The most likely medical condition or illness based on the user's symptoms."
  },
  "causes": {
    "value": ["string"],
    "description": "Probable reasons or triggers that might have caused the condition."
  },
  "suggestions": {
    "value": ["string"],
    "description": "Recommended steps the user can take to relieve symptoms or improve condition."
  },
  "risk_level": {
    "value": "Low | Medium | High | Undetermined",
    "description": "The severity or urgency of the condition, based on common clinical assessment."
  },
  "followup_needed": {
    "value": true,
    "description": "Whether the user should seek medical consultation or diagnosis confirmation from a healthcare provider."
  },
  "additional_notes": {
    "value": "string",
    "description": "Any warnings, context, or additional guidance the user should be aware of."
  }
}
` + "```" + `

Be concise yet informative. Ensure the output is easy to parse and clearly structured.`

// FallbackNarrative is shown when the completion service could not be reached.
const FallbackNarrative = "I'm sorry, I wasn't able to analyze your symptoms right now. " +
	"Please try again in a moment, and consult a healthcare professional if your symptoms are severe or getting worse."
