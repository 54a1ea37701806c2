package diagnosis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// Greedy: spans from the first '{' to the last '}' in the text.
	embeddedObject = regexp.MustCompile(`\{[\s\S]*\}`)
	jsonFence      = regexp.MustCompile("```json[\\s\\S]*?```")
)

const recordSchemaURL = "medguard://schemas/diagnosis-record.json"

const recordSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["diagnosis"],
  "properties": {
    "diagnosis": {"type": "string", "minLength": 1},
    "causes": {"type": "array", "items": {"type": "string"}},
    "suggestions": {"type": "array", "items": {"type": "string"}},
    "risk_level": {"enum": ["Low", "Medium", "High", "Undetermined"]},
    "followup_needed": {"type": "boolean"},
    "additional_notes": {"type": "string"}
  }
}`

var compiledSchema = jsonschema.MustCompileString(recordSchemaURL, recordSchema)

// Canonical keys and the aliases the model is known to use for them, in
// order of preference.
var fieldAliases = []struct {
	canonical string
	aliases   []string
}{
	{"diagnosis", []string{"diagnosis", "diagnosisLabel", "diagnosis_label"}},
	{"causes", []string{"causes", "possibleCauses", "possible_causes"}},
	{"suggestions", []string{"suggestions", "recommendations"}},
	{"risk_level", []string{"risk_level", "riskLevel"}},
	{"followup_needed", []string{"followup_needed", "followupNeeded", "follow_up_needed"}},
	{"additional_notes", []string{"additional_notes", "additionalNotes"}},
}

// Extract locates the JSON object embedded in a completion and converts it
// into a Record. When no object is found, or it does not decode or validate,
// Extract returns DefaultRecord and ok=false. It never fails otherwise.
// The returned record's WellnessScore is left for the caller to assign.
func Extract(text string) (rec Record, ok bool) {
	doc, err := parseDocument(text)
	if err != nil {
		return DefaultRecord(), false
	}
	return fromDocument(doc), true
}

// Narrative strips the fenced JSON block from a completion, leaving the
// conversational part.
func Narrative(text string) string {
	return strings.TrimSpace(jsonFence.ReplaceAllString(text, ""))
}

func parseDocument(text string) (map[string]any, error) {
	raw := embeddedObject.FindString(text)
	if raw == "" {
		return nil, fmt.Errorf("no JSON object in completion")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("failed to decode embedded JSON: %w", err)
	}

	doc := normalizeDocument(obj)
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("embedded JSON does not match diagnosis schema: %w", err)
	}
	return doc, nil
}

// normalizeDocument maps aliases onto canonical keys, unwraps the
// {"value": ..., "description": ...} shape the system instruction asks for,
// and coerces loosely typed values the model commonly produces. The label is
// trimmed before validation so a blank one fails the schema.
func normalizeDocument(obj map[string]any) map[string]any {
	doc := make(map[string]any, len(fieldAliases))
	for _, f := range fieldAliases {
		for _, alias := range f.aliases {
			v, present := obj[alias]
			if !present || v == nil {
				continue
			}
			doc[f.canonical] = unwrapValue(v)
			break
		}
	}

	if s, isString := doc["diagnosis"].(string); isString {
		doc["diagnosis"] = strings.TrimSpace(s)
	}

	for _, key := range []string{"causes", "suggestions"} {
		if s, isString := doc[key].(string); isString {
			doc[key] = []any{s}
		}
	}

	risk := RiskUndetermined
	if s, isString := doc["risk_level"].(string); isString {
		if parsed, ok := ParseRiskLevel(s); ok {
			risk = parsed
		}
	}
	doc["risk_level"] = string(risk)

	if s, isString := doc["followup_needed"].(string); isString {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes":
			doc["followup_needed"] = true
		case "false", "no":
			doc["followup_needed"] = false
		}
	}

	return doc
}

func unwrapValue(v any) any {
	if m, isMap := v.(map[string]any); isMap {
		if inner, present := m["value"]; present {
			return inner
		}
	}
	return v
}

func fromDocument(doc map[string]any) Record {
	rec := Record{
		DiagnosisLabel: doc["diagnosis"].(string),
		RiskLevel:      RiskLevel(doc["risk_level"].(string)),
		Causes:         stringList(doc["causes"]),
		Suggestions:    stringList(doc["suggestions"]),
	}
	if b, isBool := doc["followup_needed"].(bool); isBool {
		rec.FollowupNeeded = b
	}
	if s, isString := doc["additional_notes"].(string); isString {
		rec.AdditionalNotes = s
	}
	return rec
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, isString := item.(string); isString && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
