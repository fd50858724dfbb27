package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyEmotionLabel   = errors.New("emotion label must not be empty")
	ErrScoreOutOfRange     = errors.New("emotion score must be between 0.0 and 1.0")
	ErrKeywordsMissing     = errors.New("keywords must not be empty when emotions are present")
	ErrEmptyMappingField   = errors.New("keyword mapping fields must not be empty")
	ErrMappingCountInvalid = errors.New("keyword mappings must contain between 3 and 5 entries")
	ErrEmptyPrompt         = errors.New("prompt must not be empty")
)

// EmotionScore is one entry of a report's emotion distribution.
type EmotionScore struct {
	Emotion string  `json:"emotion" jsonschema_description:"Name of the emotion, in the working language"`
	Score   float64 `json:"score" jsonschema_description:"Intensity of the emotion between 0.0 and 1.0"`
}

// DreamReport is the structured analysis of one dream. It is produced once
// per session by the report generator and is read-only afterwards.
type DreamReport struct {
	Emotions        []EmotionScore `json:"emotions" jsonschema_description:"Dominant emotions of the dream"`
	Keywords        []string       `json:"keywords" jsonschema_description:"Core keywords of the dream, in the working language"`
	AnalysisSummary string         `json:"analysis_summary" jsonschema_description:"Analysis summary of 2-4 sentences grounded in the reference passages, in the working language"`
}

// Validate checks the report against its schema contract. Generation output
// that fails validation must never be accepted as a report.
func (r *DreamReport) Validate() error {
	for i, e := range r.Emotions {
		if strings.TrimSpace(e.Emotion) == "" {
			return fmt.Errorf("emotion %d: %w", i, ErrEmptyEmotionLabel)
		}
		if e.Score < 0.0 || e.Score > 1.0 {
			return fmt.Errorf("emotion %d (%s): %w: %f", i, e.Emotion, ErrScoreOutOfRange, e.Score)
		}
	}
	if len(r.Emotions) > 0 && len(r.Keywords) == 0 {
		return ErrKeywordsMissing
	}
	return nil
}

// KeywordMapping records one directed substitution applied during
// reconstruction: a negative dream keyword and the positive symbol it was
// transformed into.
type KeywordMapping struct {
	Original    string `json:"original" jsonschema_description:"The original negative concept from the nightmare, in the working language"`
	Transformed string `json:"transformed" jsonschema_description:"The positive concept it was reframed into, in the working language"`
}

// Identity reports whether the mapping transformed nothing. The generation
// instructions forbid this but the schema does not hard-reject it.
func (m KeywordMapping) Identity() bool {
	return strings.TrimSpace(m.Original) == strings.TrimSpace(m.Transformed)
}

// ReconstructionResult bundles the positively reframed image prompt with a
// narrative summary of the transformation and full keyword provenance.
type ReconstructionResult struct {
	ReconstructedPrompt   string           `json:"reconstructed_prompt" jsonschema_description:"Final positively reconstructed image prompt, one paragraph in English"`
	TransformationSummary string           `json:"transformation_summary" jsonschema_description:"2-3 sentence summary of the transformation, in the working language"`
	KeywordMappings       []KeywordMapping `json:"keyword_mappings" jsonschema_description:"3 to 5 original-to-transformed keyword pairs"`
}

// Validate checks the reconstruction against its schema contract.
func (r *ReconstructionResult) Validate() error {
	if strings.TrimSpace(r.ReconstructedPrompt) == "" {
		return fmt.Errorf("reconstructed_prompt: %w", ErrEmptyPrompt)
	}
	if len(r.KeywordMappings) < 3 || len(r.KeywordMappings) > 5 {
		return fmt.Errorf("%w: got %d", ErrMappingCountInvalid, len(r.KeywordMappings))
	}
	for i, m := range r.KeywordMappings {
		if strings.TrimSpace(m.Original) == "" || strings.TrimSpace(m.Transformed) == "" {
			return fmt.Errorf("mapping %d: %w", i, ErrEmptyMappingField)
		}
	}
	return nil
}

// IdentityMappings returns the mappings where transformed == original.
// Callers may warn on these; they are not a validation failure.
func (r *ReconstructionResult) IdentityMappings() []KeywordMapping {
	var out []KeywordMapping
	for _, m := range r.KeywordMappings {
		if m.Identity() {
			out = append(out, m)
		}
	}
	return out
}
