package service

import (
	"fmt"
	"strings"

	"github.com/dawnlab-io/dreamweave/internal/domain"
)

// Generation instructions for the three pipeline calls. The %s slots take
// the configured working language for report-facing text; image prompts are
// always English for the image provider.

const reportInstructionsTemplate = `You are an AI dream analyst who is an expert in imagery rehearsal therapy and dream symbolism.
Your task is to analyze the user's dream by referring to the provided reference passages.
Base the report on BOTH the dream text and the reference passages.
The analysis_summary MUST be grounded in insights from the reference passages whenever any are provided.
All parts of the report (emotions, keywords, summary) MUST be written in %s.`

const nightmareInstructions = `You are a prompt artist specializing in psychological horror and dark surrealism. Your task is to translate the user's nightmare into a terrifying, atmospheric, and visually striking image prompt in English.

Your prompt MUST visualize the central elements and the terrifying, oppressive, or disturbing feelings described in the user's dream and captured by the identified keywords and emotions. Do NOT substitute generic or unrelated themes; stay with the specific dream provided.

Describe the nightmare's visual elements vividly: lighting, shadows, colors, and textures that build the scene's dread. Create a strong sense of the dream's predominant negative emotion.

Safety: while creating a terrifying image, you must adhere to safety policies. NEVER depict literal self-harm, gore, or extreme violence. Represent fear and pain metaphorically and psychologically.

The final output must be a single, detailed paragraph in English, suitable for direct use by an image generation model.`

const reconstructionInstructionsTemplate = `You are a wise and empathetic dream therapist. The most important task is to transform the negative identified keywords into positive visual symbols of peace, healing, and hope.

You must produce three things:
1. reconstructed_prompt: a single-paragraph English image prompt in which every identified keyword has been reframed into a positive symbol.
2. transformation_summary: a 2-3 sentence summary of the transformation, written in %s.
3. keyword_mappings: 3 to 5 pairs mapping each original keyword to the positive concept it became. A transformed value must never simply repeat the original.`

// synthesisInput renders the shared analysis block consumed by both
// synthesizer operations.
func synthesisInput(dreamText string, report *domain.DreamReport) string {
	var sb strings.Builder
	sb.WriteString("[User's Dream Text]\n")
	sb.WriteString(dreamText)
	sb.WriteString("\n\n[Identified Keywords]\n")
	sb.WriteString(formatKeywords(report))
	sb.WriteString("\n\n[Emotion Breakdown]\n")
	sb.WriteString(formatEmotions(report))
	return sb.String()
}

func formatKeywords(report *domain.DreamReport) string {
	if len(report.Keywords) == 0 {
		return "No specific keywords provided."
	}
	return strings.Join(report.Keywords, ", ")
}

func formatEmotions(report *domain.DreamReport) string {
	if len(report.Emotions) == 0 {
		return "No specific emotions detected."
	}
	parts := make([]string, 0, len(report.Emotions))
	for _, e := range report.Emotions {
		parts = append(parts, fmt.Sprintf("%s: %d%%", e.Emotion, int(e.Score*100)))
	}
	return strings.Join(parts, "; ")
}
