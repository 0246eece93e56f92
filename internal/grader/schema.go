package grader

import "github.com/lfreitas/redator/internal/llm"

// CorrectionSchema defines the JSON schema for LLM essay correction responses.
var CorrectionSchema = &llm.Schema{
	Name:        "essay-correction",
	Description: "A structured ENEM essay correction with per-competency scores and feedback",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"finalScore": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     1000,
				"description": "The overall essay score from 0 to 1000",
			},
			"competencies": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name": map[string]any{
							"type":        "string",
							"description": "The competency label, e.g. 'Competência 1'",
						},
						"score": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     200,
							"description": "The score for this competency from 0 to 200",
						},
						"feedback": map[string]any{
							"type":        "string",
							"description": "Detailed feedback on strengths and areas for improvement",
						},
					},
					"required":             []any{"name", "score", "feedback"},
					"additionalProperties": false,
				},
				"description": "Exactly 5 entries, one per official ENEM competency, in order",
			},
			"generalSuggestions": map[string]any{
				"type":        "string",
				"description": "Overall suggestions for improving the essay",
			},
			"theme": map[string]any{
				"type":        "string",
				"description": "The main theme of the essay, identified in one short phrase",
			},
		},
		"required":             []any{"finalScore", "competencies", "generalSuggestions", "theme"},
		"additionalProperties": false,
	},
}
