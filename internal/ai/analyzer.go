package ai

import (
	"context"
	"encoding/json"
	"fmt"
)

// Input caps applied before sending; larger documents are truncated rather
// than rejected.
const (
	maxAnalysisChars    = 120000
	maxSuggestionsChars = 80000
	maxAnswerChars      = 60000
)

const analysisSystemPrompt = `You are a document analysis assistant. Analyze the given document and return ONLY valid JSON.
First, detect the document type (e.g. CV/resume, report, article, legal document, invoice, letter, etc.).

Always include these top-level keys:
- doc_type (string: detected document type)
- language (string: detected document language)
- summary (string: brief summary of the document)
- key_points (list of strings: main takeaways)
- sections (list of {title, content}: document sections you identified)
- entities (list of {type, value}: people, organizations, locations, etc.)
- dates (list of strings)
- numbers (list of {label, value}: monetary amounts, statistics, etc.)
- action_items (list of strings, if applicable)

Rules:
- Output must be valid JSON.
- Do NOT include a "suggestions" key. Suggestions are handled separately.
- Adapt your extraction to the actual document type. Do not force CV fields onto non-CV documents.`

const suggestionsSystemPrompt = `You are a professional document reviewer. Read the entire document carefully and provide an overall quality assessment.

Return ONLY valid JSON:
{
  "suggestions": ["suggestion 1", "suggestion 2", ...]
}

Rules:
- Return 3 to 5 suggestions as plain strings (NOT objects).
- Each suggestion should be a single, clear sentence about how to improve the OVERALL document.
- Evaluate the document holistically: overall clarity, readability, structure, tone, completeness, and presentation quality.
- Do NOT give section-by-section or field-by-field advice.
- Do NOT suggest adding specific sections, links, URLs, or templates.
- Suggestions must be specific to THIS document's actual content and quality.
- If the document is already high quality, say so and give fewer suggestions.
- English only.`

const answerSystemPrompt = `You answer questions about a document using ONLY the provided context excerpts.
If the context does not contain the answer, say that you cannot find it in the document. Do not make up facts.
Answer in the language the question was asked in.`

// Analyze sends the full document text for structured analysis and returns
// both the verbatim response and the parsed object. Any "suggestions" the
// model volunteers here are discarded; the dedicated call owns that field.
func (c *Client) Analyze(ctx context.Context, text string) (string, map[string]any, error) {
	raw, err := c.complete(ctx, []ChatMessage{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: truncate(text, maxAnalysisChars)},
	}, completeOptions{Temperature: 0.2, MaxTokens: 2000, JSONObject: true})
	if err != nil {
		return "", nil, fmt.Errorf("analysis call failed: %w", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return "", nil, fmt.Errorf("parse analysis json failed: %w", err)
	}
	delete(parsed, "suggestions")

	return raw, parsed, nil
}

// Suggest asks for 3-5 holistic improvement suggestions. Callers treat any
// failure here as "no suggestions"; it never fails a job.
func (c *Client) Suggest(ctx context.Context, text string) ([]string, error) {
	raw, err := c.complete(ctx, []ChatMessage{
		{Role: "system", Content: suggestionsSystemPrompt},
		{Role: "user", Content: truncate(text, maxSuggestionsChars)},
	}, completeOptions{Temperature: 0.3, MaxTokens: 1200, JSONObject: true})
	if err != nil {
		return nil, fmt.Errorf("suggestions call failed: %w", err)
	}

	var parsed struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse suggestions json failed: %w", err)
	}
	return parsed.Suggestions, nil
}

// Answer responds to a question from retrieved context only.
func (c *Client) Answer(ctx context.Context, question, contextText string) (string, error) {
	user := fmt.Sprintf("Context:\n%s\n\nQuestion: %s\n\nAnswer:",
		truncate(contextText, maxAnswerChars), question)

	answer, err := c.complete(ctx, []ChatMessage{
		{Role: "system", Content: answerSystemPrompt},
		{Role: "user", Content: user},
	}, completeOptions{Temperature: 0.2, MaxTokens: 800})
	if err != nil {
		return "", fmt.Errorf("answer call failed: %w", err)
	}
	return answer, nil
}
