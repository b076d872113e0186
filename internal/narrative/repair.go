package narrative

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)
	bareKeyRe       = regexp.MustCompile(`([{,]\s*)(\w+)\s*:`)
)

// extractJSON pulls a JSON object out of generator text, tolerating markdown
// code fences, surrounding prose, and common syntax slips (single quotes,
// trailing commas, unquoted keys).
func extractJSON(text string, v any) error {
	cleaned := stripCodeFences(strings.TrimSpace(text))

	if err := json.Unmarshal([]byte(cleaned), v); err == nil {
		return nil
	}

	candidate := balancedObject(cleaned)
	if candidate == "" {
		return ErrMalformedResponse
	}

	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}

	repaired := strings.ReplaceAll(candidate, "'", `"`)
	repaired = trailingCommaRe.ReplaceAllString(repaired, "$1")
	repaired = bareKeyRe.ReplaceAllString(repaired, `$1"$2":`)
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return ErrMalformedResponse
	}
	return nil
}

func stripCodeFences(text string) string {
	if idx := strings.Index(text, "```json"); idx >= 0 {
		text = text[idx+len("```json"):]
		if end := strings.Index(text, "```"); end >= 0 {
			text = text[:end]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	return strings.TrimSpace(text)
}

// balancedObject returns the first brace-balanced object in the text.
func balancedObject(text string) string {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
