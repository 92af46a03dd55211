package verification

import (
	"encoding/json"
	"errors"
	"strings"
)

// Keywords that flip the keyword-sniffing fallback to "verified" when the
// model answered in prose instead of JSON.
var outdoorKeywords = []string{"outdoor", "outside", "grass", "park"}

const reasonPrefixLen = 150

// interpretRoast returns the model text trimmed; no structure is expected.
func interpretRoast(raw string) string {
	return strings.TrimSpace(raw)
}

// interpretActivities splits the model text into an ordered activity list,
// stripping list markers and emphasis markup. Short lists are returned
// as-is; long lists are capped at limit.
func interpretActivities(raw string, limit int) []string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := stripListMarker(line)
		if clean == "" {
			continue
		}
		out = append(out, clean)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

func stripListMarker(line string) string {
	clean := strings.TrimSpace(line)
	clean = strings.TrimLeft(clean, "-*• \t")
	// Ordinal prefixes like "1." or "12)".
	i := 0
	for i < len(clean) && clean[i] >= '0' && clean[i] <= '9' {
		i++
	}
	if i > 0 && i < len(clean) && (clean[i] == '.' || clean[i] == ')') {
		clean = clean[i+1:]
	}
	clean = strings.ReplaceAll(clean, "**", "")
	clean = strings.Trim(clean, "*`")
	return strings.TrimSpace(clean)
}

// interpretVerdict converts free model text into a Verdict. Structured JSON
// wins; otherwise keyword sniffing guarantees a well-formed verdict, so the
// orchestrator never sees a parse failure.
func interpretVerdict(raw string) Verdict {
	cleaned := stripCodeFences(raw)
	if payload, ok := extractJSONObject(cleaned); ok {
		if verdict, err := decodeVerdict(payload, raw); err == nil {
			return verdict
		}
	}
	return keywordVerdict(raw)
}

func keywordVerdict(raw string) Verdict {
	lower := strings.ToLower(raw)
	verified := false
	for _, kw := range outdoorKeywords {
		if strings.Contains(lower, kw) {
			verified = true
			break
		}
	}
	message := "Hmm, this looks pretty indoor to me..."
	if verified {
		message = "Looks legit, grass detected!"
	}
	return Verdict{
		Verified:   verified,
		Confidence: "medium",
		Message:    message,
		Reasons:    []string{truncateReason(raw)},
		AIAnalysis: raw,
	}
}

func truncateReason(raw string) string {
	trimmed := strings.TrimSpace(raw)
	runes := []rune(trimmed)
	if len(runes) <= reasonPrefixLen {
		return trimmed
	}
	return string(runes[:reasonPrefixLen]) + "..."
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// extractJSONObject returns the first balanced {...} substring, tracking
// string literals and escapes so braces inside values do not miscount.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func decodeVerdict(payload, raw string) (Verdict, error) {
	var wire struct {
		Verified   *bool           `json:"verified"`
		Confidence string          `json:"confidence"`
		Message    string          `json:"message"`
		Reasons    json.RawMessage `json:"reasons"`
		AIAnalysis string          `json:"aiAnalysis"`
	}
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return Verdict{}, err
	}
	reasons, err := coerceStringArray(wire.Reasons)
	if err != nil {
		return Verdict{}, err
	}

	// An absent verified field is a rejection, not a parse failure;
	// keyword sniffing is reserved for text with no decodable object.
	verdict := Verdict{
		Verified:   wire.Verified != nil && *wire.Verified,
		Confidence: strings.TrimSpace(wire.Confidence),
		Message:    strings.TrimSpace(wire.Message),
		Reasons:    reasons,
		AIAnalysis: strings.TrimSpace(wire.AIAnalysis),
	}
	if verdict.Confidence == "" {
		verdict.Confidence = "medium"
	}
	if verdict.Message == "" {
		if verdict.Verified {
			verdict.Message = "Looks legit, grass detected!"
		} else {
			verdict.Message = "This looks pretty sus, probably indoors"
		}
	}
	if verdict.Reasons == nil {
		verdict.Reasons = []string{}
	}
	if verdict.AIAnalysis == "" {
		verdict.AIAnalysis = strings.TrimSpace(raw)
	}
	return verdict, nil
}

func coerceStringArray(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch raw[0] {
	case '"':
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, err
		}
		if strings.TrimSpace(single) == "" {
			return nil, nil
		}
		return []string{single}, nil
	case '[':
		var many []string
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, err
		}
		return many, nil
	default:
		return nil, errors.New("unsupported reasons format")
	}
}

// containsOutdoorToken reports whether the metadata-path model reply asserts
// "OUTDOOR". Note "INDOOR" does not match.
func containsOutdoorToken(text string) bool {
	return strings.Contains(strings.ToUpper(text), "OUTDOOR")
}
