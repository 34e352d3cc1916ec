package queue

import "encoding/json"

// FallbackAnswer is returned when a result payload has no recognized
// answer field.
const FallbackAnswer = "No answer received."

// answerFields is the fixed probe order. The first populated field wins,
// so a payload carrying both "answer" and "output" always displays
// "answer".
var answerFields = []string{"answer", "output", "message", "data"}

// Result is one completed job outcome: the display text resolved from
// the worker payload plus the raw payload for logging.
type Result struct {
	Answer string
	Raw    json.RawMessage
}

// ParseResult resolves the display text from a raw worker payload.
func ParseResult(raw []byte) Result {
	return Result{Answer: ExtractAnswer(raw), Raw: raw}
}

// ExtractAnswer probes the payload fields in priority order and returns
// the first populated one, or FallbackAnswer when none is. Non-string
// values are rendered as compact JSON.
func ExtractAnswer(raw []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		// A bare string result is used as-is.
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
		return FallbackAnswer
	}

	for _, field := range answerFields {
		v, ok := payload[field]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			if s == "" {
				continue
			}
			return s
		}
		if data, err := json.Marshal(v); err == nil && len(data) > 0 {
			return string(data)
		}
	}
	return FallbackAnswer
}
