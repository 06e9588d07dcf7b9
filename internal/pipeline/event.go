package pipeline

import "encoding/json"

// SentinelToken is submitted when a trigger event carries no usable
// result token, as with periodic triggers. AWS Config requires some
// token string on every PutEvaluations call.
const SentinelToken = "No token"

// ResultToken extracts the correlation token from a raw trigger event.
// Absent or unparseable input degrades to SentinelToken.
func ResultToken(raw json.RawMessage) string {
	var event struct {
		ResultToken string `json:"resultToken"`
	}
	if err := json.Unmarshal(raw, &event); err != nil || event.ResultToken == "" {
		return SentinelToken
	}
	return event.ResultToken
}
