package metrics

// TokenUsage captures LLM token counts used to satisfy a request.
type TokenUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens,omitempty"`
	TotalTokens      int `json:"totalTokens"`
}

// IsZero reports whether usage data is absent.
func (u TokenUsage) IsZero() bool {
	return u.PromptTokens == 0 && u.CompletionTokens == 0 && u.TotalTokens == 0
}

// NewTokenUsage returns nil when the upstream reported no usage so callers can omit it.
func NewTokenUsage(prompt, completion, total int) *TokenUsage {
	u := TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: total}
	if u.IsZero() {
		return nil
	}
	if u.TotalTokens == 0 {
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
	}
	return &u
}
