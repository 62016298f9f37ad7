package domain

// CompletionRequest is a single-turn chat request sent to the remote language model.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}
