package llm

import "context"

// Runner is the narrow contract this core needs from the external LLM
// agent runtime: one prompt in, one free-text response out. No streaming.
type Runner interface {
	Run(ctx context.Context, prompt string) (string, error)
}

// PromptInput carries everything a prompt tier may embed.
type PromptInput struct {
	DocumentText string // full pre-extracted text, may be empty
	FilePath     string // used as a read-the-file hint when text is empty
}
