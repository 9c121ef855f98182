package service

import "context"

// AIService is the opaque text-completion capability: one prompt in, one
// answer out. Failures of any flavor (timeout, quota, malformed prompt)
// surface as a single error wrapped with types.ErrCompletion.
type AIService interface {
	Chat(ctx context.Context, prompt string) (string, error)
}
