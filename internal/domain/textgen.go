package domain

import "context"

// TextGenerator defines the interface for the generative model client.
// Input is a single prompt string; output is a single text blob that
// should, but is not guaranteed to, contain one JSON document.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
