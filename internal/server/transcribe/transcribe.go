// Package transcribe turns recorded audio into text with per-word timings.
package transcribe

import "context"

// Word is a single recognized word with its position in the recording,
// in seconds from the start.
type Word struct {
	Word  string
	Start float64
	End   float64
}

type Result struct {
	Transcript string
	Words      []Word
}

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (*Result, error)
}
