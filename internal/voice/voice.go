// Package voice holds the speech boundaries of the service: audio in to
// text through a transcription model, text out to an audio file through
// a speech model. Both are thin clients; no audio processing happens here.
package voice

import (
	"context"
	"io"
)

// Transcriber converts recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// Synthesizer converts text into a playable audio file and returns the
// path it was written to.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}
