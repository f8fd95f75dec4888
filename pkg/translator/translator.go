package translator

import (
	"context"
	"fmt"
)

// ChunkTranslator is the capability the scheduler drives: chunk splitting
// plus one remote call per chunk. Implemented by GoogleClient and by the
// Identity passthrough.
type ChunkTranslator interface {
	// Split partitions text into chunks that fit the backend's payload
	// limit. Concatenating the chunks in order yields the input unchanged.
	Split(text string) []string

	// TranslateChunk translates a single chunk, blocking through retries
	// and backoff sleeps. The context cancels retry waits and in-flight
	// requests.
	TranslateChunk(ctx context.Context, text string) (string, error)
}

// TranslationError reports a chunk whose retries were exhausted. Sibling
// chunks of the same chapter are unaffected; the caller decides whether a
// partial chapter is fatal.
type TranslationError struct {
	ChunkIndex int
	Cause      error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translation failed for chunk %d: %v", e.ChunkIndex, e.Cause)
}

func (e *TranslationError) Unwrap() error { return e.Cause }

// Identity returns chunks untouched. Used for passthrough delivery when
// translation is disabled, so ordered release is a single code path.
type Identity struct{}

func (Identity) Split(text string) []string {
	if text == "" {
		return nil
	}
	return []string{text}
}

func (Identity) TranslateChunk(_ context.Context, text string) (string, error) {
	return text, nil
}
