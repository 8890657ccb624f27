package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/chat-widget/internal"
)

// JSONLExporter exports transcripts in JSONL format (one message per line,
// in the same shape the history is stored in)
type JSONLExporter struct{}

// Export exports a transcript to JSONL format
func (e *JSONLExporter) Export(transcript *internal.Transcript, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range transcript.Messages {
		if err := enc.Encode(msg); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
