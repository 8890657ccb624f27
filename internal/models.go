package internal

import (
	"encoding/json"
	"fmt"
)

// ParseHistory parses a serialized history blob stored under key.
// Every entry must pass Validate; a single bad entry rejects the whole blob.
func ParseHistory(key, value string) (History, error) {
	var history History
	if err := json.Unmarshal([]byte(value), &history); err != nil {
		return nil, &ParseError{Source: "storage", Key: key, Err: err}
	}

	for i, msg := range history {
		if err := msg.Validate(); err != nil {
			return nil, &ParseError{Source: "storage", Key: key, Err: fmt.Errorf("entry %d: %w", i, err)}
		}
	}

	if history == nil {
		history = History{}
	}
	return history, nil
}

// MarshalHistory serializes the full history for storage
func MarshalHistory(history History) (string, error) {
	if history == nil {
		history = History{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return "", fmt.Errorf("failed to marshal history: %w", err)
	}
	return string(data), nil
}
