package core

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/events.json
var defaultEventsJSON []byte

// DefaultEvents returns a fresh copy of the bundled dataset used when nothing
// has been persisted yet, or when the persisted blob cannot be read.
func DefaultEvents() ([]Event, error) {
	var events []Event

	err := json.Unmarshal(defaultEventsJSON, &events)
	if err != nil {
		return nil, fmt.Errorf("failed to decode default events: %w", err)
	}

	return events, nil
}
