package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds carried on the sync queue.
const (
	EventEntryRecorded = "entry_recorded"
	EventEntryDeleted  = "entry_deleted"
)

// EntryEventMessage is a lightweight pointer to a ledger entry; the
// worker fetches the full row from storage when it needs it.
type EntryEventMessage struct {
	Event       string    `json:"event"`
	EntryID     string    `json:"entry_id"`
	WorkspaceID string    `json:"workspace_id"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEntryRecorded creates a message announcing a freshly stored entry.
func NewEntryRecorded(entryID, workspaceID string) *EntryEventMessage {
	return &EntryEventMessage{
		Event:       EventEntryRecorded,
		EntryID:     entryID,
		WorkspaceID: workspaceID,
		Timestamp:   time.Now(),
	}
}

// NewEntryDeleted creates a message announcing a removed entry.
func NewEntryDeleted(entryID, workspaceID string) *EntryEventMessage {
	return &EntryEventMessage{
		Event:       EventEntryDeleted,
		EntryID:     entryID,
		WorkspaceID: workspaceID,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EntryEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EntryEventFromJSON creates a message from JSON bytes
func EntryEventFromJSON(data []byte) (*EntryEventMessage, error) {
	var msg EntryEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
