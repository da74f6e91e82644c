package models

import "time"

// Checkpoint is a serialized live session kept for crash recovery.
type Checkpoint struct {
	ItemID  string    `json:"item_id"`
	Data    []byte    `json:"data"`
	SavedAt time.Time `json:"saved_at"`
}
