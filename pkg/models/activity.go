package models

import "time"

// ActivityEntry is an immutable append-only record of a successful write.
// Entries are created by the mutation layer only; the UI reads them back
// capped to a recent window.
type ActivityEntry struct {
	ID        string    `json:"id" db:"id"`
	Action    string    `json:"action" db:"action"`
	Details   string    `json:"details" db:"details"`
	Type      string    `json:"type" db:"type"`
	AssetID   *string   `json:"asset_id,omitempty" db:"asset_id"`
	UserID    *string   `json:"user_id,omitempty" db:"user_id"`
	Timestamp time.Time `json:"timestamp" db:"timestamp"`
}

type Notification struct {
	ID        string    `json:"id" db:"id"`
	Severity  string    `json:"severity" db:"severity"`
	Title     string    `json:"title" db:"title"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	AssetID   *string   `json:"asset_id,omitempty" db:"asset_id"`
	UserID    *string   `json:"user_id,omitempty" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
