package models

import (
	"time"

	"assetdesk/pkg/metadata"
)

// Asset is the canonical row shape owned by the remote store. The in-memory
// mirror only ever holds read-through copies of it.
type Asset struct {
	ID                   string              `json:"id" db:"id"`
	DeviceType           metadata.DeviceType `json:"device_type" db:"device_type"`
	Brand                string              `json:"brand" db:"brand"`
	Model                string              `json:"model" db:"model"`
	SerialNumber         string              `json:"serial_number" db:"serial_number"`
	Status               metadata.Status     `json:"status" db:"status"`
	AssignedTo           *string             `json:"assigned_to,omitempty" db:"assigned_to"`
	Location             string              `json:"location,omitempty" db:"location"`
	PurchasePrice        *float64            `json:"purchase_price,omitempty" db:"purchase_price"`
	PurchaseDate         *time.Time          `json:"purchase_date,omitempty" db:"purchase_date"`
	WarrantyExpiry       *time.Time          `json:"warranty_expiry,omitempty" db:"warranty_expiry"`
	ScheduledMaintenance *time.Time          `json:"scheduled_maintenance,omitempty" db:"scheduled_maintenance"`
	Notes                string              `json:"notes,omitempty" db:"notes"`
	QRCode               string              `json:"qr_code" db:"qr_code"`
	CreatedAt            time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt            *time.Time          `json:"updated_at,omitempty" db:"updated_at"`
}

// AssigneeUnassigned is the display sentinel used when an asset has no
// assignee reference.
const AssigneeUnassigned = "Unassigned"

// EnrichedAsset is the read model every screen consumes: the canonical row
// plus derived display fields. It is recomputed from the row on every refresh
// and never stored remotely.
type EnrichedAsset struct {
	Asset
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Assignee    string    `json:"assignee"`
	Value       float64   `json:"value"`
	LastUpdated time.Time `json:"last_updated"`
}

// LocalAsset is a browser-style shadow record: an asset the user scanned that
// is not a confirmed member of the remote "assigned to me" set. It lives only
// in this installation's scan cache and is never synchronized back.
type LocalAsset struct {
	EnrichedAsset
	IsLocal   bool      `json:"is_local"`
	LocalID   string    `json:"local_id"`
	ScannedAt time.Time `json:"scanned_at"`
}
