package models

import "time"

// AssetRequest is an employee's request for equipment, tracked in the remote
// asset_requests table.
type AssetRequest struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	DeviceType    string     `json:"device_type" db:"device_type"`
	Justification string     `json:"justification,omitempty" db:"justification"`
	Status        string     `json:"status" db:"status"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
}

// Assignment links an asset to a user in the asset_assignments table.
type Assignment struct {
	ID         string     `json:"id" db:"id"`
	AssetID    string     `json:"asset_id" db:"asset_id"`
	UserID     string     `json:"user_id" db:"user_id"`
	AssignedAt time.Time  `json:"assigned_at" db:"assigned_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty" db:"returned_at"`
}

// AssetCreateRequest is the payload accepted for asset registration. Enum
// fields are validated against the closed sets before any remote write.
type AssetCreateRequest struct {
	DeviceType           string     `json:"device_type" binding:"required"`
	Brand                string     `json:"brand" binding:"required"`
	Model                string     `json:"model" binding:"required"`
	SerialNumber         string     `json:"serial_number" binding:"required"`
	Status               string     `json:"status"`
	AssignedTo           *string    `json:"assigned_to"`
	Location             string     `json:"location"`
	PurchasePrice        *float64   `json:"purchase_price"`
	PurchaseDate         *time.Time `json:"purchase_date"`
	WarrantyExpiry       *time.Time `json:"warranty_expiry"`
	ScheduledMaintenance *time.Time `json:"scheduled_maintenance"`
	Notes                string     `json:"notes"`
}

// AssetUpdateRequest is a sparse patch; nil fields are left untouched.
type AssetUpdateRequest struct {
	DeviceType           *string    `json:"device_type"`
	Brand                *string    `json:"brand"`
	Model                *string    `json:"model"`
	SerialNumber         *string    `json:"serial_number"`
	Status               *string    `json:"status"`
	AssignedTo           *string    `json:"assigned_to"`
	Location             *string    `json:"location"`
	PurchasePrice        *float64   `json:"purchase_price"`
	PurchaseDate         *time.Time `json:"purchase_date"`
	WarrantyExpiry       *time.Time `json:"warranty_expiry"`
	ScheduledMaintenance *time.Time `json:"scheduled_maintenance"`
	Notes                *string    `json:"notes"`
}

type AssignmentRequest struct {
	AssetID string `json:"asset_id" binding:"required"`
	UserID  string `json:"user_id" binding:"required"`
}
