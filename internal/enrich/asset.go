// Package enrich projects raw gateway rows into the read models the UI
// consumes. Every code path where a row enters the system goes through it, so
// nothing downstream can observe a non-enriched row.
package enrich

import (
	"fmt"
	"strings"

	"assetdesk/internal/gateway"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"
)

// Enrich derives the display fields from a canonical asset. It is a pure
// projection: same row in, same view model out, no clock, no fetches.
func Enrich(asset models.Asset) models.EnrichedAsset {
	enriched := models.EnrichedAsset{
		Asset:    asset,
		Name:     strings.TrimSpace(asset.Brand + " " + asset.Model),
		Category: asset.DeviceType.String(),
		Assignee: models.AssigneeUnassigned,
	}

	if asset.AssignedTo != nil && *asset.AssignedTo != "" {
		enriched.Assignee = *asset.AssignedTo
	}
	if asset.PurchasePrice != nil {
		enriched.Value = *asset.PurchasePrice
	}
	enriched.LastUpdated = asset.CreatedAt
	if asset.UpdatedAt != nil {
		enriched.LastUpdated = *asset.UpdatedAt
	}

	return enriched
}

// AssetFromRow maps a flat gateway row onto the canonical asset shape and
// enriches it. Optional fields default rather than fail; a row without an id
// is the only fatal shape.
func AssetFromRow(row gateway.Row) (models.EnrichedAsset, error) {
	id := stringField(row, "id")
	if id == "" {
		return models.EnrichedAsset{}, fmt.Errorf("asset row has no id: %v", row)
	}

	asset := models.Asset{
		ID:                   id,
		DeviceType:           metadata.DeviceType(stringField(row, "device_type")),
		Brand:                stringField(row, "brand"),
		Model:                stringField(row, "model"),
		SerialNumber:         stringField(row, "serial_number"),
		Status:               metadata.Status(stringField(row, "status")),
		AssignedTo:           stringPtrField(row, "assigned_to"),
		Location:             stringField(row, "location"),
		PurchasePrice:        floatPtrField(row, "purchase_price"),
		PurchaseDate:         timePtrField(row, "purchase_date"),
		WarrantyExpiry:       timePtrField(row, "warranty_expiry"),
		ScheduledMaintenance: timePtrField(row, "scheduled_maintenance"),
		Notes:                stringField(row, "notes"),
		QRCode:               stringField(row, "qr_code"),
		CreatedAt:            timeField(row, "created_at"),
		UpdatedAt:            timePtrField(row, "updated_at"),
	}

	return Enrich(asset), nil
}

// AssetToRow flattens a canonical asset into the gateway's row shape, id and
// remote-owned timestamps excluded.
func AssetToRow(asset models.Asset) gateway.Row {
	row := gateway.Row{
		"device_type":   asset.DeviceType.String(),
		"brand":         asset.Brand,
		"model":         asset.Model,
		"serial_number": asset.SerialNumber,
		"status":        asset.Status.String(),
		"location":      asset.Location,
		"notes":         asset.Notes,
		"qr_code":       asset.QRCode,
	}

	if asset.AssignedTo != nil {
		row["assigned_to"] = *asset.AssignedTo
	}
	if asset.PurchasePrice != nil {
		row["purchase_price"] = *asset.PurchasePrice
	}
	if asset.PurchaseDate != nil {
		row["purchase_date"] = formatTime(*asset.PurchaseDate)
	}
	if asset.WarrantyExpiry != nil {
		row["warranty_expiry"] = formatTime(*asset.WarrantyExpiry)
	}
	if asset.ScheduledMaintenance != nil {
		row["scheduled_maintenance"] = formatTime(*asset.ScheduledMaintenance)
	}

	return row
}
