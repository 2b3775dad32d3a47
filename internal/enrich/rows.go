package enrich

import (
	"fmt"
	"strconv"
	"time"

	"assetdesk/internal/gateway"
	"assetdesk/pkg/models"
)

func RequestFromRow(row gateway.Row) (models.AssetRequest, error) {
	id := stringField(row, "id")
	if id == "" {
		return models.AssetRequest{}, fmt.Errorf("asset request row has no id: %v", row)
	}

	return models.AssetRequest{
		ID:            id,
		UserID:        stringField(row, "user_id"),
		DeviceType:    stringField(row, "device_type"),
		Justification: stringField(row, "justification"),
		Status:        stringField(row, "status"),
		CreatedAt:     timeField(row, "created_at"),
		ResolvedAt:    timePtrField(row, "resolved_at"),
	}, nil
}

func AssignmentFromRow(row gateway.Row) (models.Assignment, error) {
	id := stringField(row, "id")
	if id == "" {
		return models.Assignment{}, fmt.Errorf("assignment row has no id: %v", row)
	}

	return models.Assignment{
		ID:         id,
		AssetID:    stringField(row, "asset_id"),
		UserID:     stringField(row, "user_id"),
		AssignedAt: timeField(row, "assigned_at"),
		ReturnedAt: timePtrField(row, "returned_at"),
	}, nil
}

func NotificationFromRow(row gateway.Row) (models.Notification, error) {
	id := stringField(row, "id")
	if id == "" {
		return models.Notification{}, fmt.Errorf("notification row has no id: %v", row)
	}

	return models.Notification{
		ID:        id,
		Severity:  stringField(row, "severity"),
		Title:     stringField(row, "title"),
		Message:   stringField(row, "message"),
		Read:      boolField(row, "read"),
		AssetID:   stringPtrField(row, "asset_id"),
		UserID:    stringPtrField(row, "user_id"),
		CreatedAt: timeField(row, "created_at"),
	}, nil
}

func ActivityFromRow(row gateway.Row) (models.ActivityEntry, error) {
	id := stringField(row, "id")
	if id == "" {
		return models.ActivityEntry{}, fmt.Errorf("activity row has no id: %v", row)
	}

	return models.ActivityEntry{
		ID:        id,
		Action:    stringField(row, "action"),
		Details:   stringField(row, "details"),
		Type:      stringField(row, "type"),
		AssetID:   stringPtrField(row, "asset_id"),
		UserID:    stringPtrField(row, "user_id"),
		Timestamp: timeField(row, "timestamp"),
	}, nil
}

func stringField(row gateway.Row, key string) string {
	switch value := row[key].(type) {
	case string:
		return value
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", value)
	}
}

func stringPtrField(row gateway.Row, key string) *string {
	if row[key] == nil {
		return nil
	}
	s := stringField(row, key)
	if s == "" {
		return nil
	}
	return &s
}

func floatPtrField(row gateway.Row, key string) *float64 {
	switch value := row[key].(type) {
	case float64:
		return &value
	case int64:
		f := float64(value)
		return &f
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func boolField(row gateway.Row, key string) bool {
	switch value := row[key].(type) {
	case bool:
		return value
	case string:
		return value == "true" || value == "t"
	default:
		return false
	}
}

func timeField(row gateway.Row, key string) time.Time {
	if t := timePtrField(row, key); t != nil {
		return *t
	}
	return time.Time{}
}

func timePtrField(row gateway.Row, key string) *time.Time {
	raw, ok := row[key].(string)
	if !ok || raw == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
