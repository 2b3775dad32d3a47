// Package orchestrator executes writes against the remote store and folds
// acknowledged results into the sync cache. Writes are confirm-then-merge:
// the mirror never holds a row the gateway has not acknowledged, and a failed
// write leaves it byte-for-byte unchanged.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"assetdesk/internal/activity"
	"assetdesk/internal/enrich"
	"assetdesk/internal/gateway"
	"assetdesk/internal/synccache"
	custom_error "assetdesk/pkg/errors"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"
	"assetdesk/pkg/qrtag"
)

type Service struct {
	gw       gateway.Gateway
	cache    *synccache.Cache
	recorder *activity.Recorder
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(gw gateway.Gateway, cache *synccache.Cache, recorder *activity.Recorder, logger *zap.Logger) *Service {
	return &Service{
		gw:       gw,
		cache:    cache,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateAsset registers an asset. Local validation is only the fast-fail;
// the remote store revalidates and its rejection surfaces unmodified.
func (s *Service) CreateAsset(ctx context.Context, req models.AssetCreateRequest) (models.EnrichedAsset, error) {
	asset, err := s.assetFromCreateRequest(req)
	if err != nil {
		return models.EnrichedAsset{}, err
	}

	inserted, err := s.gw.Insert(ctx, gateway.TableAssets, enrich.AssetToRow(asset))
	if err != nil {
		return models.EnrichedAsset{}, err
	}

	enriched, err := enrich.AssetFromRow(inserted)
	if err != nil {
		// The write is acknowledged; the next refresh will pick the row up.
		s.logger.Warn("created asset came back malformed", zap.Error(err))
		return models.EnrichedAsset{}, fmt.Errorf("asset registered but response unreadable: %w", err)
	}

	s.cache.PrependAsset(enriched)
	s.recorder.Record(ctx, "create", "asset",
		fmt.Sprintf("Registered %s (serial %s)", enriched.Name, enriched.SerialNumber),
		&enriched.ID, req.AssignedTo)

	return enriched, nil
}

// UpdateAsset applies a sparse patch to an asset and replaces the mirrored
// row with the acknowledged result.
func (s *Service) UpdateAsset(ctx context.Context, id string, req models.AssetUpdateRequest) (models.EnrichedAsset, error) {
	patch, err := s.patchFromUpdateRequest(req)
	if err != nil {
		return models.EnrichedAsset{}, err
	}

	updated, err := s.gw.Update(ctx, gateway.TableAssets, id, patch)
	if err != nil {
		return models.EnrichedAsset{}, err
	}

	enriched, err := enrich.AssetFromRow(updated)
	if err != nil {
		s.logger.Warn("updated asset came back malformed", zap.Error(err))
		return models.EnrichedAsset{}, fmt.Errorf("asset updated but response unreadable: %w", err)
	}

	s.cache.ReplaceAsset(enriched)
	s.recorder.Record(ctx, "update", "asset",
		fmt.Sprintf("Updated %s (serial %s)", enriched.Name, enriched.SerialNumber),
		&enriched.ID, nil)

	return enriched, nil
}

func (s *Service) DeleteAsset(ctx context.Context, id string) error {
	if err := s.gw.Delete(ctx, gateway.TableAssets, id); err != nil {
		return err
	}

	s.cache.RemoveAsset(id)
	s.recorder.Record(ctx, "delete", "asset", "Asset removed", &id, nil)
	return nil
}

// CreateAssignment is two dependent writes, not one transaction: the
// assignment row first, then the asset's assignee field. When the second
// write fails after the first succeeded, the acknowledged assignment is
// still merged and a PartialStepError surfaces so the caller can tell the
// user exactly what state they are in — a generic retry would duplicate the
// assignment record.
func (s *Service) CreateAssignment(ctx context.Context, req models.AssignmentRequest) (models.Assignment, error) {
	row := gateway.Row{
		"asset_id":    req.AssetID,
		"user_id":     req.UserID,
		"assigned_at": s.now().UTC().Format(time.RFC3339),
	}

	inserted, err := s.gw.Insert(ctx, gateway.TableAssignments, row)
	if err != nil {
		return models.Assignment{}, err
	}

	assignment, err := enrich.AssignmentFromRow(inserted)
	if err != nil {
		s.logger.Warn("created assignment came back malformed", zap.Error(err))
		return models.Assignment{}, fmt.Errorf("assignment recorded but response unreadable: %w", err)
	}
	s.cache.PrependAssignment(assignment)

	updated, err := s.gw.Update(ctx, gateway.TableAssets, req.AssetID, gateway.Row{
		"assigned_to": req.UserID,
		"updated_at":  s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return assignment, &custom_error.PartialStepError{
			Completed: "assignment record",
			Failed:    "asset assignee update",
			Cause:     err,
		}
	}

	if enriched, err := enrich.AssetFromRow(updated); err == nil {
		s.cache.ReplaceAsset(enriched)
	} else {
		s.logger.Warn("assigned asset came back malformed", zap.Error(err))
	}

	s.recorder.Record(ctx, "assign", "assignment",
		fmt.Sprintf("Assigned asset %s to %s", req.AssetID, req.UserID),
		&req.AssetID, &req.UserID)

	return assignment, nil
}

func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	updated, err := s.gw.Update(ctx, gateway.TableNotifications, id, gateway.Row{"read": true})
	if err != nil {
		return err
	}

	if notification, err := enrich.NotificationFromRow(updated); err == nil {
		s.cache.ReplaceNotification(notification)
	} else {
		s.logger.Warn("notification came back malformed", zap.Error(err))
	}
	return nil
}

func (s *Service) assetFromCreateRequest(req models.AssetCreateRequest) (models.Asset, error) {
	deviceType, err := metadata.NewDeviceType(req.DeviceType)
	if err != nil {
		return models.Asset{}, err
	}

	rawStatus := req.Status
	if rawStatus == "" {
		rawStatus = metadata.StatusActive.String()
	}
	status, err := metadata.NewStatus(rawStatus)
	if err != nil {
		return models.Asset{}, err
	}

	if req.SerialNumber == "" {
		return models.Asset{}, fmt.Errorf("serial number is required")
	}
	if req.Brand == "" || req.Model == "" {
		return models.Asset{}, fmt.Errorf("brand and model are required")
	}
	if req.PurchasePrice != nil && *req.PurchasePrice < 0 {
		return models.Asset{}, fmt.Errorf("purchase price must be non-negative")
	}

	return models.Asset{
		DeviceType:           deviceType,
		Brand:                req.Brand,
		Model:                req.Model,
		SerialNumber:         req.SerialNumber,
		Status:               status,
		AssignedTo:           req.AssignedTo,
		Location:             req.Location,
		PurchasePrice:        req.PurchasePrice,
		PurchaseDate:         req.PurchaseDate,
		WarrantyExpiry:       req.WarrantyExpiry,
		ScheduledMaintenance: req.ScheduledMaintenance,
		Notes:                req.Notes,
		QRCode:               qrtag.NewTag(),
	}, nil
}

func (s *Service) patchFromUpdateRequest(req models.AssetUpdateRequest) (gateway.Row, error) {
	patch := gateway.Row{}

	if req.DeviceType != nil {
		deviceType, err := metadata.NewDeviceType(*req.DeviceType)
		if err != nil {
			return nil, err
		}
		patch["device_type"] = deviceType.String()
	}
	if req.Status != nil {
		status, err := metadata.NewStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		patch["status"] = status.String()
	}
	if req.Brand != nil {
		patch["brand"] = *req.Brand
	}
	if req.Model != nil {
		patch["model"] = *req.Model
	}
	if req.SerialNumber != nil {
		patch["serial_number"] = *req.SerialNumber
	}
	if req.AssignedTo != nil {
		patch["assigned_to"] = *req.AssignedTo
	}
	if req.Location != nil {
		patch["location"] = *req.Location
	}
	if req.PurchasePrice != nil {
		if *req.PurchasePrice < 0 {
			return nil, fmt.Errorf("purchase price must be non-negative")
		}
		patch["purchase_price"] = *req.PurchasePrice
	}
	if req.PurchaseDate != nil {
		patch["purchase_date"] = req.PurchaseDate.UTC().Format(time.RFC3339)
	}
	if req.WarrantyExpiry != nil {
		patch["warranty_expiry"] = req.WarrantyExpiry.UTC().Format(time.RFC3339)
	}
	if req.ScheduledMaintenance != nil {
		patch["scheduled_maintenance"] = req.ScheduledMaintenance.UTC().Format(time.RFC3339)
	}
	if req.Notes != nil {
		patch["notes"] = *req.Notes
	}

	if len(patch) == 0 {
		return nil, fmt.Errorf("empty patch")
	}
	patch["updated_at"] = s.now().UTC().Format(time.RFC3339)
	return patch, nil
}
