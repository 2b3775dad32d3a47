// Package scanflow resolves scanned QR payloads against the remote mirror
// and manages the user's local scan cache.
package scanflow

import (
	"time"

	"go.uber.org/zap"

	"assetdesk/internal/scancache"
	"assetdesk/internal/synccache"
	"assetdesk/pkg/metadata"
	"assetdesk/pkg/models"
	"assetdesk/pkg/qrtag"
)

type Service struct {
	cache  *synccache.Cache
	scans  *scancache.Cache
	logger *zap.Logger
	now    func() time.Time
}

func NewService(cache *synccache.Cache, scans *scancache.Cache, logger *zap.Logger) *Service {
	return &Service{
		cache:  cache,
		scans:  scans,
		logger: logger,
		now:    time.Now,
	}
}

// ScanResult is what the scanning UI renders: a real asset when the payload
// resolved remotely, otherwise a synthesized placeholder. A miss is a normal
// outcome, never an error.
type ScanResult struct {
	Asset    models.EnrichedAsset `json:"asset"`
	Found    bool                 `json:"found"`
	Identity qrtag.ScanIdentity   `json:"-"`
}

// Resolve classifies the payload first, then looks it up by the matching
// key: asset-id payloads by remote id, tag payloads by the stored qr_code
// value. Unrecognized payloads skip the lookup entirely.
func (s *Service) Resolve(payload string) ScanResult {
	identity := qrtag.Decode(payload)

	var asset models.EnrichedAsset
	var found bool
	switch identity.Kind {
	case qrtag.KindAssetID:
		asset, found = s.cache.AssetByID(identity.AssetID)
	case qrtag.KindTag:
		asset, found = s.cache.AssetByQRCode(identity.Tag)
	}

	if found {
		return ScanResult{Asset: asset, Found: true, Identity: identity}
	}
	return ScanResult{Asset: s.placeholder(payload), Found: false, Identity: identity}
}

// Commit stores a scanned asset in the user's local partition. The entry is
// local-only and is never written back to the remote store.
func (s *Service) Commit(userID string, asset models.EnrichedAsset) (models.LocalAsset, error) {
	return s.scans.Upsert(userID, asset, s.now().UTC())
}

func (s *Service) RemoveLocal(userID, localID string) error {
	return s.scans.Remove(userID, localID)
}

// MyAsset is one entry of the merged "my assets" view. Remote entries carry
// IsLocal = false and no scan metadata.
type MyAsset struct {
	models.EnrichedAsset
	IsLocal   bool       `json:"is_local"`
	LocalID   string     `json:"local_id,omitempty"`
	ScannedAt *time.Time `json:"scanned_at,omitempty"`
}

// ListMyAssets merges the remote assets assigned to the user with the user's
// local scan partition. Neither side is dropped; an asset present in both
// stores appears twice (no cross-store de-duplication).
func (s *Service) ListMyAssets(userID string) []MyAsset {
	remote := s.cache.AssetsAssignedTo(userID)
	local := s.scans.ListFor(userID)

	merged := make([]MyAsset, 0, len(remote)+len(local))
	for _, asset := range remote {
		merged = append(merged, MyAsset{EnrichedAsset: asset})
	}
	for _, entry := range local {
		scannedAt := entry.ScannedAt
		merged = append(merged, MyAsset{
			EnrichedAsset: entry.EnrichedAsset,
			IsLocal:       true,
			LocalID:       entry.LocalID,
			ScannedAt:     &scannedAt,
		})
	}
	return merged
}

// placeholder synthesizes the view for an asset the remote store does not
// know: category unknown, status active, the raw payload kept as both serial
// and QR payload so a later commit stays traceable to the scan.
func (s *Service) placeholder(payload string) models.EnrichedAsset {
	asset := models.Asset{
		DeviceType:   metadata.DeviceUnknown,
		SerialNumber: payload,
		Status:       metadata.StatusActive,
		QRCode:       payload,
	}

	return models.EnrichedAsset{
		Asset:    asset,
		Name:     "Unknown asset",
		Category: metadata.DeviceUnknown.String(),
		Assignee: models.AssigneeUnassigned,
	}
}
