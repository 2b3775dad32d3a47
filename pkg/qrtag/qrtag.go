// Package qrtag encodes asset identities into scannable payloads and
// classifies scanned payloads back into lookup keys.
//
// Two identity schemes coexist on purpose. QR labels rendered for an existing
// asset embed the remote id under the "adt" namespace. Assets registered
// before a remote id exists carry an opaque "TAG-" code stored in their
// qr_code column instead. The decoder classifies a payload before any lookup
// happens; the namespace prefix takes precedence over the tag shape.
package qrtag

import (
	"strings"

	"github.com/google/uuid"
)

const (
	// Namespace marks a payload as an asset-id reference. It is never a
	// substring a human-entered serial number would start with.
	Namespace = "adt"

	tagPrefix = "TAG-"
)

type Kind int

const (
	KindUnrecognized Kind = iota
	KindAssetID
	KindTag
)

// ScanIdentity is the classified form of a scanned payload. Exactly one of
// AssetID or Tag is set, matching Kind.
type ScanIdentity struct {
	Kind    Kind
	AssetID string
	Tag     string
}

func (s ScanIdentity) Recognized() bool {
	return s.Kind != KindUnrecognized
}

// Encode produces the scannable payload for an asset's remote id.
func Encode(assetID string) string {
	return Namespace + ":" + assetID
}

// NewTag generates an opaque asset tag, unrelated to any remote id. Tags are
// written into the qr_code column at registration time and looked up by that
// column on scan.
func NewTag() string {
	return tagPrefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

// Decode classifies a scanned payload. A foreign or malformed payload yields
// KindUnrecognized, which is a normal outcome, not an error.
func Decode(payload string) ScanIdentity {
	payload = strings.TrimSpace(payload)

	if rest, ok := strings.CutPrefix(payload, Namespace+":"); ok {
		if rest == "" {
			return ScanIdentity{Kind: KindUnrecognized}
		}
		return ScanIdentity{Kind: KindAssetID, AssetID: rest}
	}

	if strings.HasPrefix(payload, tagPrefix) && len(payload) > len(tagPrefix) {
		return ScanIdentity{Kind: KindTag, Tag: payload}
	}

	return ScanIdentity{Kind: KindUnrecognized}
}
