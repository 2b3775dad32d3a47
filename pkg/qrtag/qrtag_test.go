package qrtag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name     string
		assetID  string
		expected string
	}{
		{
			name:     "Basic Case",
			assetID:  "7c2e1a90",
			expected: "adt:7c2e1a90",
		},
		{
			name:     "UUID Identifier",
			assetID:  "550e8400-e29b-41d4-a716-446655440000",
			expected: "adt:550e8400-e29b-41d4-a716-446655440000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Encode(tt.assetID))
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected ScanIdentity
	}{
		{
			name:     "Asset Reference",
			payload:  "adt:abc-123",
			expected: ScanIdentity{Kind: KindAssetID, AssetID: "abc-123"},
		},
		{
			name:     "Asset Reference With Whitespace",
			payload:  "  adt:abc-123\n",
			expected: ScanIdentity{Kind: KindAssetID, AssetID: "abc-123"},
		},
		{
			name:     "Stored Tag",
			payload:  "TAG-9F2C01AB44",
			expected: ScanIdentity{Kind: KindTag, Tag: "TAG-9F2C01AB44"},
		},
		{
			name:     "Empty Namespace Payload",
			payload:  "adt:",
			expected: ScanIdentity{Kind: KindUnrecognized},
		},
		{
			name:     "Bare Tag Prefix",
			payload:  "TAG-",
			expected: ScanIdentity{Kind: KindUnrecognized},
		},
		{
			name:     "Human Entered Serial",
			payload:  "SN-0042-XYZ",
			expected: ScanIdentity{Kind: KindUnrecognized},
		},
		{
			name:     "Foreign QR Code",
			payload:  "https://example.com/menu",
			expected: ScanIdentity{Kind: KindUnrecognized},
		},
		{
			name:     "Empty Payload",
			payload:  "",
			expected: ScanIdentity{Kind: KindUnrecognized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := Decode(tt.payload)
			assert.Equal(t, tt.expected, actual)
			assert.Equal(t, tt.expected.Kind != KindUnrecognized, actual.Recognized())
		})
	}
}

func TestNewTag(t *testing.T) {
	first := NewTag()
	second := NewTag()

	assert.True(t, strings.HasPrefix(first, "TAG-"))
	assert.NotEqual(t, first, second)

	// A generated tag must classify as a tag, never as an asset reference.
	decoded := Decode(first)
	assert.Equal(t, KindTag, decoded.Kind)
	assert.Equal(t, first, decoded.Tag)
}
