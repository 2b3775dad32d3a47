package scancache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"assetdesk/pkg/models"
)

// Store persists the scan-cache document: one JSON object keyed by user id,
// each value that user's local asset partition. There is no schema version
// field; a format change requires a migration this layer does not provide.
type Store interface {
	Load() (map[string][]models.LocalAsset, error)
	Save(partitions map[string][]models.LocalAsset) error
}

// FileStore keeps the document in a single file under the user config
// directory, mirroring how a browser would hold it in one key-value entry.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "assetdesk", "scanned_assets.json")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Load() (map[string][]models.LocalAsset, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]models.LocalAsset{}, nil
		}
		return nil, err
	}

	partitions := map[string][]models.LocalAsset{}
	if err := json.Unmarshal(data, &partitions); err != nil {
		return nil, err
	}
	return partitions, nil
}

func (s *FileStore) Save(partitions map[string][]models.LocalAsset) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	data, err := json.Marshal(partitions)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
