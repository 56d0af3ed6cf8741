package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	cryptoutil "paysheet/internal/platform/crypto"
)

// FileStore keeps generated report files on disk under uuid names. When an
// encryption key is configured the payload is sealed with AES-GCM and the
// file gets an .enc suffix; Load reverses whichever form it finds, so a key
// can be introduced without migrating existing files.
type FileStore struct {
	dir    string
	crypto *cryptoutil.Service
}

func NewFileStore(dir string, crypto *cryptoutil.Service) *FileStore {
	return &FileStore{dir: dir, crypto: crypto}
}

// Save writes the payload and returns its storage path.
func (fs *FileStore) Save(data []byte, ext string) (string, error) {
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	path := filepath.Join(fs.dir, uuid.NewString()+ext)
	if fs.crypto != nil && fs.crypto.Configured() {
		encrypted, err := fs.crypto.Encrypt(data)
		if err != nil {
			return "", fmt.Errorf("encrypt report: %w", err)
		}
		path += ".enc"
		if err := os.WriteFile(path, encrypted, 0o600); err != nil {
			return "", err
		}
		return path, nil
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads a stored payload back, decrypting if it was sealed.
func (fs *FileStore) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".enc") {
		if fs.crypto == nil || !fs.crypto.Configured() {
			return nil, fmt.Errorf("report %s is encrypted but no key is configured", filepath.Base(path))
		}
		return fs.crypto.Decrypt(data)
	}
	return data, nil
}

// Remove deletes a stored payload; a missing file is not an error.
func (fs *FileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
