package fs

import (
	"errors"
	"io"
	iofs "io/fs"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

// Hasher computes content digests used to detect unchanged output.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// ComputeFileHash computes the XXHash of a file's content.
func (h *Hasher) ComputeFileHash(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to open file"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, zerr.With(zerr.Wrap(err, "failed to hash file content"), "path", path)
	}

	return hasher.Sum64(), nil
}

// ComputeHash computes the XXHash of data.
func (h *Hasher) ComputeHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Matches reports whether the file at path exists and holds exactly data.
func (h *Hasher) Matches(path string, data []byte) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, "failed to stat file"), "path", path)
	}
	if !info.Mode().IsRegular() || info.Size() != int64(len(data)) {
		return false, nil
	}

	existing, err := h.ComputeFileHash(path)
	if err != nil {
		return false, err
	}
	return existing == h.ComputeHash(data), nil
}
