package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
)

const statusFileName = "STATUS"

// StatusRepository stores one marker file per label under the active
// directory.
type StatusRepository struct {
	activeDir string
}

func NewStatusRepository(activeDir string) *StatusRepository {
	return &StatusRepository{activeDir: activeDir}
}

func (r *StatusRepository) path(label string) (string, error) {
	if err := validateName("label", label); err != nil {
		return "", err
	}
	return filepath.Join(r.activeDir, label, statusFileName), nil
}

func (r *StatusRepository) Get(label string) (domain.StatusMarker, error) {
	path, err := r.path(label)
	if err != nil {
		return domain.StatusAbsent, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // repository path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.StatusAbsent, nil
		}
		return domain.StatusAbsent, fmt.Errorf("failed to read %s: %w", path, err)
	}
	marker := domain.ToStatusMarker(strings.TrimSpace(string(data)))
	if !marker.IsValid() {
		return domain.StatusAbsent, fmt.Errorf("%s: unexpected status %q: %w", path, data, errdefs.ErrMalformed)
	}
	return marker, nil
}

// MarkCollected writes Collected only when no marker exists yet. It reports
// whether a marker was written.
func (r *StatusRepository) MarkCollected(label string) (bool, error) {
	current, err := r.Get(label)
	if err != nil {
		return false, err
	}
	if current != domain.StatusAbsent {
		return false, nil
	}
	return true, r.write(label, domain.StatusCollected)
}

func (r *StatusRepository) MarkReturned(label string) error {
	return r.write(label, domain.StatusReturned)
}

func (r *StatusRepository) write(label string, marker domain.StatusMarker) error {
	path, err := r.path(label)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, []byte(marker))
}
