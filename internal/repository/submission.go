package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"coursework_service/internal/domain"
)

const DefaultExtension = ".ipynb"

// SubmissionRepository keeps submission files in three directories. Inbox
// files live flat in the inbox; active and archive files live under a
// per-label subdirectory. Which directories hold a file is its state.
type SubmissionRepository struct {
	inboxDir   string
	activeDir  string
	archiveDir string
	ext        string
}

func NewSubmissionRepository(inboxDir, activeDir, archiveDir, ext string) *SubmissionRepository {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &SubmissionRepository{
		inboxDir:   inboxDir,
		activeDir:  activeDir,
		archiveDir: archiveDir,
		ext:        ext,
	}
}

// FileName is <student_id>-<label><ext>.
func (r *SubmissionRepository) FileName(studentID, label string) string {
	return studentID + "-" + label + r.ext
}

func (r *SubmissionRepository) Path(loc domain.Location, studentID, label string) (string, error) {
	if err := validateName("student id", studentID); err != nil {
		return "", err
	}
	if err := validateName("label", label); err != nil {
		return "", err
	}
	dir, err := r.dir(loc, label)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, r.FileName(studentID, label)), nil
}

func (r *SubmissionRepository) dir(loc domain.Location, label string) (string, error) {
	switch loc {
	case domain.LocationInbox:
		return r.inboxDir, nil
	case domain.LocationActive:
		return filepath.Join(r.activeDir, label), nil
	case domain.LocationArchive:
		return filepath.Join(r.archiveDir, label), nil
	default:
		return "", fmt.Errorf("location %q: %w", loc, ErrValidation)
	}
}

// Locate checks every location in one pass.
func (r *SubmissionRepository) Locate(studentID, label string) (domain.Presence, error) {
	var p domain.Presence
	for _, item := range []struct {
		loc domain.Location
		dst *bool
	}{
		{domain.LocationInbox, &p.Inbox},
		{domain.LocationActive, &p.Active},
		{domain.LocationArchive, &p.Archive},
	} {
		path, err := r.Path(item.loc, studentID, label)
		if err != nil {
			return domain.Presence{}, err
		}
		ok, err := exists(path)
		if err != nil {
			return domain.Presence{}, fmt.Errorf("failed to stat %s: %w", path, err)
		}
		*item.dst = ok
	}
	return p, nil
}

// Copy replaces the file at dst with the one at src. A missing source is a
// no-op.
func (r *SubmissionRepository) Copy(src, dst domain.Location, studentID, label string) error {
	srcPath, dstPath, err := r.paths(src, dst, studentID, label)
	if err != nil {
		return err
	}
	if err := copyFileAtomic(srcPath, dstPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("copy %s -> %s: %w", src, dst, err)
	}
	return nil
}

// Move is Copy followed by removal of the source. A missing source is a
// no-op.
func (r *SubmissionRepository) Move(src, dst domain.Location, studentID, label string) error {
	srcPath, dstPath, err := r.paths(src, dst, studentID, label)
	if err != nil {
		return err
	}
	ok, err := exists(srcPath)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", srcPath, err)
	}
	if !ok {
		return nil
	}
	if err := moveFile(srcPath, dstPath); err != nil {
		return fmt.Errorf("move %s -> %s: %w", src, dst, err)
	}
	return nil
}

func (r *SubmissionRepository) paths(src, dst domain.Location, studentID, label string) (string, string, error) {
	if src == dst {
		return "", "", fmt.Errorf("source and destination are both %s: %w", src, ErrValidation)
	}
	srcPath, err := r.Path(src, studentID, label)
	if err != nil {
		return "", "", err
	}
	dstPath, err := r.Path(dst, studentID, label)
	if err != nil {
		return "", "", err
	}
	return srcPath, dstPath, nil
}

func (r *SubmissionRepository) Read(loc domain.Location, studentID, label string) ([]byte, error) {
	path, err := r.Path(loc, studentID, label)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // repository path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (r *SubmissionRepository) Write(loc domain.Location, studentID, label string, data []byte) error {
	path, err := r.Path(loc, studentID, label)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// Remove deletes the file; a missing file is not an error.
func (r *SubmissionRepository) Remove(loc domain.Location, studentID, label string) error {
	path, err := r.Path(loc, studentID, label)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// List returns the sorted ids of students with a file for label at loc.
func (r *SubmissionRepository) List(label string, loc domain.Location) ([]string, error) {
	if err := validateName("label", label); err != nil {
		return nil, err
	}
	dir, err := r.dir(loc, label)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	suffix := "-" + label + r.ext
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, suffix) {
			continue
		}
		if id := strings.TrimSuffix(name, suffix); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func validateName(kind, name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("invalid %s %q: %w", kind, name, ErrValidation)
	}
	return nil
}
