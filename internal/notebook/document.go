// Package notebook reads and writes the grading metadata embedded in a
// submitted notebook document. Everything it does not understand is kept
// as raw JSON and written back unchanged.
package notebook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
)

// TimestampLayout is used for turned-in and returned stamps.
const TimestampLayout = "2006-01-02 15:04:05.000000"

const (
	keyMetadata = "metadata"
	keyCells    = "cells"

	keyGrade          = "grade"
	keyTurnedIn       = "turned_in"
	keyReturned       = "returned"
	keyLegacyTurnedIn = "TURNED-IN"
	keyLegacyReturned = "RETURNED"

	cellTypeComment = "comment"
)

type Document struct {
	root map[string]json.RawMessage
	meta map[string]json.RawMessage

	metadata domain.Metadata
}

type turnedIn struct {
	Timestamp *string `json:"timestamp"`
}

type cell struct {
	Metadata json.RawMessage `json:"metadata"`
}

// Timestamp formats t the way stamps are stored in documents.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// ReadFile parses the document at path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path built by the repository
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ReadMetadata is ReadFile followed by Metadata.
func ReadMetadata(path string) (domain.Metadata, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return domain.Metadata{}, err
	}
	return doc.Metadata(), nil
}

func Parse(data []byte) (*Document, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid document: %v: %w", err, errdefs.ErrMalformed)
	}
	if root == nil {
		return nil, fmt.Errorf("document is null: %w", errdefs.ErrMalformed)
	}

	meta := make(map[string]json.RawMessage)
	if raw, ok := root[keyMetadata]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &meta); err != nil {
			return nil, fmt.Errorf("invalid metadata: %v: %w", err, errdefs.ErrMalformed)
		}
	}

	doc := &Document{root: root, meta: meta}
	if err := doc.decode(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (d *Document) decode() error {
	var md domain.Metadata

	if raw, ok := d.meta[keyGrade]; ok && !isNull(raw) {
		var g domain.Grade
		if err := json.Unmarshal(raw, &g); err != nil {
			return fmt.Errorf("invalid grade: %v: %w", err, errdefs.ErrMalformed)
		}
		for name, v := range map[string]*float64{
			"technical":    g.Technical,
			"presentation": g.Presentation,
			"overall":      g.Overall,
		} {
			if v != nil && (*v < 0 || *v > 1) {
				return fmt.Errorf("grade %s %v outside [0,1]: %w", name, *v, errdefs.ErrMalformed)
			}
		}
		if !g.IsEmpty() {
			md.Grade = &g
		}
	}

	ts, err := d.turnedIn()
	if err != nil {
		return err
	}
	md.TurnedIn = ts

	ret, err := d.returned()
	if err != nil {
		return err
	}
	md.Returned = ret

	comments, err := d.comments()
	if err != nil {
		return err
	}
	md.Comments = comments

	d.metadata = md
	return nil
}

func (d *Document) turnedIn() (*string, error) {
	for _, key := range []string{keyTurnedIn, keyLegacyTurnedIn} {
		raw, ok := d.meta[key]
		if !ok || isNull(raw) {
			continue
		}
		var ti turnedIn
		if err := json.Unmarshal(raw, &ti); err != nil {
			return nil, fmt.Errorf("invalid %s: %v: %w", key, err, errdefs.ErrMalformed)
		}
		if ti.Timestamp != nil {
			return ti.Timestamp, nil
		}
	}
	return nil, nil
}

func (d *Document) returned() (*string, error) {
	for _, key := range []string{keyReturned, keyLegacyReturned} {
		raw, ok := d.meta[key]
		if !ok || isNull(raw) {
			continue
		}
		var ts string
		if err := json.Unmarshal(raw, &ts); err != nil {
			return nil, fmt.Errorf("invalid %s: %v: %w", key, err, errdefs.ErrMalformed)
		}
		return &ts, nil
	}
	return nil, nil
}

// comments collects the content of every cell tagged type=comment, in
// document order. Cells are otherwise not inspected.
func (d *Document) comments() ([]string, error) {
	raw, ok := d.root[keyCells]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var cells []cell
	if err := json.Unmarshal(raw, &cells); err != nil {
		return nil, fmt.Errorf("invalid cells: %v: %w", err, errdefs.ErrMalformed)
	}

	var out []string
	for _, c := range cells {
		if len(c.Metadata) == 0 {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal(c.Metadata, &m); err != nil {
			continue
		}
		if t, _ := m["type"].(string); t != cellTypeComment {
			continue
		}
		switch content := m["content"].(type) {
		case nil:
			out = append(out, "")
		case string:
			out = append(out, content)
		default:
			out = append(out, fmt.Sprint(content))
		}
	}
	return out, nil
}

func (d *Document) Metadata() domain.Metadata {
	return d.metadata
}

func (d *Document) SetReturned(ts string) error {
	if err := d.set(keyReturned, ts); err != nil {
		return err
	}
	delete(d.meta, keyLegacyReturned)
	d.metadata.Returned = &ts
	return nil
}

func (d *Document) ClearReturned() {
	delete(d.meta, keyReturned)
	delete(d.meta, keyLegacyReturned)
	d.metadata.Returned = nil
}

func (d *Document) SetTurnedIn(ts string) error {
	if err := d.set(keyTurnedIn, turnedIn{Timestamp: &ts}); err != nil {
		return err
	}
	delete(d.meta, keyLegacyTurnedIn)
	d.metadata.TurnedIn = &ts
	return nil
}

func (d *Document) ClearTurnedIn() {
	delete(d.meta, keyTurnedIn)
	delete(d.meta, keyLegacyTurnedIn)
	d.metadata.TurnedIn = nil
}

func (d *Document) set(key string, v any) error {
	raw, err := marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	d.meta[key] = raw
	return nil
}

// Bytes encodes the document including any metadata changes.
func (d *Document) Bytes() ([]byte, error) {
	raw, err := marshal(d.meta)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	d.root[keyMetadata] = raw
	return marshal(d.root)
}

func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
