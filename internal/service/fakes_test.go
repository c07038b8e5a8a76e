package service_test

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coursework_service/internal/catalog"
	"coursework_service/internal/domain"
	"coursework_service/internal/errdefs"
	"coursework_service/internal/roster"
	"coursework_service/internal/service"
)

var now = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

type fileKey struct {
	loc   domain.Location
	id    string
	label string
}

// memStore is an in-memory SubmissionStore.
type memStore struct {
	files  map[fileKey][]byte
	copies map[fileKey]int
	writes int
}

func newMemStore() *memStore {
	return &memStore{files: map[fileKey][]byte{}, copies: map[fileKey]int{}}
}

func (m *memStore) put(loc domain.Location, id, label string, data []byte) {
	m.files[fileKey{loc, id, label}] = append([]byte(nil), data...)
}

func (m *memStore) get(loc domain.Location, id, label string) ([]byte, bool) {
	data, ok := m.files[fileKey{loc, id, label}]
	return data, ok
}

func (m *memStore) Locate(id, label string) (domain.Presence, error) {
	_, inbox := m.get(domain.LocationInbox, id, label)
	_, active := m.get(domain.LocationActive, id, label)
	_, archive := m.get(domain.LocationArchive, id, label)
	return domain.Presence{Inbox: inbox, Active: active, Archive: archive}, nil
}

func (m *memStore) Copy(src, dst domain.Location, id, label string) error {
	data, ok := m.get(src, id, label)
	if !ok {
		return nil
	}
	m.put(dst, id, label, data)
	m.copies[fileKey{dst, id, label}]++
	return nil
}

func (m *memStore) Move(src, dst domain.Location, id, label string) error {
	data, ok := m.get(src, id, label)
	if !ok {
		return nil
	}
	m.put(dst, id, label, data)
	delete(m.files, fileKey{src, id, label})
	return nil
}

func (m *memStore) Read(loc domain.Location, id, label string) ([]byte, error) {
	data, ok := m.get(loc, id, label)
	if !ok {
		return nil, fmt.Errorf("%s/%s/%s: %w", loc, id, label, errdefs.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

func (m *memStore) Write(loc domain.Location, id, label string, data []byte) error {
	m.writes++
	m.put(loc, id, label, data)
	return nil
}

func (m *memStore) Remove(loc domain.Location, id, label string) error {
	delete(m.files, fileKey{loc, id, label})
	return nil
}

func (m *memStore) Path(loc domain.Location, id, label string) (string, error) {
	if loc == domain.LocationInbox {
		return "/" + string(loc) + "/" + m.FileName(id, label), nil
	}
	return "/" + string(loc) + "/" + label + "/" + m.FileName(id, label), nil
}

func (m *memStore) FileName(id, label string) string {
	return id + "-" + label + ".ipynb"
}

func (m *memStore) List(label string, loc domain.Location) ([]string, error) {
	var ids []string
	for k := range m.files {
		if k.loc == loc && k.label == label {
			ids = append(ids, k.id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// memStatus is an in-memory StatusStore.
type memStatus struct {
	markers map[string]domain.StatusMarker
}

func newMemStatus() *memStatus {
	return &memStatus{markers: map[string]domain.StatusMarker{}}
}

func (m *memStatus) Get(label string) (domain.StatusMarker, error) {
	return m.markers[label], nil
}

func (m *memStatus) MarkCollected(label string) (bool, error) {
	if m.markers[label] != domain.StatusAbsent {
		return false, nil
	}
	m.markers[label] = domain.StatusCollected
	return true, nil
}

func (m *memStatus) MarkReturned(label string) error {
	m.markers[label] = domain.StatusReturned
	return nil
}

type doc struct {
	grade    *float64
	returned string
	comments []string
}

// notebookJSON renders a minimal notebook with the given grading state.
func notebookJSON(t *testing.T, d doc) []byte {
	t.Helper()
	meta := map[string]any{"kernelspec": map[string]any{"name": "python3"}}
	if d.grade != nil {
		meta["grade"] = map[string]any{
			"technical":    *d.grade,
			"presentation": *d.grade,
			"overall":      *d.grade,
		}
	}
	if d.returned != "" {
		meta["returned"] = d.returned
	}
	cells := []any{map[string]any{"cell_type": "code", "metadata": map[string]any{}, "source": []string{"x = 1"}}}
	for _, c := range d.comments {
		cells = append(cells, map[string]any{
			"cell_type": "markdown",
			"metadata":  map[string]any{"type": "comment", "content": c},
			"source":    []string{},
		})
	}
	data, err := json.Marshal(map[string]any{"cells": cells, "metadata": meta, "nbformat": 4})
	require.NoError(t, err)
	return data
}

func ptr(v float64) *float64 { return &v }

func newCourse(t *testing.T, students []domain.Student, assignments []domain.Assignment, weights map[string]float64) service.Course {
	t.Helper()
	r, err := roster.New(students)
	require.NoError(t, err)
	c, err := catalog.New(assignments, weights)
	require.NoError(t, err)
	return service.Course{Roster: r, Catalog: c}
}

func student(id string) domain.Student {
	return domain.Student{ID: id, FirstName: "First-" + id, LastName: "Last", Email: id + "@uni.edu"}
}

var (
	pastDue   = now.Add(-72 * time.Hour)
	futureDue = now.Add(7 * 24 * time.Hour)
)

func defaultCourse(t *testing.T, ids ...string) service.Course {
	t.Helper()
	students := make([]domain.Student, 0, len(ids))
	for _, id := range ids {
		students = append(students, student(id))
	}
	return newCourse(t, students, []domain.Assignment{
		{Label: "hw01", DueDate: pastDue, Category: "homework", Points: 10, GraderID: "ta1"},
		{Label: "hw02", DueDate: futureDue, Category: "homework", Points: 10, GraderID: "ta2"},
	}, map[string]float64{"homework": 1})
}
