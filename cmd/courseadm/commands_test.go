package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const (
	rosterCSV   = "Student ID,First Name,Last Name\ns1,Ada,Lovelace\ns2,Alan,Turing\n"
	catalogYAML = `
categories:
  names: [homework]
  weights: [1]
assignments:
  - label: hw01
    due: "2020-01-01 00:00:00"
    category: homework
    points: 10
`
	graded   = `{"cells":[],"metadata":{"grade":{"technical":1,"presentation":0.5,"overall":0.75}},"nbformat":4,"nbformat_minor":5}`
	ungraded = `{"cells":[],"metadata":{},"nbformat":4,"nbformat_minor":5}`
)

type workspace struct {
	root   string
	config string
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	root := t.TempDir()
	write := func(rel, body string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	write("roster.csv", rosterCSV)
	write("catalog.yaml", catalogYAML)
	write("inbox/s1-hw01.ipynb", graded)
	write("inbox/s2-hw01.ipynb", ungraded)
	write("config.yaml", fmt.Sprintf(`
course:
  name: CHEM101
  email_domain: uni.edu
  roster_path: %[1]s/roster.csv
  catalog_path: %[1]s/catalog.yaml
storage:
  inbox_dir: %[1]s/inbox
  active_dir: %[1]s/assignments
  archive_dir: %[1]s/archive
returns:
  pacing: 0s
mail:
  backend: console
log:
  level: error
`, root))
	return &workspace{root: root, config: filepath.Join(root, "config.yaml")}
}

func (w *workspace) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", w.config}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCourseadm(t *testing.T) {
	ws := newWorkspace(t)

	out, err := ws.run(t, "collect", "hw01")
	require.NoError(t, err, out)
	assert.Contains(t, out, "status: Collected")
	assert.Contains(t, out, "GRADED")
	assert.Contains(t, out, "graded: 1")

	out, err = ws.run(t, "ungraded", "hw01", "-n", "0")
	require.NoError(t, err, out)
	assert.Contains(t, out, filepath.Join(ws.root, "assignments", "hw01", "s2-hw01.ipynb"))
	assert.NotContains(t, out, "s1-hw01")

	out, err = ws.run(t, "grades", "s1")
	require.NoError(t, err, out)
	assert.Contains(t, out, "overall: 0.750")

	out, err = ws.run(t, "return-all", "hw01")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 returned, 1 skipped")

	out, err = ws.run(t, "return", "hw01", "s1")
	assert.Error(t, err, out)

	out, err = ws.run(t, "return", "hw01", "s1", "--force")
	require.NoError(t, err, out)
	assert.Contains(t, out, "s1@uni.edu")

	out, err = ws.run(t, "overview")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Returned")
	assert.Contains(t, out, "returned")

	xlsx := filepath.Join(ws.root, "book.xlsx")
	out, err = ws.run(t, "gradebook", "--xlsx", xlsx)
	require.NoError(t, err, out)
	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Gradebook", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", v)
}

func TestCourseadmUnknownStudent(t *testing.T) {
	ws := newWorkspace(t)
	_, err := ws.run(t, "grades", "nobody")
	assert.Error(t, err)
}
