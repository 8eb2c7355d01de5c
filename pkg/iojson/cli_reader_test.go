package iojson

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Title string `json:"title"`
	Time  string `json:"time"`
}

func TestFileReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"Write report","time":"09:25"}]`), 0o644))

	fr := &FileReader[[]entry]{path: path}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, []entry{{Title: "Write report", Time: "09:25"}}, got)
}

func TestFileReader_Stdin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stdin.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"title":"Lunch"}`), 0o644))

	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	fr := &FileReader[entry]{stdin: f}
	got, err := fr.Read()
	require.NoError(t, err)
	assert.Equal(t, "Lunch", got.Title)
}

func TestFileReader_Errors(t *testing.T) {
	_, err := (&FileReader[entry]{path: filepath.Join(t.TempDir(), "missing.json")}).Read()
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o644))
	_, err = (&FileReader[entry]{path: path}).Read()
	require.ErrorContains(t, err, "decode JSON")
}
