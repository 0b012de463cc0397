package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON_CreatesParentAndTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis", "report.json")

	require.NoError(t, WriteJSON(path, map[string]int{"total": 3}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"total\": 3\n}\n", string(data))
}

func TestWriteJSON_ReplacesExistingAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.json")

	require.NoError(t, WriteJSON(path, map[string]string{"v": "one"}))
	require.NoError(t, WriteJSON(path, map[string]string{"v": "two"}))

	var got map[string]string
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, "two", got["v"])

	// No staging temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.json", entries[0].Name())
}

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "final_report.txt")
	content := "REPORT\n======\ndone\n"

	require.NoError(t, WriteText(path, content))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestReadJSON_Errors(t *testing.T) {
	dir := t.TempDir()

	var v map[string]string
	err := ReadJSON(filepath.Join(dir, "absent.json"), &v)
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{nope"), 0o644))
	err = ReadJSON(bad, &v)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "bad.json"))
}
