package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryStore_LoadMissingFile(t *testing.T) {
	store := NewHistoryStore(filepath.Join(t.TempDir(), "chat_history.json"))

	history, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, 0, history.Len())
}

func TestHistoryStore_AppendPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "chat_history.json")
	store := NewHistoryStore(path)

	require.NoError(t, store.Append("What is measured?", "Patents."))
	require.NoError(t, store.Append("Which data?", "USPTO."))

	reopened := NewHistoryStore(path)
	history, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"What is measured?", "Which data?"}, history.Questions)
	assert.Equal(t, []string{"Patents.", "USPTO."}, history.Answers)
	assert.Equal(t, path, reopened.Path())
}

func TestHistoryStore_FileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	store := NewHistoryStore(path)
	require.NoError(t, store.Append("q", "a"))

	data, err := os.ReadFile(path)

	require.NoError(t, err)
	assert.Equal(t, "{\n    \"questions\": [\n        \"q\"\n    ],\n    \"answers\": [\n        \"a\"\n    ]\n}", string(data))
}

func TestHistoryStore_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"questions": ["old q"], "answers": ["old a"]}`), 0600))
	store := NewHistoryStore(path)

	require.NoError(t, store.Append("new q", "new a"))

	history, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Q: old q\nA: old a\nQ: new q\nA: new a", history.Context())
}

func TestHistoryStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	store := NewHistoryStore(path)
	require.NoError(t, store.Append("q", "a"))

	require.NoError(t, store.Clear())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"questions": [], "answers": []}`, string(data))
}

func TestHistoryStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))
	store := NewHistoryStore(path)

	_, err := store.Load()
	assert.Error(t, err)
	assert.Error(t, store.Append("q", "a"), "a corrupt file is never overwritten")
}

func TestAnswerArchive_Save(t *testing.T) {
	dir := t.TempDir()
	archive := NewAnswerArchive(dir)
	archive.now = func() time.Time { return time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC) }

	first, err := archive.Save("first answer")
	require.NoError(t, err)
	second, err := archive.Save("second answer")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "chatgpt_response_20240517_093000.txt"), first)
	assert.Equal(t, filepath.Join(dir, "chatgpt_response_20240517_093000_2.txt"), second)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "first answer", string(data))
}
