package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sermo/internal/models"
)

// fakeFileMeta keeps metadata records in memory
type fakeFileMeta struct {
	records map[string]*models.SessionFiles
}

func newFakeFileMeta() *fakeFileMeta {
	return &fakeFileMeta{records: make(map[string]*models.SessionFiles)}
}

func (f *fakeFileMeta) Get(sessionID string) (*models.SessionFiles, error) {
	if files, ok := f.records[sessionID]; ok {
		return files, nil
	}
	return &models.SessionFiles{SessionID: sessionID, Files: make(map[string]models.FileMetadata)}, nil
}

func (f *fakeFileMeta) Put(files *models.SessionFiles) error {
	f.records[files.SessionID] = files
	return nil
}

func (f *fakeFileMeta) DeleteFile(sessionID, filename string) error {
	if files, ok := f.records[sessionID]; ok {
		delete(files.Files, filename)
	}
	return nil
}

func (f *fakeFileMeta) DeleteAll(sessionID string) error {
	delete(f.records, sessionID)
	return nil
}

// passthroughExtractor reads .txt files verbatim and rejects the rest
type passthroughExtractor struct{}

func (passthroughExtractor) CanExtract(filename string) bool {
	return strings.HasSuffix(filename, ".txt")
}

func (passthroughExtractor) Extract(ctx context.Context, path string) (string, error) {
	if !strings.HasSuffix(path, ".txt") {
		return "", fmt.Errorf("unsupported file %s", path)
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func newTestStore(t *testing.T) (*Store, *fakeFileMeta) {
	t.Helper()
	fileMeta := newFakeFileMeta()
	store := NewStore(t.TempDir(), 64, fileMeta, passthroughExtractor{}, arbor.NewLogger())
	return store, fileMeta
}

func TestStore_SaveUpload(t *testing.T) {
	t.Run("persists the file and records origin", func(t *testing.T) {
		store, fileMeta := newTestStore(t)

		meta, err := store.SaveUpload("ses_1", "notes.txt", strings.NewReader("hello"), 5)

		require.NoError(t, err)
		assert.Equal(t, "notes.txt", meta.Name)
		assert.Equal(t, models.OriginUpload, meta.Origin)
		assert.Equal(t, int64(5), meta.Size)

		files, err := fileMeta.Get("ses_1")
		require.NoError(t, err)
		assert.Equal(t, models.OriginUpload, files.Files["notes.txt"].Origin)

		hasDocs, err := store.HasDocuments("ses_1")
		require.NoError(t, err)
		assert.True(t, hasDocs)
	})

	t.Run("rejects files over the declared cap", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.SaveUpload("ses_1", "big.txt", strings.NewReader("x"), 1000)

		assert.ErrorIs(t, err, models.ErrTooLarge)
	})

	t.Run("rejects streams that exceed the cap despite a small declared size", func(t *testing.T) {
		store, _ := newTestStore(t)
		payload := strings.Repeat("x", 200)

		_, err := store.SaveUpload("ses_1", "liar.txt", strings.NewReader(payload), 10)

		assert.ErrorIs(t, err, models.ErrTooLarge)

		hasDocs, err := store.HasDocuments("ses_1")
		require.NoError(t, err)
		assert.False(t, hasDocs, "partial file must not survive")
	})

	t.Run("strips directory components from filenames", func(t *testing.T) {
		store, _ := newTestStore(t)

		meta, err := store.SaveUpload("ses_1", "../../etc/passwd.txt", strings.NewReader("x"), 1)

		require.NoError(t, err)
		assert.Equal(t, "passwd.txt", meta.Name)
	})

	t.Run("rejects unusable filenames", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.SaveUpload("ses_1", "..", strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, models.ErrInvalidInput)

		_, err = store.SaveUpload("ses_1", "  ", strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})
}

func TestStore_List(t *testing.T) {
	t.Run("empty session lists nothing", func(t *testing.T) {
		store, _ := newTestStore(t)

		metas, err := store.List("ses_none")

		require.NoError(t, err)
		assert.Empty(t, metas)
	})

	t.Run("hides ocr companions and flags their owner", func(t *testing.T) {
		store, _ := newTestStore(t)
		_, err := store.SaveUpload("ses_1", "scan.png", strings.NewReader("binary"), 6)
		require.NoError(t, err)

		companion := filepath.Join(store.sessionDir("ses_1"), "scan.png"+models.OCRSuffix)
		require.NoError(t, os.WriteFile(companion, []byte("recognized text"), 0644))

		metas, err := store.List("ses_1")

		require.NoError(t, err)
		require.Len(t, metas, 1)
		assert.Equal(t, "scan.png", metas[0].Name)
		assert.True(t, metas[0].OCRProcessed)
		assert.True(t, metas[0].IsImage)
	})

	t.Run("surfaces scrape origin metadata", func(t *testing.T) {
		store, _ := newTestStore(t)
		err := store.SaveScraped("ses_1", "example.com_20260101.md", "URL: https://example.com\n\ncontent", models.FileMetadata{
			Origin:    models.OriginWebpage,
			SourceURL: "https://example.com",
		})
		require.NoError(t, err)

		metas, err := store.List("ses_1")

		require.NoError(t, err)
		require.Len(t, metas, 1)
		assert.Equal(t, models.OriginWebpage, metas[0].Origin)
		assert.Equal(t, "https://example.com", metas[0].SourceURL)
	})
}

func TestStore_ReadAllText(t *testing.T) {
	t.Run("extracts supported files and skips the rest", func(t *testing.T) {
		store, _ := newTestStore(t)
		_, err := store.SaveUpload("ses_1", "a.txt", strings.NewReader("alpha"), 5)
		require.NoError(t, err)
		_, err = store.SaveUpload("ses_1", "b.bin", strings.NewReader("junk"), 4)
		require.NoError(t, err)

		texts, err := store.ReadAllText(context.Background(), "ses_1")

		require.NoError(t, err)
		require.Len(t, texts, 1)
		assert.Equal(t, "a.txt", texts[0].Name)
		assert.Equal(t, "alpha", texts[0].Text)
	})

	t.Run("images read through their ocr companion", func(t *testing.T) {
		store, _ := newTestStore(t)
		_, err := store.SaveUpload("ses_1", "scan.jpg", strings.NewReader("binary"), 6)
		require.NoError(t, err)
		_, err = store.SaveUpload("ses_1", "bare.jpg", strings.NewReader("binary"), 6)
		require.NoError(t, err)

		companion := filepath.Join(store.sessionDir("ses_1"), "scan.jpg"+models.OCRSuffix)
		require.NoError(t, os.WriteFile(companion, []byte("text from the scan"), 0644))

		texts, err := store.ReadAllText(context.Background(), "ses_1")

		require.NoError(t, err)
		require.Len(t, texts, 1, "image without companion is skipped")
		assert.Equal(t, "scan.jpg", texts[0].Name)
		assert.Equal(t, "text from the scan", texts[0].Text)
	})
}

func TestStore_DeleteFile(t *testing.T) {
	t.Run("removes file, companion and metadata", func(t *testing.T) {
		store, fileMeta := newTestStore(t)
		_, err := store.SaveUpload("ses_1", "scan.png", strings.NewReader("binary"), 6)
		require.NoError(t, err)
		companion := filepath.Join(store.sessionDir("ses_1"), "scan.png"+models.OCRSuffix)
		require.NoError(t, os.WriteFile(companion, []byte("ocr"), 0644))

		require.NoError(t, store.DeleteFile("ses_1", "scan.png"))

		hasDocs, err := store.HasDocuments("ses_1")
		require.NoError(t, err)
		assert.False(t, hasDocs)
		_, statErr := os.Stat(companion)
		assert.True(t, os.IsNotExist(statErr))

		files, err := fileMeta.Get("ses_1")
		require.NoError(t, err)
		assert.NotContains(t, files.Files, "scan.png")
	})

	t.Run("missing file is not found", func(t *testing.T) {
		store, _ := newTestStore(t)

		err := store.DeleteFile("ses_1", "ghost.txt")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestStore_DeleteAll(t *testing.T) {
	store, fileMeta := newTestStore(t)
	_, err := store.SaveUpload("ses_1", "a.txt", strings.NewReader("alpha"), 5)
	require.NoError(t, err)

	require.NoError(t, store.DeleteAll("ses_1"))

	hasDocs, err := store.HasDocuments("ses_1")
	require.NoError(t, err)
	assert.False(t, hasDocs)
	assert.NotContains(t, fileMeta.records, "ses_1")
}
