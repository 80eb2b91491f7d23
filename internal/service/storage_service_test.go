package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"school_edu_backend/internal/config"
	"school_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func newLocalStorage(t *testing.T) (*StorageService, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: root}}
	s := NewStorageService(cfg)
	s.now = func() time.Time { return testEpoch }
	return s, root
}

func TestSaveQuestionImage_Local(t *testing.T) {
	s, root := newLocalStorage(t)

	path, err := s.SaveQuestionImage(context.Background(), "Diagram.PNG", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/mcq/202403/"), path)
	assert.True(t, strings.HasSuffix(path, ".png"), path)

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(path, "/uploads/"))))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestSaveQuestionImage_Rejects(t *testing.T) {
	s, _ := newLocalStorage(t)
	ctx := context.Background()

	_, err := s.SaveQuestionImage(ctx, "notes.txt", bytes.NewReader(pngHeader), int64(len(pngHeader)))
	assert.ErrorIs(t, err, util.ErrValidation)

	text := []byte("just some text pretending to be an image")
	_, err = s.SaveQuestionImage(ctx, "fake.png", bytes.NewReader(text), int64(len(text)))
	assert.ErrorIs(t, err, util.ErrValidation)

	_, err = s.SaveQuestionImage(ctx, "huge.png", bytes.NewReader(pngHeader), util.MaxImageSizeBytes+1)
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestNewStorageService_FallsBackToLocal(t *testing.T) {
	// 空 endpoint 初始化失败
	cfg := &config.Config{Storage: config.StorageConfig{Type: util.StorageMinio, LocalPath: t.TempDir()}}
	s := NewStorageService(cfg)
	_, ok := s.Store.(*LocalStore)
	assert.True(t, ok)
}
