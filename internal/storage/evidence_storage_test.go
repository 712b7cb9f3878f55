package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestEvidenceStorage_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewEvidenceStorage(root, 1)
	require.NoError(t, err)

	disputeID := uuid.New()
	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 1024)...)

	ref, size, err := s.Save(context.Background(), disputeID, "../../screen.png", bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.Contains(t, ref, disputeID.String()+"/")
	assert.NotContains(t, ref, "..")

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(ref)))
	require.NoError(t, err)
	assert.Equal(t, content, stored)

	require.NoError(t, s.Delete(context.Background(), ref))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(ref)))
	assert.True(t, os.IsNotExist(err))
}

func TestEvidenceStorage_RejectsUnknownAndMismatched(t *testing.T) {
	s, err := NewEvidenceStorage(t.TempDir(), 1)
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = s.Save(ctx, uuid.New(), "notes.txt", bytes.NewReader([]byte("просто текст без сигнатуры")))
	assert.True(t, apperror.IsValidation(err))

	_, _, err = s.Save(ctx, uuid.New(), "report.pdf", bytes.NewReader(pngHeader))
	assert.True(t, apperror.IsValidation(err))

	_, _, err = s.Save(ctx, uuid.New(), "empty.png", bytes.NewReader(nil))
	assert.True(t, apperror.IsValidation(err))
}

func TestEvidenceStorage_SizeLimit(t *testing.T) {
	s, err := NewEvidenceStorage(t.TempDir(), 1)
	require.NoError(t, err)

	big := append(append([]byte{}, pngHeader...), make([]byte, 1024*1024)...)
	_, _, err = s.Save(context.Background(), uuid.New(), "big.png", bytes.NewReader(big))
	assert.True(t, apperror.IsValidation(err))
}

func TestDetectType(t *testing.T) {
	mime, err := DetectType([]byte("%PDF-1.7\n%âãÏÓ"), "claim.PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)

	mime, err = DetectType([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0, 0x10, 'J', 'F', 'I', 'F'}, "photo.jpeg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
}
