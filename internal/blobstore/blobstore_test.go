package blobstore

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndRelease(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	blob, err := store.Put(strings.NewReader("%PDF-1.4 fake"), "pan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", blob.MimeType)
	assert.Equal(t, int64(13), blob.Size)
	assert.FileExists(t, blob.Path)
	assert.Equal(t, 1, store.Held())

	store.Release(blob.Path)
	assert.NoFileExists(t, blob.Path)
	assert.Equal(t, 0, store.Held())

	// double release is harmless
	store.Release(blob.Path)
}

func TestPutRejectsUnsupportedType(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(strings.NewReader("#!/bin/sh"), "script.sh")
	assert.Error(t, err)
	assert.Equal(t, 0, store.Held())
}

func TestPurge(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := store.Put(strings.NewReader("fake image bytes"), "photo.png")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Held())

	store.Purge()
	assert.Equal(t, 0, store.Held())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
