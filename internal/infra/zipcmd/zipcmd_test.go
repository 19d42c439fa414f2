//go:build unix

package zipcmd

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func requireZip(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("zip"); err != nil {
		t.Skip("zip не установлен")
	}
}

func setupPhotos(t *testing.T) string {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "abc", "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "abc", "x.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "abc", "nested", "y.txt"), []byte("world"), 0644))
	return root
}

func unzipFiles(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		files[f.Name] = string(content)
	}
	return files
}

func TestZipArchiver_Start_Success(t *testing.T) {
	requireZip(t)
	root := setupPhotos(t)

	archiver := New(zaptest.NewLogger(t), "zip", nil)
	proc, err := archiver.Start(context.Background(), root, "abc")
	require.NoError(t, err)
	assert.NotZero(t, proc.Pid())

	data, err := io.ReadAll(proc)
	require.NoError(t, err)
	require.NoError(t, proc.Close())

	want := map[string]string{
		"abc/x.txt":        "hello",
		"abc/nested/y.txt": "world",
	}
	if diff := cmp.Diff(want, unzipFiles(t, data)); diff != "" {
		t.Errorf("содержимое архива отличается (-want +got):\n%s", diff)
	}
}

func TestZipArchiver_Start_BinaryNotFound(t *testing.T) {
	archiver := New(zaptest.NewLogger(t), "definitely-not-a-zip-binary", nil)

	_, err := archiver.Start(context.Background(), t.TempDir(), "abc")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBinaryNotFound)
}

func TestZipArchiver_Start_ContextDone(t *testing.T) {
	archiver := New(zaptest.NewLogger(t), "zip", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := archiver.Start(ctx, t.TempDir(), "abc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcess_Close_KillsRunningProcess(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh не установлен")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "slowzip")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexec sleep 30\n"), 0755))

	archiver := New(zaptest.NewLogger(t), script, nil)
	proc, err := archiver.Start(context.Background(), dir, "abc")
	require.NoError(t, err)

	pid := proc.Pid()
	start := time.Now()
	closeErr := proc.Close()
	assert.Less(t, time.Since(start), 5*time.Second)

	var exitErr *exec.ExitError
	assert.True(t, errors.As(closeErr, &exitErr), "ожидалась ошибка завершения по сигналу: %v", closeErr)

	assert.ErrorIs(t, syscall.Kill(pid, 0), syscall.ESRCH)
	assert.Equal(t, closeErr, proc.Close())
}

func TestProcess_Close_AfterEOFKeepsExitStatus(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh не установлен")
	}

	dir := t.TempDir()
	script := filepath.Join(dir, "fastzip")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nprintf data\n"), 0755))

	archiver := New(zaptest.NewLogger(t), script, nil)
	proc, err := archiver.Start(context.Background(), dir, "abc")
	require.NoError(t, err)

	data, err := io.ReadAll(proc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
	assert.NoError(t, proc.Close())
}
