package shred

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileshred_enterprise/internal/config"
)

func makeTree(t *testing.T, n int) (string, []string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))

	var files []string
	for i := 0; i < n; i++ {
		sub := dir
		if i%2 == 1 {
			sub = filepath.Join(dir, "nested")
		}
		path := filepath.Join(sub, fmt.Sprintf("file_%d.txt", i))
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("data", 100)), 0644))
		files = append(files, path)
	}
	return dir, files
}

func TestShredDirectory_DestroysAllFiles(t *testing.T) {
	dir, _ := makeTree(t, 4)

	e := testEngine(t)
	result := e.ShredDirectory(dir, false, nil, nil)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, 4, result.Files)
	assert.Contains(t, result.Message, "4")

	// Дерево убрано целиком
	_, err := os.Lstat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestShredDirectory_KeepPreservesTree(t *testing.T) {
	dir, files := makeTree(t, 3)

	e := testEngine(t)
	result := e.ShredDirectory(dir, true, nil, nil)

	require.True(t, result.Success, result.Message)

	// Дерево на месте, исходных имён нет
	_, err := os.Lstat(dir)
	require.NoError(t, err)

	for _, f := range files {
		_, err := os.Lstat(f)
		assert.True(t, os.IsNotExist(err), "исходное имя уцелело: %s", f)
	}
}

func TestShredDirectory_SkipsSymlinks(t *testing.T) {
	dir, _ := makeTree(t, 2)

	outside := filepath.Join(t.TempDir(), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("untouched"), 0644))
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "link.txt")))

	e := testEngine(t)
	result := e.ShredDirectory(dir, false, nil, nil)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, 2, result.Files)

	// Цель симлинка не тронута
	content, err := os.ReadFile(outside)
	require.NoError(t, err)
	assert.Equal(t, []byte("untouched"), content)
}

func TestShredDirectory_SkipsProtectedDescendants(t *testing.T) {
	dir, files := makeTree(t, 4) // 2 файла в корне, 2 в nested

	cfg := config.Default()
	cfg.Security.ProtectedPaths = []string{filepath.Join(dir, "nested")}
	e := NewEngine(cfg, testLogger(t))

	result := e.ShredDirectory(dir, true, nil, nil)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, 2, result.Files)

	// Файлы защищённого поддерева не тронуты: имена и содержимое на месте
	for _, f := range files {
		if !strings.Contains(f, "nested") {
			continue
		}
		content, err := os.ReadFile(f)
		require.NoError(t, err)
		assert.Equal(t, []byte(strings.Repeat("data", 100)), content)
	}

	// Файлы вне защищённого поддерева обработаны
	for _, f := range files {
		if strings.Contains(f, "nested") {
			continue
		}
		_, err := os.Lstat(f)
		assert.True(t, os.IsNotExist(err), "незащищённый файл уцелел: %s", f)
	}
}

func TestShredDirectory_Empty(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.MkdirAll(dir, 0755))

	e := testEngine(t)
	result := e.ShredDirectory(dir, false, nil, nil)

	// Не сбой, а пустой результат
	assert.False(t, result.Success)
	assert.False(t, result.Cancelled)
	require.ErrorIs(t, result.Err, ErrNoFilesFound)

	// Пустая директория не удаляется при пустом результате
	_, err := os.Lstat(dir)
	require.NoError(t, err)
}

func TestShredDirectory_NotADirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	e := testEngine(t)
	result := e.ShredDirectory(path, false, nil, nil)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestShredDirectory_ProgressMapsToFileIndex(t *testing.T) {
	dir, _ := makeTree(t, 3)

	maxStep := 0
	var sawFileStatus bool
	onProgress := func(current, total int, status string, bytes uint64) bool {
		assert.Equal(t, 3, total)
		if current > maxStep {
			maxStep = current
		}
		if strings.HasPrefix(status, "FILE ") {
			sawFileStatus = true
		}
		return true
	}

	e := testEngine(t)
	result := e.ShredDirectory(dir, false, onProgress, nil)

	require.True(t, result.Success, result.Message)
	assert.Equal(t, 3, maxStep)
	assert.True(t, sawFileStatus)
}

func TestShredDirectory_CancelStopsRun(t *testing.T) {
	dir, _ := makeTree(t, 5)

	token := NewCancellationToken()
	calls := 0
	onProgress := func(current, total int, status string, bytes uint64) bool {
		calls++
		if calls >= 10 {
			token.Cancel()
		}
		return true
	}

	e := testEngine(t)
	result := e.ShredDirectory(dir, false, onProgress, token)

	assert.False(t, result.Success)
	assert.True(t, result.Cancelled)
	require.ErrorIs(t, result.Err, ErrCancelled)

	// Отменённый прогон не удаляет дерево
	_, err := os.Lstat(dir)
	require.NoError(t, err)
}
