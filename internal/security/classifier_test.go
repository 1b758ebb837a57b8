package security

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileshred_enterprise/internal/config"
)

func testClassifier(t *testing.T) *Classifier {
	t.Helper()
	return NewClassifier(config.Default())
}

func TestIsSensitivePath_Roots(t *testing.T) {
	c := testClassifier(t)

	assert.True(t, c.IsSensitivePath("/"))

	if runtime.GOOS == "windows" {
		assert.True(t, c.IsSensitivePath(`C:\`))
		assert.True(t, c.IsSensitivePath("D:"))
	}
}

func TestIsSensitivePath_SystemPrefixes(t *testing.T) {
	c := testClassifier(t)
	if c.goos == "windows" {
		t.Skip("юниксовый денилист")
	}

	for _, p := range []string{
		"/etc/passwd",
		"/usr/bin/ls",
		"/boot/vmlinuz",
		"/dev/sda",
		"/proc/1/cmdline",
		"/var/log/syslog",
	} {
		assert.True(t, c.IsSensitivePath(p), p)
	}
}

func TestIsSensitivePath_TempAllowed(t *testing.T) {
	c := testClassifier(t)

	path := filepath.Join(t.TempDir(), "scratch.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.False(t, c.IsSensitivePath(path))
}

func TestIsSensitivePath_HomeCarveOut(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	c := testClassifier(t)

	// Сама домашняя директория в денилисте остаётся запрещённой,
	// но её содержимое разрешено
	assert.False(t, c.IsSensitivePath(filepath.Join(home, "notes.txt")))
	assert.False(t, c.IsSensitivePath(filepath.Join(home, "docs", "cv.pdf")))
}

func TestIsSensitivePath_AdminExtensions(t *testing.T) {
	c := testClassifier(t)

	// Вне домашней директории административные расширения запрещены
	for _, ext := range []string{".sys", ".dll", ".msi", ".drv", ".efi"} {
		assert.True(t, c.IsSensitivePath("/tmp/payload"+ext), ext)
	}
	assert.False(t, c.IsSensitivePath("/tmp/payload.txt"))

	// Внутри домашней директории те же расширения разрешены
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.False(t, c.IsSensitivePath(filepath.Join(home, "old.dll")))
}

func TestIsSensitivePath_AdminExtensionsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Security.RefuseAdminExtensions = false
	c := NewClassifier(cfg)

	assert.False(t, c.IsSensitivePath("/tmp/payload.dll"))
}

func TestIsSensitivePath_ExtraProtected(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Security.ProtectedPaths = []string{dir}
	c := NewClassifier(cfg)

	assert.True(t, c.IsSensitivePath(dir))
	assert.True(t, c.IsSensitivePath(filepath.Join(dir, "inside.txt")))
	assert.False(t, c.IsSensitivePath(filepath.Join(t.TempDir(), "outside.txt")))
}

func TestIsSensitivePath_ExtraProtectedInsideHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Security.ProtectedPaths = []string{filepath.Join(home, "vault")}
	c := NewClassifier(cfg)

	// Защищённый путь внутри домашней директории закрывает и потомков
	assert.True(t, c.IsSensitivePath(filepath.Join(home, "vault")))
	assert.True(t, c.IsSensitivePath(filepath.Join(home, "vault", "keys.txt")))
	assert.True(t, c.IsSensitivePath(filepath.Join(home, "vault", "deep", "keys.txt")))

	// Соседние пути домашней директории остаются разрешёнными
	assert.False(t, c.IsSensitivePath(filepath.Join(home, "vault2", "keys.txt")))
	assert.False(t, c.IsSensitivePath(filepath.Join(home, "notes.txt")))
}

func TestValidateTarget_Missing(t *testing.T) {
	c := testClassifier(t)
	err := c.ValidateTarget(filepath.Join(t.TempDir(), "ghost"), false)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestValidateTarget_Symlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0644))
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	c := testClassifier(t)
	err := c.ValidateTarget(link, false)
	require.ErrorIs(t, err, ErrSymlinkUnsupported)
}

func TestValidateTarget_KindMismatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	c := testClassifier(t)

	// Файл вместо директории и директория вместо файла
	require.ErrorIs(t, c.ValidateTarget(file, true), ErrNotADirectory)
	require.ErrorIs(t, c.ValidateTarget(dir, false), ErrNotAFile)
}

func TestValidateTarget_SystemPath(t *testing.T) {
	c := testClassifier(t)
	if c.goos == "windows" {
		t.Skip("юниксовый денилист")
	}

	err := c.ValidateTarget("/etc/hostname", false)
	require.ErrorIs(t, err, ErrSystemPathRefused)
}

func TestValidateTarget_OK(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ok.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	c := testClassifier(t)
	require.NoError(t, c.ValidateTarget(path, false))
	require.NoError(t, c.ValidateTarget(filepath.Dir(path), true))
}

func TestCheck(t *testing.T) {
	c := testClassifier(t)

	path := filepath.Join(t.TempDir(), "ok.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	ok, msg := c.Check(path)
	assert.True(t, ok, msg)
	assert.NotEmpty(t, msg)

	ok, msg = c.Check(filepath.Join(t.TempDir(), "ghost"))
	assert.False(t, ok)
	assert.Equal(t, "путь не существует", msg)

	ok, msg = c.Check("/")
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}
