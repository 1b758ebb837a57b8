package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"fileshred_enterprise/internal/config"
)

// Ошибки валидации цели
var (
	ErrNotFound           = errors.New("цель не существует")
	ErrSymlinkUnsupported = errors.New("символические ссылки не поддерживаются")
	ErrSystemPathRefused  = errors.New("отказ: системный путь")
	ErrNotAFile           = errors.New("цель не является файлом")
	ErrNotADirectory      = errors.New("цель не является директорией")
)

// Критичные системные пути. Сравнение по префиксу нормализованного пути
// (нижний регистр, прямые слэши).
var windowsSensitivePrefixes = []string{
	"c:/windows/", "c:/program files/", "c:/program files (x86)/",
	"c:/programdata/", "c:/system32/",
	"c:/$windows.~bt/", "c:/$windows.~ws/",
	"c:/boot/", "c:/recovery/", "c:/system volume information/",
	"c:/config.msi/", "c:/pagefile.sys", "c:/hiberfil.sys",
	"c:/swapfile.sys", "c:/windows.old/",
	"//./", // raw devices (\\.\PhysicalDrive0 и т.п.)
}

var unixSensitivePrefixes = []string{
	"/bin/", "/sbin/", "/etc/", "/usr/", "/var/", "/sys/",
	"/proc/", "/dev/", "/lib/", "/lib64/", "/boot/", "/root/",
	"/opt/", "/mnt/", "/media/", "/lost+found/", "/initrd",
	"/vmlinuz", "/system/", "/library/", "/applications/",
}

// Расширения административных файлов, запрещённые вне домашней директории
var adminExtensions = map[string]bool{
	".sys": true,
	".dll": true,
	".msi": true,
	".drv": true,
	".efi": true,
}

var volumeRootRe = regexp.MustCompile(`^[a-z]:/?$`)

// Classifier решает, допустим ли путь для уничтожения
type Classifier struct {
	home           string
	extraProtected []string
	refuseAdminExt bool
	goos           string
}

// NewClassifier создаёт классификатор с учётом конфигурации
func NewClassifier(cfg *config.Config) *Classifier {
	c := &Classifier{
		refuseAdminExt: cfg.Security.RefuseAdminExtensions,
		goos:           runtime.GOOS,
	}

	if home, err := os.UserHomeDir(); err == nil {
		c.home = normalizePath(home)
	}

	for _, p := range cfg.Security.ProtectedPaths {
		c.extraProtected = append(c.extraProtected, normalizePath(p))
	}

	return c
}

// normalizePath приводит путь к виду для сравнения: абсолютный,
// нижний регистр, прямые слэши
func normalizePath(path string) string {
	return strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
}

// IsSensitivePath возвращает true, если путь запрещено уничтожать.
// Любая ошибка разрешения пути трактуется как запрет (fail closed).
func (c *Classifier) IsSensitivePath(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return true
	}
	norm := normalizePath(abs)

	// Корень файловой системы или тома - всегда запрещён
	if norm == "/" || volumeRootRe.MatchString(norm) {
		return true
	}

	prefixes := unixSensitivePrefixes
	if c.goos == "windows" {
		prefixes = windowsSensitivePrefixes
	}

	// Точное совпадение с записью денилиста запрещено даже внутри
	// домашней директории
	for _, p := range prefixes {
		if norm == strings.TrimSuffix(p, "/") {
			return true
		}
	}

	// Дополнительные защищённые пути из конфигурации запрещены вместе
	// с потомками, в том числе внутри домашней директории
	for _, p := range c.extraProtected {
		if norm == p || strings.HasPrefix(norm, p+"/") {
			return true
		}
	}

	// Пользовательские директории разрешены
	if c.home != "" && c.home != "/" && isUnder(norm, c.home) {
		return false
	}

	if c.refuseAdminExt && adminExtensions[filepath.Ext(norm)] {
		return true
	}

	for _, p := range prefixes {
		if strings.HasPrefix(norm, p) {
			return true
		}
	}

	return false
}

// isUnder проверяет, что норм. путь находится внутри норм. корня
func isUnder(path, root string) bool {
	return path == root || strings.HasPrefix(path, root+"/")
}

// ValidateTarget проверяет цель перед уничтожением: существование,
// отсутствие символической ссылки, соответствие типа и безопасность пути
func (c *Classifier) ValidateTarget(path string, wantDir bool) error {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("%w: %s", ErrSystemPathRefused, path)
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("%w: %s", ErrSymlinkUnsupported, path)
	}

	if c.IsSensitivePath(path) {
		return fmt.Errorf("%w: %s", ErrSystemPathRefused, path)
	}

	if wantDir {
		if !fi.IsDir() {
			return fmt.Errorf("%w: %s", ErrNotADirectory, path)
		}
	} else {
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("%w: %s", ErrNotAFile, path)
		}
	}

	return nil
}

// Check - предварительная проверка пути для интерфейсных вызовов.
// Безопасна, ничего не разрушает.
func (c *Classifier) Check(path string) (bool, string) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, "путь не существует"
		}
		return false, fmt.Sprintf("ошибка проверки пути: %v", err)
	}

	if fi.Mode()&os.ModeSymlink != 0 {
		return false, "символические ссылки не поддерживаются"
	}

	if c.IsSensitivePath(path) {
		return false, "путь находится в системной директории"
	}

	return true, "путь допустим для уничтожения"
}
