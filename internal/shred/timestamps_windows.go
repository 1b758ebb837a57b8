//go:build windows

package shred

import (
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/sys/windows"
)

// windowsTimestampObfuscator меняет все доступные метки NTFS
// (создание, доступ, запись) через SetFileTime. С привилегиями
// SeBackup/SeRestore доступ шире; без них деградируем до записываемого
// подмножества.
type windowsTimestampObfuscator struct {
	privilegesEnabled bool
}

func newPlatformTimestampObfuscator() TimestampObfuscator {
	return &windowsTimestampObfuscator{
		privilegesEnabled: enableBackupPrivileges(),
	}
}

// enableBackupPrivileges включает привилегии backup/restore для полного
// доступа к NTFS. Best-effort: отсутствие привилегий не фатально.
func enableBackupPrivileges() bool {
	var token windows.Token
	err := windows.OpenProcessToken(windows.CurrentProcess(),
		windows.TOKEN_ADJUST_PRIVILEGES|windows.TOKEN_QUERY, &token)
	if err != nil {
		return false
	}
	defer token.Close()

	ok := true
	for _, name := range []string{"SeBackupPrivilege", "SeRestorePrivilege"} {
		if err := enablePrivilege(token, name); err != nil {
			ok = false
		}
	}
	return ok
}

func enablePrivilege(token windows.Token, name string) error {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}

	var luid windows.LUID
	if err := windows.LookupPrivilegeValue(nil, namePtr, &luid); err != nil {
		return err
	}

	privileges := windows.Tokenprivileges{
		PrivilegeCount: 1,
	}
	privileges.Privileges[0] = windows.LUIDAndAttributes{
		Luid:       luid,
		Attributes: windows.SE_PRIVILEGE_ENABLED,
	}

	return windows.AdjustTokenPrivileges(token, false, &privileges, 0, nil, nil)
}

func (w *windowsTimestampObfuscator) Obfuscate(path string, window time.Duration) error {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fmt.Errorf("некорректный путь: %w", err)
	}

	var lastErr error
	applied := 0

	// Основной доступ плюс расширенные режимы; backup semantics нужны,
	// чтобы SetFileTime работал и под привилегиями backup
	accessModes := []uint32{
		windows.FILE_WRITE_ATTRIBUTES,
		windows.FILE_WRITE_ATTRIBUTES | windows.SYNCHRONIZE,
		windows.GENERIC_ALL,
	}

	for _, access := range accessModes {
		if err := w.setRandomTimes(pathPtr, access, window); err != nil {
			lastErr = err
			continue
		}
		applied++
	}

	// Несколько дополнительных итераций базовым доступом
	for i := 0; i < 5; i++ {
		if err := w.setRandomTimes(pathPtr, windows.FILE_WRITE_ATTRIBUTES, window); err != nil {
			lastErr = err
			continue
		}
		applied++
	}

	if applied == 0 {
		return lastErr
	}
	return nil
}

func (w *windowsTimestampObfuscator) setRandomTimes(pathPtr *uint16, access uint32, window time.Duration) error {
	handle, err := windows.CreateFile(pathPtr, access,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE, nil,
		windows.OPEN_EXISTING, windows.FILE_FLAG_BACKUP_SEMANTICS, 0)
	if err != nil {
		return err
	}
	defer windows.CloseHandle(handle)

	// Независимые случайные значения для каждой метки
	ctime := randomFiletime(window)
	atime := randomFiletime(window)
	mtime := randomFiletime(window)

	return windows.SetFileTime(handle, &ctime, &atime, &mtime)
}

func randomFiletime(window time.Duration) windows.Filetime {
	offset := time.Duration(rand.Int63n(int64(window)))
	t := time.Now().Add(-offset)
	return windows.NsecToFiletime(t.UnixNano())
}
