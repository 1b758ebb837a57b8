//go:build !windows

package shred

import (
	"math/rand"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// unixTimestampObfuscator - best-effort рандомизация atime/mtime.
// Времени создания на POSIX не существует как изменяемого поля,
// обрабатываем то, что доступно.
type unixTimestampObfuscator struct{}

func newPlatformTimestampObfuscator() TimestampObfuscator {
	return &unixTimestampObfuscator{}
}

// randomPast возвращает случайный момент в пределах window до текущего
func randomPast(window time.Duration) time.Time {
	offset := time.Duration(rand.Int63n(int64(window)))
	return time.Now().Add(-offset)
}

func (u *unixTimestampObfuscator) Obfuscate(path string, window time.Duration) error {
	var lastErr error
	applied := 0

	// Несколько итераций с независимыми значениями: значение имеет
	// только последняя пара, промежуточные засоряют журналы ФС
	for i := 0; i < 10; i++ {
		atime := randomPast(window)
		mtime := randomPast(window)

		if err := os.Chtimes(path, atime, mtime); err != nil {
			lastErr = err
			continue
		}

		// Наносекундный вариант через utimensat, где поддерживается
		ts := []unix.Timespec{
			unix.NsecToTimespec(atime.UnixNano()),
			unix.NsecToTimespec(mtime.UnixNano()),
		}
		if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, ts, 0); err != nil {
			lastErr = err
		}

		applied++
	}

	if applied == 0 {
		return lastErr
	}
	return nil
}
