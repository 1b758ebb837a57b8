package shred

import (
	"fmt"
	"io"
	"os"

	"fileshred_enterprise/internal/logging"
)

// Overwriter прогоняет расписание паттернов по файлу на месте.
// Размер файла фиксируется один раз до первого прохода и не перечитывается:
// каждый проход записывает ровно это количество байт.
type Overwriter struct {
	Schedule         Schedule
	MaxChunkSize     int64
	ProgressInterval int64
}

// adaptiveBufferSize подбирает размер чанка по размеру файла.
// Монотонная ступенчатая функция с фиксированным потолком.
func (ow *Overwriter) adaptiveBufferSize(fileSize int64) int64 {
	var size int64
	switch {
	case fileSize > 1024*1024*1024: // >1GB
		size = 16 * 1024 * 1024
	case fileSize > 100*1024*1024: // >100MB
		size = 4 * 1024 * 1024
	case fileSize > 10*1024*1024: // >10MB
		size = 1 * 1024 * 1024
	default:
		size = 128 * 1024
	}
	if ow.MaxChunkSize > 0 && size > ow.MaxChunkSize {
		size = ow.MaxChunkSize
	}
	return size
}

// Overwrite выполняет все проходы расписания над файлом. Возвращает общее
// число записанных байт. Отмена проверяется в начале каждого прохода и на
// каждом чанке.
func (ow *Overwriter) Overwrite(path string, onProgress ProgressFunc, token *CancellationToken, log *logging.Logger) (uint64, error) {
	fh, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		if os.IsPermission(err) {
			return 0, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return 0, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer func() {
		if closeErr := fh.Close(); closeErr != nil {
			log.Log("WARN", "Ошибка закрытия файла", "file", path, "error", closeErr.Error())
		}
	}()

	st, err := fh.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIO, err)
	}
	originalSize := st.Size()

	bufSize := ow.adaptiveBufferSize(originalSize)
	if bufSize > originalSize && originalSize > 0 {
		bufSize = originalSize
	}

	progressInterval := ow.ProgressInterval
	if progressInterval <= 0 {
		progressInterval = 10 * 1024 * 1024
	}

	totalPasses := len(ow.Schedule)
	log.Log("INFO", "Начало перезаписи", "file", path, "size", originalSize, "passes", totalPasses, "chunk", bufSize)

	buf := getBuffer(int(bufSize))
	defer putBuffer(buf)

	var totalWritten uint64

	for i, pattern := range ow.Schedule {
		pass := i + 1

		if token.Cancelled() {
			return totalWritten, ErrCancelled
		}

		status := fmt.Sprintf("PASS %d/%d", pass, totalPasses)
		if onProgress != nil && !onProgress(pass, totalPasses, status, uint64(originalSize)) {
			token.Cancel()
			return totalWritten, ErrCancelled
		}

		if _, err := fh.Seek(0, io.SeekStart); err != nil {
			return totalWritten, fmt.Errorf("%w: seek: %v", ErrIO, err)
		}

		var written int64
		var sinceReport int64

		for written < originalSize {
			if token.Cancelled() {
				return totalWritten, ErrCancelled
			}

			chunk := bufSize
			if remaining := originalSize - written; remaining < chunk {
				chunk = remaining
			}

			b := buf[:chunk]
			if err := pattern.Fill(b); err != nil {
				return totalWritten, fmt.Errorf("%w: %v", ErrIO, err)
			}

			n, err := fh.Write(b)
			if err != nil {
				if os.IsPermission(err) {
					return totalWritten, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
				}
				return totalWritten, fmt.Errorf("%w: запись: %v", ErrIO, err)
			}
			// Короткая запись фатальна для этой операции
			if int64(n) != chunk {
				return totalWritten, fmt.Errorf("%w: неполная запись: %d из %d байт", ErrIO, n, chunk)
			}

			written += int64(n)
			totalWritten += uint64(n)
			sinceReport += int64(n)

			if onProgress != nil && sinceReport >= progressInterval {
				sinceReport = 0
				percent := float64(written) / float64(originalSize) * 100
				status := fmt.Sprintf("PASS %d/%d - %.1f%%", pass, totalPasses, percent)
				if !onProgress(pass, totalPasses, status, uint64(written)) {
					token.Cancel()
					return totalWritten, ErrCancelled
				}
			}
		}

		// Проход должен лечь на диск до начала следующего, иначе прерывание
		// оставит файл в неопределённом смешанном состоянии
		if err := fh.Sync(); err != nil {
			return totalWritten, fmt.Errorf("%w: fsync: %v", ErrIO, err)
		}

		log.Log("DEBUG", "Проход завершён", "pass", pass, "total", totalPasses)
	}

	ow.verifyPrefix(fh, originalSize, log)

	return totalWritten, nil
}

// verifyPrefix читает небольшой префикс файла после последнего прохода.
// Чисто диагностическая проверка: последний проход случайный, однородный
// префикс выглядит подозрительно. Никогда не фейлит операцию.
func (ow *Overwriter) verifyPrefix(fh *os.File, originalSize int64, log *logging.Logger) {
	probeLen := int64(4096)
	if originalSize < probeLen {
		probeLen = originalSize
	}
	if probeLen < 2 {
		return
	}

	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		log.Log("WARN", "Контрольное чтение не удалось", "error", err.Error())
		return
	}

	probe := make([]byte, probeLen)
	if _, err := io.ReadFull(fh, probe); err != nil {
		log.Log("WARN", "Контрольное чтение не удалось", "error", err.Error())
		return
	}

	uniform := true
	for _, b := range probe[1:] {
		if b != probe[0] {
			uniform = false
			break
		}
	}
	if uniform {
		log.Log("WARN", "Контрольное чтение: данные выглядят неслучайными", "byte", probe[0])
	}
}
