package shred

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fileshred_enterprise/internal/logging"
)

// RenamePrefix - фиксированный префикс обфусцированных имён
const RenamePrefix = "FSHRED_"

// renameTokenBytes - энтропия случайной части имени
const renameTokenBytes = 32

// TimestampObfuscator - платформенная рандомизация временных меток.
// Оркестрация никогда не ветвится по платформе: реализация выбирается
// при старте.
type TimestampObfuscator interface {
	// Obfuscate выставляет меткам файла независимые случайные значения
	// в пределах window от текущего момента. Best-effort.
	Obfuscate(path string, window time.Duration) error
}

// Obfuscator выполняет безопасное переименование и обфускацию меток
type Obfuscator struct {
	Iterations int
	Window     time.Duration
	Timestamps TimestampObfuscator
}

// randomName генерирует новое обфусцированное имя с нейтральным расширением
func randomName() (string, error) {
	token := make([]byte, renameTokenBytes)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("ошибка генерации случайного имени: %w", err)
	}
	return RenamePrefix + hex.EncodeToString(token) + ".tmp", nil
}

// SecureRename переименовывает файл в цепочку случайных имён.
// Неудача самой первой итерации фатальна; последующие неудачи терпимы -
// значение имеет только последний успешный путь. Каждая попытка
// повторяется один раз на случай временного сбоя.
func (o *Obfuscator) SecureRename(path string, log *logging.Logger) (string, *ObfuscationRecord, error) {
	record := &ObfuscationRecord{
		OriginalPath: path,
	}

	iterations := o.Iterations
	if iterations < 1 {
		iterations = 1
	}

	current := path
	dir := filepath.Dir(path)

	for i := 0; i < iterations; i++ {
		name, err := randomName()
		if err != nil {
			if i == 0 {
				return "", nil, fmt.Errorf("%w: %v", ErrRenameFailed, err)
			}
			break
		}
		next := filepath.Join(dir, name)

		if err := os.Rename(current, next); err != nil {
			// Один повтор на временный сбой
			if retryErr := os.Rename(current, next); retryErr != nil {
				if i == 0 {
					return "", nil, fmt.Errorf("%w: %v", ErrRenameFailed, retryErr)
				}
				log.Log("DEBUG", "Итерация переименования не удалась, используем последнее имя", "iteration", i, "error", retryErr.Error())
				break
			}
		}

		current = next
		record.RenameChain = append(record.RenameChain, name)
	}

	record.FinalPath = current
	log.Log("INFO", "Переименование завершено",
		"original", filepath.Base(path), "final", filepath.Base(current), "iterations", len(record.RenameChain))

	return current, record, nil
}

// ObfuscateTimestamps рандомизирует временные метки файла. Выполняется
// всегда, даже перед удалением: метаданные остаются в журналах файловой
// системы. Неудача не влияет на итог операции.
func (o *Obfuscator) ObfuscateTimestamps(path string, record *ObfuscationRecord, log *logging.Logger) {
	window := o.Window
	if window <= 0 {
		window = 20 * 365 * 24 * time.Hour
	}

	if err := o.Timestamps.Obfuscate(path, window); err != nil {
		log.Log("WARN", "Обфускация временных меток не удалась", "file", path, "error", err.Error())
		return
	}

	if record != nil {
		record.TimestampsRandomized = true
	}
	log.Log("INFO", "Временные метки рандомизированы", "file", filepath.Base(path))
}
