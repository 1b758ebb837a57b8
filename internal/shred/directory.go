package shred

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"fileshred_enterprise/internal/logging"
)

// collectFiles рекурсивно собирает обычные файлы директории, пригодные
// для уничтожения. Симлинки и небезопасные пути молча пропускаются:
// обход может перечислить запрещённых потомков, каждый путь проверяется
// классификатором заново.
func (e *Engine) collectFiles(dir string, token *CancellationToken, log *logging.Logger) ([]string, uint64, error) {
	var files []string
	var totalSize uint64

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if token.Cancelled() {
			return ErrCancelled
		}

		if err != nil {
			log.Log("WARN", "Поддерево пропущено", "path", path, "error", err.Error())
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !d.Type().IsRegular() {
			log.Log("DEBUG", "Пропущен нерегулярный файл", "path", path)
			return nil
		}

		if e.classifier.IsSensitivePath(path) {
			log.Log("WARN", "Пропущен небезопасный путь", "path", path)
			return nil
		}

		files = append(files, path)
		if info, err := d.Info(); err == nil {
			totalSize += uint64(info.Size())
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	return files, totalSize, nil
}

// shredDirectory уничтожает все подходящие файлы директории строго
// последовательно, затем убирает опустевшее дерево. Сбой одного файла не
// прерывает операцию; прерывает только отмена.
func (e *Engine) shredDirectory(dir string, keep bool, onProgress ProgressFunc, token *CancellationToken) Result {
	opID := newOperationID()
	log := e.logger.WithOperation(opID)

	result := Result{
		OperationID: opID,
		StartTime:   time.Now(),
	}

	log.Log("INFO", "Начало уничтожения директории", "dir", dir, "keep", keep)

	if err := e.classifier.ValidateTarget(dir, true); err != nil {
		log.Log("ERROR", "Валидация директории не пройдена", "dir", dir, "error", err.Error())
		result.Message = err.Error()
		result.Err = err
		result.EndTime = time.Now()
		return result
	}

	files, totalSize, err := e.collectFiles(dir, token, log)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			result.Cancelled = true
			result.Message = ErrCancelled.Error()
			result.Err = ErrCancelled
		} else {
			result.Message = fmt.Sprintf("ошибка обхода директории: %v", err)
			result.Err = fmt.Errorf("%w: обход: %v", ErrIO, err)
		}
		result.EndTime = time.Now()
		return result
	}

	if len(files) == 0 {
		// Не ошибка: пустой результат
		log.Log("INFO", "Подходящих файлов нет", "dir", dir)
		result.Message = ErrNoFilesFound.Error()
		result.Err = ErrNoFilesFound
		result.EndTime = time.Now()
		return result
	}

	if onProgress != nil {
		onProgress(0, len(files), fmt.Sprintf("FOUND %d FILES", len(files)), totalSize)
	}

	failed := 0

	for idx, file := range files {
		fileIdx := idx + 1

		if token.Cancelled() {
			result.Cancelled = true
			result.Message = ErrCancelled.Error()
			result.Err = ErrCancelled
			result.EndTime = time.Now()
			return result
		}

		// Прогресс файла отображается в событие "файл i из N";
		// возврат false после отмены доходит до внутреннего цикла
		wrapped := func(pass, total int, status string, bytes uint64) bool {
			if token.Cancelled() {
				return false
			}
			if onProgress == nil {
				return true
			}
			filePct := (float64(fileIdx-1) + float64(pass)/float64(total)) / float64(len(files)) * 100
			return onProgress(fileIdx, len(files),
				fmt.Sprintf("FILE %d/%d: %s (%.1f%%)", fileIdx, len(files), status, filePct), bytes)
		}

		op := e.newFileOperation(file, keep, opID, log)
		fileResult := op.run(wrapped, token)

		result.Bytes += fileResult.Bytes
		result.Files++

		if !fileResult.Success {
			if fileResult.Cancelled {
				result.Cancelled = true
				result.Message = ErrCancelled.Error()
				result.Err = ErrCancelled
				result.EndTime = time.Now()
				return result
			}
			failed++
			log.Log("ERROR", "Файл не уничтожен", "file", file, "error", fileResult.Message)
		}
	}

	// Убираем опустевшее дерево; неудача - предупреждение, не сбой:
	// содержимое уже затёрто
	if !keep && !token.Cancelled() {
		if err := os.RemoveAll(dir); err != nil {
			log.Log("WARN", "Не удалось удалить директорию", "dir", dir, "error", err.Error())
		}
	}

	processed := len(files) - failed
	if keep {
		result.Message = fmt.Sprintf("директория затёрта: %d файлов (файлы сохранены)", processed)
	} else {
		result.Message = fmt.Sprintf("директория уничтожена: %d файлов (восстановление невозможно)", processed)
	}
	if failed > 0 {
		result.Message += fmt.Sprintf(", ошибок: %d", failed)
	}

	// Частичный успех остаётся успехом операции в целом
	result.Success = processed > 0
	result.EndTime = time.Now()

	log.Log("INFO", "Директория обработана", "files", processed, "failed", failed, "bytes", result.Bytes)
	return result
}
