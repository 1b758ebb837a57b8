package shred

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fileshred_enterprise/internal/logging"
)

// newOperationID возвращает идентификатор, связывающий все строки лога
// одной операции
func newOperationID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("op_%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// fileOperation - машина состояний уничтожения одного файла.
// Переходы строго последовательны: переименование всегда до перезаписи,
// обфускация меток всегда после перезаписи и всегда выполняется, даже если
// следом файл будет удалён.
type fileOperation struct {
	engine *Engine
	id     string
	path   string
	keep   bool
	state  State
	log    *logging.Logger
}

func (e *Engine) newFileOperation(path string, keep bool, id string, log *logging.Logger) *fileOperation {
	return &fileOperation{
		engine: e,
		id:     id,
		path:   path,
		keep:   keep,
		state:  StateValidating,
		log:    log,
	}
}

// run выполняет операцию и возвращает итог. После успешного переименования
// файл при любой ошибке остаётся под обфусцированным именем: откат имени -
// это утечка информации, противоречащая назначению инструмента.
func (op *fileOperation) run(onProgress ProgressFunc, token *CancellationToken) Result {
	result := Result{
		OperationID: op.id,
		Files:       1,
		StartTime:   time.Now(),
	}

	op.log.Log("INFO", "Начало уничтожения файла", "path", op.path, "keep", op.keep)

	// Валидация до любого разрушающего шага
	op.state = StateValidating
	if err := op.engine.classifier.ValidateTarget(op.path, false); err != nil {
		op.state = StateFailed
		op.log.Log("ERROR", "Валидация не пройдена", "path", op.path, "error", err.Error())
		return op.finish(result, false, false, err.Error(), err)
	}

	originalName := filepath.Base(op.path)
	var originalSize int64
	if st, err := os.Lstat(op.path); err == nil {
		originalSize = st.Size()
	} else {
		// Файл исчез между валидацией и стартом; прогресс сообщит 0 байт
		op.log.Log("DEBUG", "Не удалось получить размер файла", "path", op.path, "error", err.Error())
	}

	if onProgress != nil {
		onProgress(0, 1, "INITIATING SHRED", uint64(originalSize))
	}

	// Шаг 1: безопасное переименование
	op.state = StateRenaming
	scrambled, record, err := op.engine.obfuscator.SecureRename(op.path, op.log)
	if err != nil {
		op.state = StateFailed
		op.log.Log("ERROR", "Переименование не удалось", "path", op.path, "error", err.Error())
		return op.finish(result, false, false, err.Error(), err)
	}

	// Шаг 2: перезапись по расписанию
	op.state = StateOverwriting
	written, err := op.engine.overwriter.Overwrite(scrambled, onProgress, token, op.log)
	result.Bytes = written
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return op.interrupted(result, scrambled)
		}
		op.state = StateFailed
		op.log.Log("ERROR", "Перезапись не удалась", "path", scrambled, "error", err.Error())
		return op.finish(result, false, false, err.Error(), err)
	}

	// Шаг 3: обфускация временных меток - всегда, даже перед удалением
	op.state = StateObfuscating
	op.engine.obfuscator.ObfuscateTimestamps(scrambled, record, op.log)

	// Шаг 4: финальное распоряжение
	op.state = StateDisposing
	if op.keep {
		op.state = StatePreserved
		msg := fmt.Sprintf("файл сохранён: %s -> %s (содержимое затёрто, метаданные обфусцированы)",
			originalName, filepath.Base(scrambled))
		return op.finish(result, true, false, msg, nil)
	}

	if err := os.Remove(scrambled); err != nil {
		op.state = StateFailed
		wrapped := fmt.Errorf("%w: удаление: %v", ErrIO, err)
		op.log.Log("ERROR", "Удаление не удалось", "path", scrambled, "error", err.Error())
		return op.finish(result, false, false, wrapped.Error(), wrapped)
	}

	// Контроль консистентности: путь обязан исчезнуть
	if _, err := os.Lstat(scrambled); err == nil {
		op.state = StateFailed
		wrapped := fmt.Errorf("%w: %s", ErrConsistency, scrambled)
		op.log.Log("ERROR", "КРИТИЧНО: файл существует после удаления", "path", scrambled)
		return op.finish(result, false, false, wrapped.Error(), wrapped)
	}

	op.state = StateDestroyed
	msg := fmt.Sprintf("файл уничтожен: %s (восстановление невозможно)", originalName)
	return op.finish(result, true, false, msg, nil)
}

// interrupted обрабатывает отмену посреди перезаписи: при уничтожении
// частично затёртый переименованный файл удаляется, при сохранении -
// остаётся как есть
func (op *fileOperation) interrupted(result Result, scrambled string) Result {
	op.state = StateInterrupted
	op.log.Log("INFO", "Операция прервана пользователем", "path", scrambled)

	if !op.keep {
		if err := os.Remove(scrambled); err != nil && !os.IsNotExist(err) {
			op.log.Log("WARN", "Не удалось удалить частично затёртый файл", "path", scrambled, "error", err.Error())
		}
	}

	return op.finish(result, false, true, ErrCancelled.Error(), ErrCancelled)
}

func (op *fileOperation) finish(result Result, success, cancelled bool, msg string, err error) Result {
	result.Success = success
	result.Cancelled = cancelled
	result.Message = msg
	result.Err = err
	result.EndTime = time.Now()

	op.log.Log("INFO", "Операция завершена", "state", string(op.state), "message", msg)
	return result
}
