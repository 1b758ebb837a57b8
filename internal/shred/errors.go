package shred

import (
	"errors"
)

// Ошибки движка уничтожения. Ошибки валидации цели живут в пакете security.
var (
	// ErrPermissionDenied - нет прав на файл
	ErrPermissionDenied = errors.New("доступ запрещён")
	// ErrIO - ошибка файловой системы: неполная запись, сбой fsync и т.п.
	ErrIO = errors.New("ошибка файловой системы")
	// ErrRenameFailed - первое переименование не удалось
	ErrRenameFailed = errors.New("не удалось переименовать файл")
	// ErrConsistency - файл существует после удаления. Самый тяжёлый класс:
	// противоречит основной гарантии инструмента.
	ErrConsistency = errors.New("файл существует после удаления")
	// ErrCancelled - операция отменена пользователем, не сбой
	ErrCancelled = errors.New("операция отменена")
	// ErrNoFilesFound - в директории нет подходящих файлов
	ErrNoFilesFound = errors.New("файлы в директории не найдены")
)
