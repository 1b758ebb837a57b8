package shred

import (
	"time"
)

// ProgressFunc вызывается синхронно из рабочего потока. Возврат false -
// запрос отмены, проверяется немедленно.
type ProgressFunc func(currentStep, totalSteps int, status string, bytesProcessed uint64) bool

// State - состояние операции уничтожения
type State string

const (
	StateValidating  State = "VALIDATING"
	StateRenaming    State = "RENAMING"
	StateOverwriting State = "OVERWRITING"
	StateObfuscating State = "OBFUSCATING_TIMESTAMPS"
	StateDisposing   State = "DISPOSING"
	StateDestroyed   State = "DESTROYED"
	StatePreserved   State = "PRESERVED"
	StateInterrupted State = "INTERRUPTED"
	StateFailed      State = "FAILED"
)

// Result - итог операции уничтожения. Ожидаемые сбои возвращаются
// значением, никогда паникой.
type Result struct {
	OperationID string
	Success     bool
	Cancelled   bool
	Message     string
	Err         error
	Files       int
	Bytes       uint64
	StartTime   time.Time
	EndTime     time.Time
}

// MethodInfo описывает метод уничтожения для внешних вызовов
type MethodInfo struct {
	Name     string
	Passes   int
	Security string
}

// ObfuscationRecord - цепочка переименований одной цели. Не сохраняется,
// живёт в пределах одной операции для логирования и диагностики.
type ObfuscationRecord struct {
	OriginalPath         string
	RenameChain          []string
	FinalPath            string
	TimestampsRandomized bool
}
