package shred

import (
	"time"

	"fileshred_enterprise/internal/config"
	"fileshred_enterprise/internal/logging"
	"fileshred_enterprise/internal/security"
)

// MethodGutmann35 - идентификатор единственного доступного метода
const MethodGutmann35 = "gutmann_35_pass"

// Engine - фасад движка уничтожения. Один вызов - одна операция; движок
// не хранит состояния между вызовами и может обслуживать любой интерфейс
// через колбэк прогресса и токен отмены.
type Engine struct {
	cfg        *config.Config
	logger     *logging.Logger
	classifier *security.Classifier
	obfuscator *Obfuscator
	overwriter *Overwriter
}

// NewEngine создаёт движок по конфигурации
func NewEngine(cfg *config.Config, logger *logging.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		logger:     logger,
		classifier: security.NewClassifier(cfg),
		obfuscator: &Obfuscator{
			Iterations: cfg.Shred.RenameIterations,
			Window:     time.Duration(cfg.Shred.TimestampWindowYears) * 365 * 24 * time.Hour,
			Timestamps: newPlatformTimestampObfuscator(),
		},
		overwriter: &Overwriter{
			Schedule:         GutmannSchedule(),
			MaxChunkSize:     cfg.Shred.MaxChunkSize,
			ProgressInterval: cfg.Shred.ProgressIntervalBytes,
		},
	}
}

// ShredFile уничтожает один файл. При keep содержимое затирается и файл
// остаётся на диске под обфусцированным именем; иначе файл удаляется.
func (e *Engine) ShredFile(path string, keep bool, onProgress ProgressFunc, token *CancellationToken) Result {
	if token == nil {
		token = NewCancellationToken()
	}

	opID := newOperationID()
	log := e.logger.WithOperation(opID)

	op := e.newFileOperation(path, keep, opID, log)
	return op.run(onProgress, token)
}

// ShredDirectory уничтожает все подходящие файлы директории
func (e *Engine) ShredDirectory(path string, keep bool, onProgress ProgressFunc, token *CancellationToken) Result {
	if token == nil {
		token = NewCancellationToken()
	}
	return e.shredDirectory(path, keep, onProgress, token)
}

// ValidatePath - предварительная проверка пути для интерфейсов.
// Ничего не разрушает, безопасна до любых разрушающих вызовов.
func (e *Engine) ValidatePath(path string) (bool, string) {
	return e.classifier.Check(path)
}

// AvailableMethods возвращает доступные методы уничтожения. Сейчас метод
// один; структура map оставляет контракт вызова неизменным при появлении
// новых методов.
func AvailableMethods() map[string]MethodInfo {
	return map[string]MethodInfo{
		MethodGutmann35: {
			Name:     "Gutmann 35-pass (максимальная защита)",
			Passes:   TotalPasses,
			Security: "MAXIMUM",
		},
	}
}
