package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"fileshred_enterprise/internal/config"
)

// Logger - логгер с уровнями, файловым приёмником и ротацией.
// Все строки одной операции помечаются её идентификатором через WithOperation.
type Logger struct {
	level       string
	sink        io.WriteCloser
	verbose     bool
	operationID string
	mu          *sync.Mutex
}

// New создаёт логгер по конфигурации
func New(cfg *config.Config, verbose bool) (*Logger, error) {
	l := &Logger{
		level:   cfg.Logging.Level,
		verbose: verbose,
		mu:      &sync.Mutex{},
	}

	if cfg.Logging.File != "" {
		logDir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			// Если не можем создать директорию, используем stdout
			fmt.Printf("[WARN] Не удалось создать директорию логов %s: %v\n", logDir, err)
			fmt.Printf("[WARN] Логи будут выводиться в stdout\n")
			return l, nil
		}

		l.sink = &lumberjack.Logger{
			Filename:   cfg.Logging.File,
			MaxSize:    cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxFiles,
		}
	}

	return l, nil
}

// WithOperation возвращает дочерний логгер, помечающий каждую строку
// идентификатором операции
func (l *Logger) WithOperation(id string) *Logger {
	child := *l
	child.operationID = id
	return &child
}

// Log пишет строку лога указанного уровня
func (l *Logger) Log(level, message string, fields ...interface{}) {
	if !l.shouldLog(level) {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	var entry string
	if l.operationID != "" {
		entry = fmt.Sprintf("[%s] [%s] [%s] %s", timestamp, level, l.operationID, message)
	} else {
		entry = fmt.Sprintf("[%s] [%s] %s", timestamp, level, message)
	}

	if len(fields) > 0 {
		entry += fmt.Sprintf(" %v", fields)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.sink != nil {
		l.sink.Write([]byte(entry + "\n"))
	}

	if l.verbose || level == "ERROR" || level == "FATAL" {
		fmt.Println(entry)
	}
}

func (l *Logger) shouldLog(level string) bool {
	levels := map[string]int{"DEBUG": 0, "INFO": 1, "WARN": 2, "ERROR": 3, "FATAL": 4}
	current := levels[l.level]
	target := levels[level]
	return target >= current
}

// Close закрывает файловый приёмник
func (l *Logger) Close() error {
	if l.sink != nil {
		return l.sink.Close()
	}
	return nil
}
