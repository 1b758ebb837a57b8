package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fileshred_enterprise/internal/config"
	"fileshred_enterprise/internal/shred"
)

// OperationReport - отчёт об одной операции уничтожения
type OperationReport struct {
	ID             string    `json:"id"`
	Target         string    `json:"target"`
	Kind           string    `json:"kind"` // file | directory
	Mode           string    `json:"mode"` // destroy | preserve
	Success        bool      `json:"success"`
	Cancelled      bool      `json:"cancelled"`
	Message        string    `json:"message"`
	FilesProcessed int       `json:"files_processed"`
	BytesProcessed uint64    `json:"bytes_processed"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Duration       string    `json:"duration"`
}

// SummaryReport - сводка по запуску
type SummaryReport struct {
	TotalOperations int    `json:"total_operations"`
	Succeeded       int    `json:"succeeded"`
	Cancelled       int    `json:"cancelled"`
	Failed          int    `json:"failed"`
	TotalFiles      int    `json:"total_files"`
	TotalBytes      uint64 `json:"total_bytes"`
}

// Report - JSON отчёт о запуске
type Report struct {
	RunID      string            `json:"run_id"`
	Version    string            `json:"version"`
	Timestamp  time.Time         `json:"timestamp"`
	Method     string            `json:"method"`
	Passes     int               `json:"passes"`
	Operations []OperationReport `json:"operations"`
	Summary    SummaryReport     `json:"summary"`
	ExitCode   int               `json:"exit_code"`
	Duration   string            `json:"duration"`
}

// NewOperationReport строит отчёт операции из её итога
func NewOperationReport(target, kind string, keep bool, result shred.Result) OperationReport {
	mode := "destroy"
	if keep {
		mode = "preserve"
	}

	return OperationReport{
		ID:             result.OperationID,
		Target:         target,
		Kind:           kind,
		Mode:           mode,
		Success:        result.Success,
		Cancelled:      result.Cancelled,
		Message:        result.Message,
		FilesProcessed: result.Files,
		BytesProcessed: result.Bytes,
		StartTime:      result.StartTime,
		EndTime:        result.EndTime,
		Duration:       result.EndTime.Sub(result.StartTime).String(),
	}
}

// GenerateReport собирает отчёт о запуске
func GenerateReport(operations []OperationReport, version string, startTime, endTime time.Time, exitCode int) *Report {
	report := &Report{
		RunID:      fmt.Sprintf("run_%d", startTime.UnixNano()),
		Version:    version,
		Timestamp:  startTime,
		Method:     shred.MethodGutmann35,
		Passes:     shred.TotalPasses,
		Operations: operations,
		ExitCode:   exitCode,
		Duration:   endTime.Sub(startTime).String(),
	}

	summary := SummaryReport{TotalOperations: len(operations)}
	for _, op := range operations {
		switch {
		case op.Cancelled:
			summary.Cancelled++
		case op.Success:
			summary.Succeeded++
		default:
			summary.Failed++
		}
		summary.TotalFiles += op.FilesProcessed
		summary.TotalBytes += op.BytesProcessed
	}
	report.Summary = summary

	return report
}

// SaveReport сохраняет отчёт в JSON файл
func SaveReport(report *Report, cfg *config.Config) (string, error) {
	if !cfg.Reporting.Enabled {
		return "", nil
	}

	if err := os.MkdirAll(cfg.Reporting.LocalPath, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории для отчётов: %w", err)
	}

	filename := fmt.Sprintf("fileshred_report_%s.json", report.Timestamp.Format("20060102_150405"))
	path := filepath.Join(cfg.Reporting.LocalPath, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации отчёта: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи отчёта: %w", err)
	}

	return path, nil
}
