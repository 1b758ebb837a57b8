package reporting

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fileshred_enterprise/internal/config"
	"fileshred_enterprise/internal/shred"
)

func sampleResult(success, cancelled bool) shred.Result {
	return shred.Result{
		OperationID: "abcd1234abcd1234",
		Success:     success,
		Cancelled:   cancelled,
		Message:     "файл уничтожен: x.txt (восстановление невозможно)",
		Files:       1,
		Bytes:       35 * 1024,
		StartTime:   time.Now().Add(-2 * time.Second),
		EndTime:     time.Now(),
	}
}

func TestNewOperationReport(t *testing.T) {
	op := NewOperationReport("/tmp/x.txt", "file", false, sampleResult(true, false))

	assert.Equal(t, "abcd1234abcd1234", op.ID)
	assert.Equal(t, "file", op.Kind)
	assert.Equal(t, "destroy", op.Mode)
	assert.True(t, op.Success)
	assert.Equal(t, uint64(35*1024), op.BytesProcessed)
	assert.NotEmpty(t, op.Duration)

	kept := NewOperationReport("/tmp/x.txt", "file", true, sampleResult(true, false))
	assert.Equal(t, "preserve", kept.Mode)
}

func TestGenerateReport_Summary(t *testing.T) {
	start := time.Now().Add(-time.Minute)
	ops := []OperationReport{
		NewOperationReport("/tmp/a", "file", false, sampleResult(true, false)),
		NewOperationReport("/tmp/b", "file", false, sampleResult(false, false)),
		NewOperationReport("/tmp/c", "directory", false, sampleResult(false, true)),
	}

	report := GenerateReport(ops, "1.0.2", start, time.Now(), 0)

	assert.Equal(t, shred.MethodGutmann35, report.Method)
	assert.Equal(t, shred.TotalPasses, report.Passes)
	assert.Equal(t, 3, report.Summary.TotalOperations)
	assert.Equal(t, 1, report.Summary.Succeeded)
	assert.Equal(t, 1, report.Summary.Failed)
	assert.Equal(t, 1, report.Summary.Cancelled)
	assert.Equal(t, uint64(3*35*1024), report.Summary.TotalBytes)
}

func TestSaveReport(t *testing.T) {
	cfg := config.Default()
	cfg.Reporting.Enabled = true
	cfg.Reporting.LocalPath = t.TempDir()

	report := GenerateReport(nil, "1.0.2", time.Now(), time.Now(), 0)

	path, err := SaveReport(report, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded Report
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, report.RunID, loaded.RunID)
}

func TestSaveReport_Disabled(t *testing.T) {
	cfg := config.Default()
	cfg.Reporting.Enabled = false

	path, err := SaveReport(GenerateReport(nil, "1.0.2", time.Now(), time.Now(), 0), cfg)
	require.NoError(t, err)
	assert.Empty(t, path)
}
