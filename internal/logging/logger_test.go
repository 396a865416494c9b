package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckLoggerRespectsLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelWarn, Format: "json", Output: &buf})

	ctx := context.Background()
	logger.Debug(ctx, "should not appear")
	logger.Info(ctx, "should not appear either")
	logger.Warn(ctx, nil, "this one should appear")

	assert.NotContains(t, buf.String(), "should not appear")
	assert.Contains(t, buf.String(), "this one should appear")
}

func TestCheckLoggerIncludesComponentAndError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf}).
		WithComponent("collab.tsgo")

	logger.Error(context.Background(), errors.New("exit status 2"), "type check failed")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "collab.tsgo", record["component"])
	assert.Equal(t, "exit status 2", record["error"])
	assert.Equal(t, "type check failed", record["msg"])
}

func TestCheckLoggerWithAccumulatesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf}).
		With("workspace", "/repo").
		With("tsconfig", "tsconfig.json")

	logger.Info(context.Background(), "discovered components", "count", 12)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "/repo", record["workspace"])
	assert.Equal(t, "tsconfig.json", record["tsconfig"])
	assert.Equal(t, float64(12), record["count"])
}

func TestCheckLoggerWithComponentDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})
	child := parent.WithComponent("watcher")

	parent.Info(context.Background(), "from parent")
	buf.Reset()
	child.Info(context.Background(), "from child")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "watcher", record["component"])
}

func TestMultiLoggerFansOutToEveryLogger(t *testing.T) {
	var a, b bytes.Buffer
	logger := NewMultiLogger(
		NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &a}),
		NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &b}),
	)

	logger.Info(context.Background(), "broadcast")

	assert.Contains(t, a.String(), "broadcast")
	assert.Contains(t, b.String(), "broadcast")
}

func TestMultiLoggerWithComponentPropagates(t *testing.T) {
	var buf bytes.Buffer
	logger := NewMultiLogger(NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf}))
	tagged := logger.WithComponent("orchestrator")

	tagged.Info(context.Background(), "starting batch")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "orchestrator", record["component"])
}

func TestSanitizeForLogRedactsSensitiveContent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"password field", "user password: secret123", "[REDACTED]"},
		{"token field", "auth token abc123", "[REDACTED]"},
		{"normal text", "normal log message", "normal log message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeForLog(tt.input))
		})
	}
}

func TestSanitizeForLogTruncatesLongStrings(t *testing.T) {
	input := string(make([]byte, 1500))
	result := SanitizeForLog(input)
	assert.Equal(t, string(make([]byte, 1000))+"...[TRUNCATED]", result)
}

func TestNewFileLoggerWritesToDateStampedFile(t *testing.T) {
	tmpDir := t.TempDir()
	config := DefaultConfig()

	fileLogger, err := NewFileLogger(config, tmpDir)
	require.NoError(t, err)
	require.NotNil(t, fileLogger)

	fileLogger.Info(context.Background(), "watch mode started")
	require.NoError(t, fileLogger.Close())
}

func TestNewFileLoggerRejectsPathTraversal(t *testing.T) {
	config := DefaultConfig()

	_, err := NewFileLogger(config, "../../../etc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path traversal")
}

func TestNewFileLoggerRejectsEmptyDirectory(t *testing.T) {
	config := DefaultConfig()

	_, err := NewFileLogger(config, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestPerfLoggerEndLogsDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})

	op := logger.StartOperation("transform")
	op.End(context.Background())

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "transform", record["operation"])
	assert.Equal(t, "operation completed", record["msg"])
	assert.Contains(t, record, "duration_ms")
}

func TestPerfLoggerEndWithErrorLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LevelDebug, Format: "json", Output: &buf})

	op := logger.StartOperation("collab.svelte")
	op.EndWithError(context.Background(), errors.New("worker exited"))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "worker exited", record["error"])
}
