package census

import "testing"

// Light smoke tests ensuring the exported logger APIs do not panic and
// remain callable with and without key-value pairs.
func TestSimpleLoggerLevels(t *testing.T) {
	logger := NewSimpleLogger()

	logger.Debug("debug message")
	logger.Info("info message", "dataset", "acs5")
	logger.Warn("warn message", "attempt", 2, "maxAttempts", 3)
	logger.Error("error message", "dangling-key")
}
