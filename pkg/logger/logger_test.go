package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := newLogger()

	assert.NotNil(t, logger)
	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)

	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
}

func TestGetLogger_WithContextLogger(t *testing.T) {
	ctx := context.Background()
	customLogger := logrus.NewEntry(logrus.New()).WithField("test", "value")

	ctxWithLogger := WithLogger(ctx, customLogger)
	retrievedLogger := G(ctxWithLogger)

	assert.NotNil(t, retrievedLogger)
	assert.Equal(t, "value", retrievedLogger.Data["test"])
}

func TestGetLogger_WithoutContextLogger(t *testing.T) {
	retrievedLogger := G(context.Background())

	assert.NotNil(t, retrievedLogger)
	// Falls back to the global logger with the context attached.
	assert.Equal(t, L.Logger, retrievedLogger.Logger)
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "logLevel",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}

	ctx := WithLogger(context.Background(), logrus.NewEntry(logger))
	G(ctx).Info("test message")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Equal(t, "info", logEntry["logLevel"])
	assert.Equal(t, "test message", logEntry["message"])
	assert.Contains(t, logEntry, "timestamp")
}

func TestLoggerChaining(t *testing.T) {
	ctx := context.Background()

	logger1 := logrus.NewEntry(logrus.New()).WithField("service", "evaluator")
	ctx = WithLogger(ctx, logger1)

	logger2 := G(ctx).WithField("skill_id", "pdf-digest")
	ctx = WithLogger(ctx, logger2)

	finalLogger := G(ctx)
	assert.Equal(t, "evaluator", finalLogger.Data["service"])
	assert.Equal(t, "pdf-digest", finalLogger.Data["skill_id"])
}

func TestSetLogLevel(t *testing.T) {
	originalLevel := L.Logger.GetLevel()
	defer L.Logger.SetLevel(originalLevel)

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	assert.Error(t, SetLogLevel("not-a-level"))
}

func TestSetLogFormat(t *testing.T) {
	originalFormatter := L.Logger.Formatter
	defer func() { L.Logger.Formatter = originalFormatter }()

	SetLogFormat("json")
	assert.IsType(t, &logrus.JSONFormatter{}, L.Logger.Formatter)

	SetLogFormat("fmt")
	assert.IsType(t, &logrus.TextFormatter{}, L.Logger.Formatter)
}
