package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		verbosity  int
		jsonOutput bool
	}{
		{"JSON output mode", 0, true},
		{"Console output mode", 0, false},
		{"Console debug", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			require.NoError(t, Initialize(tt.verbosity, tt.jsonOutput))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.Equal(t, tt.verbosity, Verbosity)

			Logger = zap.NewNop().Sugar()
		})
	}
}

func TestInitializeWritesToSink(t *testing.T) {
	var buf bytes.Buffer
	old := sink
	sink = &buf
	t.Cleanup(func() {
		sink = old
		Logger = zap.NewNop().Sugar()
	})
	t.Setenv("NO_COLOR", "1")

	require.NoError(t, Initialize(VerbosityUser, false))

	Infow("hidden at default verbosity")
	Warnw("duplicate identifier", FieldIdent, "OPCODE_ADD")
	Cleanup()

	out := buf.String()
	assert.NotContains(t, out, "hidden at default verbosity")
	assert.Contains(t, out, "WARN  duplicate identifier  ident=OPCODE_ADD")
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		})
	}
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.True(t, ShouldOutput(VerbosityUser, OutputUserStatus))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputTarget))
	assert.False(t, ShouldOutput(VerbosityInfo, OutputTemplate))
	assert.True(t, ShouldOutput(VerbosityDebug, OutputTiming))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputLines))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputLines))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputCategory(99)))
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "lines", CategoryName(OutputLines))
	assert.Equal(t, "unknown", CategoryName(OutputCategory(99)))
}

func TestCleanupNilLogger(t *testing.T) {
	Logger = nil
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	assert.NotPanics(t, Cleanup)
	assert.NotPanics(t, func() { Warnw("no logger") })
}
