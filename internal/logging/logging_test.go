package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "DEBUG", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: " Info ", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "warning", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "", wantErr: true},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				gt.True(t, errors.Is(err, ErrInvalidLevel))
				return
			}
			gt.NoError(t, err)
			gt.Equal(t, got, tt.want)
		})
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	gt.NoError(t, err)

	logger.Info("hidden message")
	logger.Warn("visible message", slog.String("path", "./assets"))

	out := buf.String()
	gt.String(t, out).Contains("visible message")
	gt.True(t, !strings.Contains(out, "hidden message"))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "loud")
	gt.Error(t, err)
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	gt.V(t, logger).NotNil()
	logger.Error("goes nowhere")
}
