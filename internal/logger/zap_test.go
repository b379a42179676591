package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]bool{"debug": true, "info": false, "bogus": false}
	for level, debugEnabled := range cases {
		log, err := New(level, false)
		if err != nil {
			t.Fatalf("%s: %v", level, err)
		}
		if got := log.Core().Enabled(zap.DebugLevel); got != debugEnabled {
			t.Fatalf("%s: debug enabled=%v, want %v", level, got, debugEnabled)
		}
	}

	if _, err := New("warn", true); err != nil {
		t.Fatalf("development logger: %v", err)
	}
}
