package monitoring

import (
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) { called = true })
	Logf("test message")
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op that must not panic and must not call through.
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("no-op logger called through to previous logger")
	}
}

func TestLogfDefaultNotNil(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}

func TestPrefixed(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var got string
	SetLogger(func(format string, v ...interface{}) { got = format })

	ingestLog := Prefixed("ingest")
	ingestLog("connected to %s", "broker")

	if !strings.HasPrefix(got, "[ingest] ") {
		t.Errorf("prefixed format = %q, want [ingest] prefix", got)
	}
}
