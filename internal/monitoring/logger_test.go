package monitoring

import (
	"strings"
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op logger rather than panicking on use.
	called = false
	SetLogger(nil)
	Logf("test message")
	if called {
		t.Error("no-op logger should not have triggered callback")
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Fatal("Logf should not be nil by default")
	}
}

func TestCapture(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	lines, restore := Capture()
	Logf("island %d: %s", 3, "oversized")
	Logf("second line")
	restore()
	Logf("after restore") // must not land in lines

	if len(*lines) != 2 {
		t.Fatalf("expected 2 captured lines, got %d: %v", len(*lines), *lines)
	}
	if !strings.Contains((*lines)[0], "island 3: oversized") {
		t.Errorf("unexpected first line %q", (*lines)[0])
	}
}
