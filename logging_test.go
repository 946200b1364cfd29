package sox

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerDebugGating(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLoggerTo(&out, &errOut, "core", false)

	if logger.DebugEnabled() {
		t.Errorf("Expected debug to start disabled")
	}

	logger.Debugf("hidden %d", 1)
	if out.Len() != 0 {
		t.Errorf("Expected no output while debug disabled, got %q", out.String())
	}

	logger.SetDebug(true)
	if !logger.DebugEnabled() {
		t.Errorf("Expected debug to be enabled after SetDebug")
	}

	logger.Debugf("visible %d", 2)
	if !strings.Contains(out.String(), "[core] DEBUG: visible 2") {
		t.Errorf("Expected debug line in output, got %q", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("Expected debug output on the info stream, got %q", errOut.String())
	}
}

func TestLoggerStreamRouting(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLoggerTo(&out, &errOut, "app", false)

	logger.Infof("started with %d emitters", 3)
	logger.Warnf("missing font %s", "test.ttf")
	logger.Errorf("device lost")

	if !strings.Contains(out.String(), "[app] INFO: started with 3 emitters") {
		t.Errorf("Expected info line on out stream, got %q", out.String())
	}
	if strings.Contains(out.String(), "WARN") || strings.Contains(out.String(), "ERROR") {
		t.Errorf("Expected warnings and errors off the info stream, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[app] WARN: missing font test.ttf") {
		t.Errorf("Expected warn line on err stream, got %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "[app] ERROR: device lost") {
		t.Errorf("Expected error line on err stream, got %q", errOut.String())
	}
}

func TestLoggerWithoutPrefix(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewLoggerTo(&out, &errOut, "", false)

	logger.Infof("boot")
	if strings.Contains(out.String(), "[") {
		t.Errorf("Expected no prefix brackets, got %q", out.String())
	}
	if !strings.Contains(out.String(), "INFO: boot") {
		t.Errorf("Expected bare info line, got %q", out.String())
	}
}

func TestNopLogger(t *testing.T) {
	logger := NewNopLogger()

	logger.SetDebug(true)
	if logger.DebugEnabled() {
		t.Errorf("Expected nop logger to stay out of debug mode")
	}

	logger.Debugf("dropped")
	logger.Infof("dropped")
	logger.Warnf("dropped")
	logger.Errorf("dropped")
}
