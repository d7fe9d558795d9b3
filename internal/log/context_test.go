package log

import (
	"bytes"
	"context"
	"testing"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Format: "json", Output: &buf, Component: ComponentCLI})

	ctx := WithContext(context.Background(), logger)
	got := FromContext(ctx)
	if got != logger {
		t.Fatalf("FromContext returned a different logger")
	}
	got.Info("hello")
	if !bytes.Contains(buf.Bytes(), []byte(`"msg":"hello"`)) {
		t.Errorf("log output = %q", buf.String())
	}

	if FromContext(context.Background()) == nil {
		t.Error("FromContext without a logger returned nil")
	}
	if OrDefault(nil) == nil || OrDefault(logger) != logger {
		t.Error("OrDefault")
	}
}
