// Copyright Tellus Operations and each contributor.
// SPDX-License-Identifier: MIT

package logging

import (
	"context"
	"log/slog"
	"os"
	"testing"
)

func TestErrKeyConstant(t *testing.T) {
	if ErrKey != "error" {
		t.Errorf("expected ErrKey to be 'error', got %q", ErrKey)
	}
}

func TestAppendCtx(t *testing.T) {
	attr := slog.String("key1", "value1")
	ctx := AppendCtx(context.TODO(), attr)

	if ctx == nil {
		t.Fatal("expected non-nil context")
	}

	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 1 {
		t.Errorf("expected 1 attribute, got %d", len(attrs))
	}
	if attrs[0].Key != "key1" {
		t.Errorf("expected key 'key1', got %q", attrs[0].Key)
	}
	if attrs[0].Value.String() != "value1" {
		t.Errorf("expected value 'value1', got %q", attrs[0].Value.String())
	}
}

func TestAppendCtx_WithParent(t *testing.T) {
	parentCtx := AppendCtx(context.Background(), slog.String("parent_key", "parent_value"))
	childCtx := AppendCtx(parentCtx, slog.String("child_key", "child_value"))

	attrs, ok := childCtx.Value(slogFields).([]slog.Attr)
	if !ok {
		t.Fatal("expected slog attributes in context")
	}
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(attrs))
	}
	if attrs[0].Key != "parent_key" || attrs[0].Value.String() != "parent_value" {
		t.Errorf("unexpected first attribute %v", attrs[0])
	}
	if attrs[1].Key != "child_key" || attrs[1].Value.String() != "child_value" {
		t.Errorf("unexpected second attribute %v", attrs[1])
	}
}

func TestAppendCtx_NilParent(t *testing.T) {
	//nolint:staticcheck // passing nil on purpose
	ctx := AppendCtx(nil, slog.String("key", "value"))
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	if !ok || len(attrs) != 1 {
		t.Errorf("expected exactly 1 attribute, got %v", attrs)
	}
}

func TestInitStructureLogConfig_LogLevels(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "info level", logLevel: "info"},
		{name: "default level", logLevel: ""},
		{name: "unknown level falls back to default", logLevel: "bogus"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", tt.logLevel)
			h := InitStructureLogConfig()
			if h == nil {
				t.Error("expected non-nil handler")
			}
		})
	}
}

func TestInitStructureLogConfig_AddSource(t *testing.T) {
	for _, v := range []string{"true", "t", "1", "false", ""} {
		t.Setenv("LOG_ADD_SOURCE", v)
		if h := InitStructureLogConfig(); h == nil {
			t.Errorf("expected non-nil handler for LOG_ADD_SOURCE=%q", v)
		}
	}
	_ = os.Unsetenv("LOG_ADD_SOURCE")
}

func TestPriority(t *testing.T) {
	attr := Priority("high")
	if attr.Key != "priority" {
		t.Errorf("expected key 'priority', got %q", attr.Key)
	}
	if attr.Value.String() != "high" {
		t.Errorf("expected value 'high', got %q", attr.Value.String())
	}
}

func TestPriorityCritical(t *testing.T) {
	attr := PriorityCritical()
	if attr.Key != "priority" || attr.Value.String() != "critical" {
		t.Errorf("unexpected attr %v", attr)
	}
}
