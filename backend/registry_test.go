// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/gdev/backend"
	_ "github.com/gogpu/gdev/backend/null"
)

func TestNullRegistered(t *testing.T) {
	if !backend.IsRegistered(backend.BackendNull) {
		t.Fatal("null backend not registered")
	}
	if got := backend.Available(); !slices.Contains(got, backend.BackendNull) {
		t.Errorf("Available() = %v, want it to contain %q", got, backend.BackendNull)
	}
}

func TestOpen(t *testing.T) {
	b, err := backend.Open(backend.BackendNull, 320, 240)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s := b.Settings()
	if s.BackBufferWidth != 320 || s.BackBufferHeight != 240 {
		t.Errorf("back buffer = %dx%d, want 320x240", s.BackBufferWidth, s.BackBufferHeight)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenUnknown(t *testing.T) {
	_, err := backend.Open("vulkan", 1, 1)
	if !errors.Is(err, backend.ErrBackendNotAvailable) {
		t.Errorf("Open(vulkan) error = %v, want ErrBackendNotAvailable", err)
	}
}

func TestDefault(t *testing.T) {
	b, err := backend.Default(64, 64)
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if b.Native() == nil {
		t.Error("Default() backend has no native device")
	}
}

func TestRegisterUnregister(t *testing.T) {
	calls := 0
	backend.Register("custom", func(w, h int) (backend.Backend, error) {
		calls++
		return nil, errors.New("custom: no device")
	})
	defer backend.Unregister("custom")

	if _, err := backend.Open("custom", 1, 1); err == nil {
		t.Error("Open(custom) error = nil, want factory error")
	}
	if calls != 1 {
		t.Errorf("factory calls = %d, want 1", calls)
	}

	backend.Unregister("custom")
	if backend.IsRegistered("custom") {
		t.Error("custom still registered after Unregister")
	}
}
