// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package d3d9

import (
	"bytes"
	"errors"
	"log/slog"
	"runtime"
	"strings"
	"testing"
	"unsafe"

	"github.com/gogpu/gdev"
)

func TestLockedBytes(t *testing.T) {
	backing := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	bits := uintptr(unsafe.Pointer(&backing[0]))

	got := lockedBytes(&bits, 6)
	if len(got) != 6 {
		t.Fatalf("len = %d, want 6", len(got))
	}
	got[5] = 0xEE
	if backing[5] != 0xEE {
		t.Error("slice does not alias the locked memory")
	}
	runtime.KeepAlive(backing)

	var null uintptr
	if lockedBytes(&null, 16) != nil {
		t.Error("lockedBytes(nil address) != nil")
	}
}

func TestLogFailure(t *testing.T) {
	orig := gdev.Logger()
	t.Cleanup(func() { gdev.SetLogger(orig) })
	var buf bytes.Buffer
	gdev.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	logFailure("UnlockRect", nil, "level", 0)
	if buf.Len() != 0 {
		t.Fatalf("logged on success: %s", buf.String())
	}

	logFailure("UnlockRect", errors.New("invalid call"), "level", 2)
	out := buf.String()
	for _, want := range []string{"level=WARN", "d3d9: UnlockRect failed", "level=2", "err=\"invalid call\""} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}
