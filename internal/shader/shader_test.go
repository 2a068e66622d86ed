// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package shader

import "testing"

func TestCompileEmpty(t *testing.T) {
	if _, err := Compile(""); err == nil {
		t.Error("Compile(\"\") succeeded, want error")
	}
}

func TestCompileInvalid(t *testing.T) {
	if _, err := Compile("this is not wgsl {"); err == nil {
		t.Error("Compile(invalid) succeeded, want error")
	}
}
