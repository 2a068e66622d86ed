// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader compiles WGSL sources to SPIR-V with naga.
package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

// Compile compiles WGSL source to SPIR-V bytes.
func Compile(wgsl string) ([]byte, error) {
	if wgsl == "" {
		return nil, errors.New("shader: empty source")
	}
	code, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}
	return code, nil
}
