// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend provides a registry of device manager backends.
//
// Backends are registered via init() functions and selected at runtime.
// The null backend registers itself on import:
//
//	import _ "github.com/gogpu/gdev/backend/null"
//
// # Backend Selection
//
// Use Default() to open the best available backend, or Open() to request
// a specific backend by name:
//
//	b, err := backend.Open("null", 800, 600)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
//	dev := gdev.New(b)
//	if err := dev.Initialize(); err != nil {
//		log.Fatal(err)
//	}
//
// Each frame starts with BeginPaint, which runs the lost/reset sequence
// when needed:
//
//	if ok, err := b.BeginPaint(dev); ok {
//		dev.BeginFrame()
//		// draw
//		dev.EndFrame()
//		_ = b.Present()
//	}
package backend
