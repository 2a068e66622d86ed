// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package null provides an in-memory native device and device manager.
//
// The null device keeps buffers, textures and surfaces as byte slices and
// records every state change and draw call, so the device layer can be
// exercised without a GPU. The manager simulates the native lifecycle:
// Lose marks the device lost, TestCooperativeLevel reports when it may be
// reset, and Reset fails while objects created in device memory are still
// alive, the way a real driver refuses to reset.
//
//	mgr := null.NewManager(800, 600)
//	dev := gdev.New(mgr)
//	_ = dev.Initialize()
//
//	mgr.Lose()
//	ok, err := mgr.BeginPaint(dev) // releases resources, resets, reloads
package null
