// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package d3d9 adapts a Direct3D 9 device from github.com/gonutz/d3d9 to
// the gdev state interfaces.
//
// [StateDevice] translates gdev render states, sampler states and
// texture bindings to their Direct3D 9 values so a [gdev.StateCache] can
// drive a real device:
//
//	states := gdev.NewStateCache(d3d9.NewStateDevice(device), 16)
//	states.Reset()
//
// The package is only built on Windows.
package d3d9
