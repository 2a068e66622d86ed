// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package null

import "github.com/gogpu/gdev/backend"

func init() {
	backend.Register(backend.BackendNull, func(width, height int) (backend.Backend, error) {
		return NewManager(width, height), nil
	})
}

var _ backend.Backend = (*Manager)(nil)
