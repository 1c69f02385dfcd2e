// Copyright 2026 TapeGrad Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu exposes the pure-Go CPU backend.
package cpu

import (
	"github.com/tapegrad-ml/tapegrad/internal/backend/cpu"
)

// Backend computes on the CPU with gonum kernels.
type Backend = cpu.CPUBackend

// New creates a CPU backend.
func New() *Backend {
	return cpu.New()
}
