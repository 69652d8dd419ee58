package linalg

import (
	"golang.org/x/sys/cpu"
)

// cpuFeatures tracks the instruction set extensions that matter for the
// blocked kernels below. Wider vector units reward larger blocks.
type cpuFeatures struct {
	hasAVX2   bool
	hasAVX512 bool
	hasFMA    bool
}

var features cpuFeatures

func init() {
	features = cpuFeatures{
		hasAVX2:   cpu.X86.HasAVX2,
		hasAVX512: cpu.X86.HasAVX512F,
		hasFMA:    cpu.X86.HasFMA,
	}
}

// blockSize returns the GEMM tile edge for the detected CPU. The values
// keep three float64 tiles resident in L1 for the respective vector width.
func blockSize() int {
	switch {
	case features.hasAVX512:
		return 64
	case features.hasAVX2 && features.hasFMA:
		return 48
	default:
		return 32
	}
}

// KernelVariant names the matmul path in use, for startup logging.
func KernelVariant() string {
	switch {
	case features.hasAVX512:
		return "blocked-avx512"
	case features.hasAVX2 && features.hasFMA:
		return "blocked-avx2"
	default:
		return "blocked-generic"
	}
}
