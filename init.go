package aire

import (
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

var initOnce sync.Once

// Init performs one-time process setup: it records the detected CPU
// features through the package logger. It is safe to call concurrently and
// every call after the first is a no-op. New calls Init, so calling it
// explicitly is only needed to control when the log record is emitted.
func Init() {
	initOnce.Do(func() {
		Logger().Info("aire: initialized",
			"version", Version,
			"goarch", runtime.GOARCH,
			"cpus", runtime.NumCPU(),
			"features", cpuFeatures())
	})
}

// cpuFeatures lists the SIMD extensions relevant to the compiler's
// auto-vectorized loops.
func cpuFeatures() []string {
	var f []string
	add := func(ok bool, name string) {
		if ok {
			f = append(f, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasSSE41, "sse4.1")
		add(cpu.X86.HasAVX, "avx")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasFMA, "fma")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasFPHP, "fphp")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return f
}
