package aire

import (
	"log/slog"
	"sync/atomic"
)

// silent is the default logger. slog.DiscardHandler reports every level as
// disabled, so operation records are never formatted.
var silent = slog.New(slog.DiscardHandler)

// pkgLogger is consulted by every Aire without its own logger. It is read
// on each operation and may be replaced at any time.
var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(silent)
}

// SetLogger replaces the package-wide logger used by every Aire that was
// not given one through WithLogger. Passing nil restores the silent
// default. Aires pick the new logger up on their next operation.
//
// Records emitted by aire:
//   - [slog.LevelDebug]: one per operation (op, geometry, elapsed) and the
//     convolution method when one is chosen
//   - [slog.LevelInfo]: Init (version, CPU features)
//   - [slog.LevelWarn]: failed or cancelled operations
//
// To see them on stderr:
//
//	aire.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	pkgLogger.Store(l)
}

// Logger returns the package-wide logger. It is safe for concurrent use.
func Logger() *slog.Logger {
	return pkgLogger.Load()
}
