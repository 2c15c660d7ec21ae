package aire

import (
	"context"
	"log/slog"
	"time"

	"github.com/gogpu/aire/internal/filter"
	"github.com/gogpu/aire/internal/parallel"
	"github.com/gogpu/aire/raster"
)

// Aire is the facade over every capability pipeline. Create it with New and
// release its workers with Close.
//
// Thread safety: all methods are safe for concurrent use.
type Aire struct {
	BlurPipeline
	ConvolutionPipeline
	ProcessingPipeline
	TonePipeline
	EffectsPipeline
	ScalePipeline
	YuvPipeline

	e *engine
}

// engine is the state shared by the pipelines of one Aire.
type engine struct {
	cfg  config
	pool *parallel.Pool
}

// New creates an Aire with the given options.
func New(opts ...Option) *Aire {
	Init()

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &engine{cfg: cfg, pool: parallel.NewPool(cfg.workers)}
	e.logger().Debug("aire: facade created",
		"workers", e.pool.Workers(),
		"border", cfg.border.String(),
		"method", cfg.method.String())

	return &Aire{
		BlurPipeline:        BlurPipeline{e},
		ConvolutionPipeline: ConvolutionPipeline{e},
		ProcessingPipeline:  ProcessingPipeline{e},
		TonePipeline:        TonePipeline{e},
		EffectsPipeline:     EffectsPipeline{e},
		ScalePipeline:       ScalePipeline{e},
		YuvPipeline:         YuvPipeline{e},
		e:                   e,
	}
}

// Close stops the worker pool. Operations started after Close run on the
// calling goroutine.
func (a *Aire) Close() {
	a.e.pool.Close()
}

// Workers returns the number of pool workers.
func (a *Aire) Workers() int {
	return a.e.pool.Workers()
}

// Border returns the configured border policy.
func (a *Aire) Border() raster.Border {
	return a.e.cfg.border
}

func (e *engine) logger() *slog.Logger {
	if e.cfg.logger != nil {
		return e.cfg.logger
	}
	return Logger()
}

// filterOptions returns the options handed to the internal engines. A
// closed pool still runs bands, sequentially on the caller.
func (e *engine) filterOptions() filter.Options {
	return filter.Options{Border: e.cfg.border, Method: e.cfg.method, Pool: e.pool}
}

// run checks src, invokes fn and logs the outcome. Errors are prefixed
// with op.
func (e *engine) run(ctx context.Context, op string, src *raster.Raster, fn func() (*raster.Raster, error)) (*raster.Raster, error) {
	if src == nil {
		return nil, wrapError(op, invalidf("nil source raster"))
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapError(op, err)
	}
	start := time.Now()
	dst, err := fn()
	log := e.logger()
	if err != nil {
		log.Warn("aire: operation failed", "op", op, "err", err)
		return nil, wrapError(op, err)
	}
	if log.Enabled(ctx, slog.LevelDebug) {
		log.Debug("aire: operation",
			"op", op,
			"width", src.Width(),
			"height", src.Height(),
			"channels", src.Channels(),
			"elapsed", time.Since(start))
	}
	return dst, nil
}
