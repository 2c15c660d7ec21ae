package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/aire/internal/imageio"
)

// process runs op over every input, at most g.jobs at a time, and prints a
// summary to out. The first failure cancels the remaining inputs.
func process(ctx context.Context, out io.Writer, g *globals, name string, inputs []string, op operation) error {
	inputs = lo.Uniq(inputs)
	if g.output != "" && len(inputs) > 1 {
		return fmt.Errorf("--output needs a single input, got %d", len(inputs))
	}
	if g.outDir != "" {
		if err := os.MkdirAll(g.outDir, 0o755); err != nil {
			return err
		}
	}

	a, err := g.facade()
	if err != nil {
		return err
	}
	defer a.Close()

	var pixels atomic.Int64
	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.jobs)
	for _, in := range inputs {
		eg.Go(func() error {
			dst, err := outputPath(g, name, in)
			if err != nil {
				return err
			}
			src, err := imageio.Load(in)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			res, err := op(ctx, a, src)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			if err := imageio.Save(dst, res, g.quality); err != nil {
				return fmt.Errorf("%s: %w", dst, err)
			}
			pixels.Add(int64(src.Width()) * int64(src.Height()))
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	_, err = p.Fprintf(out, "%s: %d images, %d pixels in %v\n",
		name, len(inputs), pixels.Load(), time.Since(start).Round(time.Millisecond))
	return err
}

// outputPath derives where the result for input is written.
func outputPath(g *globals, name, input string) (string, error) {
	if g.output != "" {
		return g.output, nil
	}
	ext := filepath.Ext(input)
	if g.format != "" {
		ext = "." + strings.TrimPrefix(g.format, ".")
	}
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := g.outDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	path := filepath.Join(dir, stem+"-"+name+ext)
	if _, err := imageio.FormatFromPath(path); err != nil {
		return "", err
	}
	return path, nil
}
