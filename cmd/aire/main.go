// Command aire runs aire operations on image files.
//
// Usage:
//
//	aire blur --type gaussian --strength 2.5 photo.jpg
//	aire tone --curve aces --exposure 1.2 -o mapped.png hdr.png
//	aire --jobs 4 --out-dir out shadows scans/*.png
//
// Each input is decoded into a raster, processed and encoded next to the
// input (or into --out-dir) with the command name appended to its stem.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "aire:", err)
		os.Exit(1)
	}
}
