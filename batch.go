// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// A Result is the outcome of encoding one text of a batch.
type Result struct {
	Symbol *Symbol
	Err    error
}

// EncodeAll encodes texts with options o on at most workers goroutines,
// runtime.GOMAXPROCS(0) if workers is not positive.  Results are in the
// order of texts.  Errors of individual texts are reported in their
// Result; EncodeAll itself fails only if ctx is done before all texts
// are encoded.
func EncodeAll(ctx context.Context, texts []string, o Options, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	res := make([]Result, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res[i].Symbol, res[i].Err = EncodeOptions(text, o)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// g.Wait cancels gctx; a loop cut short by ctx leaves no error behind.
	for i := range res {
		if res[i].Symbol == nil && res[i].Err == nil {
			return nil, ctx.Err()
		}
	}
	return res, nil
}
