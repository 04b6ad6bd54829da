package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"

	"github.com/kilianp07/railplan/core/network"
)

// Portfolio runs workers independent drivers seeded opts.Seed+i and returns
// the best result: legal first, then lowest delay, then lowest seed. A
// worker that finds a legal schedule without delay stops the others.
func Portfolio(ctx context.Context, net *network.Network, opts Options, workers int, options ...Option) Result {
	if workers <= 1 {
		return New(net, opts, options...).Search(ctx)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	base := uuid.NewString()
	p := pool.NewWithResults[Result]().WithMaxGoroutines(workers)
	for i := 0; i < workers; i++ {
		o := opts
		o.Seed = opts.Seed + int64(i)
		runOpts := append(append([]Option(nil), options...), WithRunID(fmt.Sprintf("%s-%d", base, i)))
		p.Go(func() Result {
			res := New(net, o, runOpts...).Search(ctx)
			if res.Legal && res.TotalDelay == 0 {
				cancel()
			}
			return res
		})
	}

	var best Result
	for i, r := range p.Wait() {
		if i == 0 || better(r, best) {
			best = r
		}
	}
	return best
}

func better(a, b Result) bool {
	if a.Legal != b.Legal {
		return a.Legal
	}
	if a.TotalDelay != b.TotalDelay {
		return a.TotalDelay < b.TotalDelay
	}
	return a.Seed < b.Seed
}
