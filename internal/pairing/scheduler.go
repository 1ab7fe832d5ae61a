package pairing

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/quasar-data/crossmatch/internal/monitoring"
)

// Chunked worker pool over the island list. Chunks are contiguous index
// ranges handed to workers over a channel; per-chunk cost is roughly uniform
// because island sizes are bounded, so no dynamic balancing is needed.
// Workers write into disjoint regions of the shared results slice, keyed by
// island index, so completion order never matters and no locking is required
// during processing. Cancellation is observed only between chunks; a chunk in
// flight always completes whole.

type chunkRange struct{ lo, hi int }

func resolveIslands(ctx context.Context, in *Inputs, phot *PhotLike, opts Options) ([]IslandResult, error) {
	nIslands := len(in.Islands)
	results := make([]IslandResult, nIslands)
	if nIslands == 0 {
		return results, nil
	}

	chunks := make(chan chunkRange)
	var wg sync.WaitGroup
	var stopped atomic.Bool
	var errMu sync.Mutex
	var firstErr error
	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
		stopped.Store(true)
	}

	workers := opts.NumWorkers
	if workers > nIslands {
		workers = nIslands
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ch := range chunks {
				if stopped.Load() || ctx.Err() != nil {
					continue // drain remaining chunks without processing
				}
				for i := ch.lo; i < ch.hi; i++ {
					r, err := ResolveIsland(in, phot, opts.MaxIslandSources, i)
					if err != nil {
						fail(err)
						break
					}
					results[i] = r
				}
			}
		}()
	}

	nChunks := 0
	for lo := 0; lo < nIslands; lo += opts.ChunkSize {
		hi := lo + opts.ChunkSize
		if hi > nIslands {
			hi = nIslands
		}
		chunks <- chunkRange{lo, hi}
		nChunks++
	}
	close(chunks)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	monitoring.Logf("pairing: resolved %d islands in %d chunks across %d workers",
		nIslands, nChunks, workers)
	return results, nil
}
