// Package scorer computes reference-to-query distances in parallel.
//
// Work is split into contiguous chunks, one per worker. Every query owns a
// pre-allocated slot in the output slice indexed by its input position, so
// workers never share mutable state and no locking is needed. The only shared
// input is the read-only reference sequence.
package scorer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/orneryd/snprank/pkg/fasta"
	"github.com/orneryd/snprank/pkg/simd"
)

// ScoreRecord is the distance of one query from the reference.
type ScoreRecord struct {
	// ID is copied unchanged from the query record.
	ID string
	// Distance is the number of discordant positions.
	Distance uint64
	// Index is the query's position in the input, used to break ties.
	Index int
}

// Config controls parallel scoring.
type Config struct {
	// MaxWorkers is the maximum number of goroutines to use.
	// Default: runtime.NumCPU()
	MaxWorkers int

	// MinBatchSize is the minimum number of queries before parallelizing.
	// Below this threshold scoring runs on the calling goroutine.
	MinBatchSize int
}

// DefaultConfig returns a configuration sized to the available CPUs.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:   runtime.NumCPU(),
		MinBatchSize: 64,
	}
}

// ErrWorkerFailed is wrapped by the error returned when a worker panics.
var ErrWorkerFailed = errors.New("scoring worker failed")

// ScoreAll computes kernel.Distance(ref, q.Seq) for every query.
//
// The result has exactly one entry per query, in input order. If any worker
// fails the whole call fails and no partial result is returned.
func ScoreAll(kernel simd.Kernel, ref []byte, queries []fasta.Record, cfg Config) ([]ScoreRecord, error) {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = runtime.NumCPU()
	}

	results := make([]ScoreRecord, len(queries))
	if len(queries) == 0 {
		return results, nil
	}

	if cfg.MaxWorkers == 1 || len(queries) < cfg.MinBatchSize {
		if err := scoreChunk(kernel, ref, queries, results, 0); err != nil {
			return nil, err
		}
		return results, nil
	}

	numWorkers := min(cfg.MaxWorkers, len(queries))
	chunkSize := (len(queries) + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	errs := make([]error, numWorkers)

	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		if start >= len(queries) {
			break
		}
		end := min(start+chunkSize, len(queries))

		wg.Add(1)
		go func(workerID, start, end int) {
			defer wg.Done()
			errs[workerID] = scoreChunk(kernel, ref, queries[start:end], results[start:end], start)
		}(i, start, end)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}

// scoreChunk fills out[i] for queries[i]. offset is the input index of
// queries[0].
func scoreChunk(kernel simd.Kernel, ref []byte, queries []fasta.Record, out []ScoreRecord, offset int) (err error) {
	i := 0
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: query %d (%q): %v", ErrWorkerFailed, offset+i, queries[i].ID, r)
		}
	}()

	for ; i < len(queries); i++ {
		out[i] = ScoreRecord{
			ID:       queries[i].ID,
			Distance: kernel.Distance(ref, queries[i].Seq),
			Index:    offset + i,
		}
	}
	return nil
}
