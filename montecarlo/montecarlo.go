package montecarlo

import (
	"context"
	"math"
	"math/rand"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/timpalpant/efg"
)

// Simulator estimates the expected payoff to Player0 when two mixed
// strategies are played against each other. Each playout independently
// samples one pure strategy per player from the mixtures, then plays
// the game to a terminal node.
type Simulator struct {
	Tree      *efg.Tree
	Strategy0 efg.MixedStrategy
	Strategy1 efg.MixedStrategy
	Seed      int64
	// Workers is the number of concurrent playout goroutines; zero
	// means one per CPU. Results are reproducible for a fixed Seed
	// only with Workers set to 1.
	Workers int
}

// Result summarizes a batch of sampled playouts.
type Result struct {
	Iterations int
	Mean       float64
	Stdev      float64
	StdErr     float64
}

// ConfidenceInterval returns the interval around the sampled mean at
// the given confidence level, in percent.
func (r *Result) ConfidenceInterval(level float64) (lo, hi float64) {
	z := ZVal(level)
	return r.Mean - z*r.StdErr, r.Mean + z*r.StdErr
}

// Run performs n playouts and aggregates their payoffs. It stops early
// with the context's error if ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, n int) (*Result, error) {
	if len(s.Strategy0.Pure) == 0 || len(s.Strategy1.Pure) == 0 {
		return nil, errors.New("both players need a non-empty strategy mixture")
	}
	if n <= 0 {
		return &Result{}, nil
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan float64, 1024)
	for w := 0; w < workers; w++ {
		iters := n / workers
		if w < n%workers {
			iters++
		}
		rng := rand.New(rand.NewSource(s.Seed + int64(w)))

		g.Go(func() error {
			for i := 0; i < iters; i++ {
				if i%512 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}

				p0 := s.Strategy0.Sample(rng)
				p1 := s.Strategy1.Sample(rng)
				v, err := Playout(s.Tree, p0, p1, rng)
				if err != nil {
					return err
				}

				select {
				case results <- v:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	errc := make(chan error, 1)
	go func() {
		errc <- g.Wait()
		close(results)
	}()

	var stat Statistic
	for v := range results {
		stat.Push(v)
	}
	if err := <-errc; err != nil {
		return nil, err
	}

	result := &Result{
		Iterations: stat.Iterations(),
		Mean:       stat.Mean(),
		Stdev:      stat.Stdev(),
	}
	if result.Iterations > 0 {
		result.StdErr = result.Stdev / math.Sqrt(float64(result.Iterations))
	}

	return result, nil
}
