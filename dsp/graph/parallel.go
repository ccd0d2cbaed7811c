package graph

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

const parallelInitialCapacity = 8192

// Parallel renders independent subgraphs on worker goroutines and merges
// their output by elementwise summation. Each worker owns its subgraph
// exclusively; only Context copies cross into a worker and only finished
// sample buffers cross back, so no audio state is shared between threads.
//
// Sampling is strict fork-join per batch: Sample blocks until every worker
// has replied. Parallel itself implements Node and is not safe for
// concurrent use by multiple consumers.
type Parallel struct {
	workers []*parallelWorker
	pool    *sync.Pool
	out     []float64
	closed  bool
}

type parallelWorker struct {
	requests chan Context
	replies  chan *[]float64
}

// NewParallel starts one worker per subgraph. Callers must Close the
// returned value when the pull loop stops.
func NewParallel(subgraphs ...Node[float64]) (*Parallel, error) {
	if len(subgraphs) == 0 {
		return nil, fmt.Errorf("graph: parallel requires at least one subgraph")
	}

	for i, sg := range subgraphs {
		if sg == nil {
			return nil, fmt.Errorf("graph: parallel subgraph %d is nil", i)
		}
	}

	p := &Parallel{
		pool: &sync.Pool{
			New: func() any {
				buf := make([]float64, 0, parallelInitialCapacity)
				return &buf
			},
		},
	}

	for _, sg := range subgraphs {
		w := &parallelWorker{
			requests: make(chan Context),
			replies:  make(chan *[]float64),
		}
		p.workers = append(p.workers, w)

		go runParallelWorker(sg, w, p.pool)
	}

	return p, nil
}

func runParallelWorker(node Node[float64], w *parallelWorker, pool *sync.Pool) {
	for ctx := range w.requests {
		buf := pool.Get().(*[]float64)
		*buf = node.Sample(ctx).CopyTo(*buf)
		w.replies <- buf
	}

	close(w.replies)
}

// Sample fans the context out to every worker and sums the replies.
func (p *Parallel) Sample(ctx Context) Buffer[float64] {
	if p.closed {
		return Constant(0.0, ctx.NumSamples)
	}

	for _, w := range p.workers {
		w.requests <- ctx
	}

	p.out = core.EnsureLen(p.out, ctx.NumSamples)
	core.Zero(p.out)

	for _, w := range p.workers {
		buf := <-w.replies
		vecmath.AddBlockInPlace(p.out, *buf)
		p.pool.Put(buf)
	}

	return FromSlice(p.out)
}

// Close stops all workers. Sample returns silence afterwards.
func (p *Parallel) Close() {
	if p.closed {
		return
	}

	p.closed = true

	for _, w := range p.workers {
		close(w.requests)
	}

	for _, w := range p.workers {
		for range w.replies {
		}
	}
}
