package main

import (
	"context"
	"runtime"
	"sync"

	nbpublish "github.com/devmotion/process-notebooks-action"
)

// Processor is the interface for the publishing service.
type Processor interface {
	Process(ctx context.Context, input nbpublish.Input) (*nbpublish.Result, error)
}

// Compile-time interface implementation check.
var _ Processor = (*nbpublish.Service)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire() Processor
	Release(Processor)
	Size() int
}

// ServicePool manages nbpublish.Service instances for parallel
// processing. Each service may hold its own browser instance when PDF
// output is enabled, so services are created lazily on first acquire.
type ServicePool struct {
	size     int
	opts     []nbpublish.Option
	services []*nbpublish.Service
	sem      chan Processor
	mu       sync.Mutex
	created  int
	closed   bool
}

// Compile-time check that ServicePool implements Pool.
var _ Pool = (*ServicePool)(nil)

// NewServicePool creates a pool with capacity for n Service instances,
// each constructed with the given options.
func NewServicePool(n int, opts ...nbpublish.Option) *ServicePool {
	if n < 1 {
		n = 1
	}

	return &ServicePool{
		size:     n,
		opts:     opts,
		services: make([]*nbpublish.Service, 0, n),
		sem:      make(chan Processor, n),
	}
}

// Acquire gets a service from the pool, creating one if needed.
// Blocks if all services are in use.
func (p *ServicePool) Acquire() Processor {
	select {
	case svc := <-p.sem:
		return svc
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		svc := nbpublish.New(p.opts...)

		p.mu.Lock()
		p.services = append(p.services, svc)
		p.mu.Unlock()

		return svc
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns a service to the pool.
func (p *ServicePool) Release(svc Processor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- svc
	}
}

// Close releases all browser resources.
func (p *ServicePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	services := p.services
	p.mu.Unlock()

	var lastErr error
	for _, svc := range services {
		if err := svc.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Size returns the pool capacity.
func (p *ServicePool) Size() int {
	return p.size
}

// resolvePoolSize determines the pool size.
// Priority: explicit flag > GOMAXPROCS-based calculation.
func resolvePoolSize(flagWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs in containers)
	available := runtime.GOMAXPROCS(0)
	n := available / 2

	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
