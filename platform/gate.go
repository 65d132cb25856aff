package platform

import (
	"context"
	"sync"
)

// Gate is a broadcast readiness signal. Any number of goroutines may block
// in Wait; all of them are released when Set is called. Clear re-arms the
// gate so later waiters block again, which covers gateway reconnects.
type Gate struct {
	mu    sync.Mutex
	ready chan struct{}
	set   bool
}

func NewGate() *Gate {
	return &Gate{ready: make(chan struct{})}
}

func (g *Gate) Set() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.set {
		g.set = true
		close(g.ready)
	}
}

func (g *Gate) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.set {
		g.set = false
		g.ready = make(chan struct{})
	}
}

func (g *Gate) IsSet() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.set
}

// Wait blocks until the gate is set or ctx is done. The gate itself has no
// timeout; callers that need a bounded wait pass a deadline ctx.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	ready := g.ready
	g.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
