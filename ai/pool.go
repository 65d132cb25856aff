package ai

import "sync"

// Pool is the isolation boundary between gateway event callbacks and the
// blocking completion call. Event handlers hand work to the pool and
// return immediately; at most size completions run at once.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

const DefaultPoolSize = 4

func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	p := &Pool{tasks: make(chan func(), size)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

// Submit queues one task. It blocks only when every worker is busy and the
// queue is full, which backpressures a flood of questions instead of
// spawning unbounded goroutines.
func (p *Pool) Submit(task func()) {
	p.tasks <- task
}

// Close stops accepting work and waits for in-flight tasks to finish.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.tasks)
	})
	p.wg.Wait()
}
