package client

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is how often a job is polled when no interval is given.
const DefaultPollInterval = time.Second

// PollHandlers receives job state observations. Any handler may be nil.
type PollHandlers struct {
	// OnProgress is called for each poll while the job is downloading
	// (and once for the starting state, with progress 0).
	OnProgress func(progress float64)
	// OnCompleted is called once when the job completes. Polling stops.
	OnCompleted func(filePath string)
	// OnError is called once when the job fails. Polling stops.
	OnError func(message string)
	// OnPollError is called when a status request itself fails.
	// Polling stops; a lost server is not recoverable by retrying a
	// fixed job ID forever.
	OnPollError func(err error)
}

// Poller watches one download job on a fixed interval until it reaches a
// terminal state or is stopped. It keeps a single request in flight and
// never fires after Stop returns a done signal.
type Poller struct {
	client   *Client
	jobID    string
	interval time.Duration
	handlers PollHandlers

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewPoller creates a poller for jobID. interval <= 0 selects the default
// of one second.
func (c *Client) NewPoller(jobID string, interval time.Duration, handlers PollHandlers) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		client:   c,
		jobID:    jobID,
		interval: interval,
		handlers: handlers,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the polling loop. The first poll happens immediately.
func (p *Poller) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	// Fold the stop signal into the request context so Stop aborts an
	// in-flight status request as well as the loop.
	go func() {
		select {
		case <-p.stop:
			cancel()
		case <-p.done:
			cancel()
		}
	}()

	go func() {
		defer close(p.done)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			if terminal := p.poll(ctx); terminal {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop cancels the loop. It is safe to call more than once, from any
// goroutine, and before or after the loop has finished.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// Done is closed when the loop has fully stopped; no handler fires after.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

// poll makes one status request and dispatches it. Returns true when
// polling should stop.
func (p *Poller) poll(ctx context.Context) bool {
	status, err := p.client.Status(ctx, p.jobID)
	if err != nil {
		if ctx.Err() != nil {
			return true
		}
		if p.handlers.OnPollError != nil {
			p.handlers.OnPollError(err)
		}
		return true
	}

	switch status.State {
	case StateCompleted:
		if p.handlers.OnCompleted != nil {
			p.handlers.OnCompleted(status.FilePath)
		}
		return true
	case StateError:
		if p.handlers.OnError != nil {
			p.handlers.OnError(status.Error)
		}
		return true
	case StateStarting, StateDownloading:
		if p.handlers.OnProgress != nil {
			p.handlers.OnProgress(status.Progress)
		}
		return false
	default:
		// Unknown states keep polling; never terminate silently on a
		// status this client does not recognize.
		return false
	}
}
