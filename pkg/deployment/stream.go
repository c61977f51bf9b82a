// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployment

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Observer receives the events of a Stream. Callbacks of one stream are
// never invoked concurrently. Any of them may be nil.
type Observer struct {
	Next     func(Event)
	Error    func(error)
	Complete func()
}

// Subscription is one registered Observer.
type Subscription struct {
	stream   *Stream
	observer Observer
	active   atomic.Bool
}

// Unsubscribe stops delivery to this observer. It is safe to call from
// inside a callback and more than once.
func (sub *Subscription) Unsubscribe() {
	if sub.active.Swap(false) {
		sub.stream.remove(sub)
	}
}

// Stream runs a deployment graph and multicasts its events. The graph starts
// on the first Subscribe; later subscribers see only events emitted after
// they joined. Every observer gets exactly one terminal notification.
type Stream struct {
	graph  *Graph
	parent context.Context
	log    *zap.Logger

	// emitMu serializes delivery, mu guards the fields below.
	emitMu   sync.Mutex
	mu       sync.Mutex
	subs     []*Subscription
	started  bool
	finished bool
	cancel   context.CancelFunc
	err      error
	done     chan struct{}
}

// NewStream validates g and returns a stream that runs it under ctx once
// observed.
func NewStream(ctx context.Context, g *Graph, log *zap.Logger) (*Stream, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Stream{
		graph:  g,
		parent: ctx,
		log:    log,
		done:   make(chan struct{}),
	}, nil
}

// Subscribe registers obs and starts the deployment if it has not started.
// Subscribing to a finished stream delivers only the terminal notification.
func (s *Stream) Subscribe(obs Observer) *Subscription {
	sub := &Subscription{stream: s, observer: obs}

	s.mu.Lock()
	if s.finished {
		err := s.err
		s.mu.Unlock()
		if err != nil {
			if obs.Error != nil {
				obs.Error(err)
			}
		} else if obs.Complete != nil {
			obs.Complete()
		}
		return sub
	}
	sub.active.Store(true)
	s.subs = append(s.subs, sub)
	start := !s.started
	s.started = true
	var ctx context.Context
	if start {
		ctx, s.cancel = context.WithCancel(s.parent)
	}
	s.mu.Unlock()

	if start {
		go s.run(ctx)
	}
	return sub
}

// Done is closed after the terminal notification was delivered.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the failure the stream ended with, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Stream) run(ctx context.Context) {
	err := s.graph.run(ctx, s.log, s.emit, s.finish)
	if err == nil {
		s.finish(nil)
	}
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	cancel()
}

func (s *Stream) emit(ev Event) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	subs, ok := s.snapshot()
	if !ok {
		return
	}
	s.log.Debug("deployment event",
		zap.String("type", string(ev.Type)),
		zap.String("status", string(ev.Status)),
		zap.String("contract", ev.ContractName),
		zap.String("function", ev.FunctionName),
	)
	for _, sub := range subs {
		if sub.active.Load() && sub.observer.Next != nil {
			sub.observer.Next(ev)
		}
	}
}

// finish delivers the terminal notification once. A failure is announced
// by an Error event followed by the Error callback.
func (s *Stream) finish(err error) {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.err = err
	subs := append([]*Subscription(nil), s.subs...)
	s.mu.Unlock()
	defer close(s.done)

	if err == nil {
		for _, sub := range subs {
			if sub.active.Load() && sub.observer.Complete != nil {
				sub.observer.Complete()
			}
		}
		return
	}

	ev := Event{Type: TransactionEvent, Status: StatusError, Error: err}
	var se *StageError
	if errors.As(err, &se) {
		ev.ContractName = se.ContractName
		ev.FunctionName = se.FunctionName
		if se.FunctionName == "" {
			ev.Type = ContractEvent
		}
	}
	for _, sub := range subs {
		if sub.active.Load() && sub.observer.Next != nil {
			sub.observer.Next(ev)
		}
	}
	for _, sub := range subs {
		if sub.active.Load() && sub.observer.Error != nil {
			sub.observer.Error(err)
		}
	}
}

func (s *Stream) snapshot() ([]*Subscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return nil, false
	}
	return append([]*Subscription(nil), s.subs...), true
}

// remove drops sub. When the last observer of a running stream leaves, the
// run context is cancelled; transactions already submitted stay on chain.
func (s *Stream) remove(sub *Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.subs {
		if cur == sub {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			break
		}
	}
	if len(s.subs) == 0 && s.started && !s.finished && s.cancel != nil {
		s.log.Debug("last observer left, cancelling deployment")
		s.cancel()
	}
}
