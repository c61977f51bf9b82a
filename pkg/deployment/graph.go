// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployment

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Node is one stage of a deployment.
type Node struct {
	Name string
	Deps []string
	// ContractName and FunctionName label the Error event when Run fails.
	ContractName string
	FunctionName string
	// Kind classifies failures of Run that carry no kind of their own.
	// Defaults to ErrTransactionFailure.
	Kind error
	Run  func(ctx context.Context, emit Emitter) error
}

// Graph is a set of stages and their causal dependencies.
type Graph struct {
	nodes []*Node
}

func NewGraph() *Graph {
	return &Graph{}
}

// Add appends n to the graph. Validation happens in Validate.
func (g *Graph) Add(n Node) {
	g.nodes = append(g.nodes, &n)
}

// Validate rejects duplicate names, unknown dependencies and cycles.
func (g *Graph) Validate() error {
	byName := make(map[string]*Node, len(g.nodes))
	for _, n := range g.nodes {
		if n.Run == nil {
			return Configurationf("stage %q has nothing to run", n.Name)
		}
		if _, ok := byName[n.Name]; ok {
			return Configurationf("duplicate stage %q", n.Name)
		}
		byName[n.Name] = n
	}
	for _, n := range g.nodes {
		for _, d := range n.Deps {
			if _, ok := byName[d]; !ok {
				return Configurationf("stage %q depends on unknown stage %q", n.Name, d)
			}
		}
	}

	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[string]int, len(g.nodes))
	var visit func(n *Node) error
	visit = func(n *Node) error {
		switch state[n.Name] {
		case visiting:
			return Configurationf("dependency cycle through stage %q", n.Name)
		case visited:
			return nil
		}
		state[n.Name] = visiting
		for _, d := range n.Deps {
			if err := visit(byName[d]); err != nil {
				return err
			}
		}
		state[n.Name] = visited
		return nil
	}
	for _, n := range g.nodes {
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}

// run executes every stage once all of its dependencies completed. The first
// failure is handed to fail and stops stages that have not started yet;
// stages already running are left to finish. It returns the first failure.
func (g *Graph) run(ctx context.Context, log *zap.Logger, emit Emitter, fail func(error)) error {
	done := make(map[string]chan struct{}, len(g.nodes))
	for _, n := range g.nodes {
		done[n.Name] = make(chan struct{})
	}
	abort := make(chan struct{})

	var (
		once     sync.Once
		firstErr error
	)
	failed := func(n *Node, err error) {
		kind := n.Kind
		if kind == nil {
			kind = ErrTransactionFailure
		}
		err = wrapStageError(n, err, kind)
		once.Do(func() {
			firstErr = err
			close(abort)
			log.Debug("stage failed", zap.String("stage", n.Name), zap.Error(err))
			fail(err)
		})
	}

	var eg errgroup.Group
	for _, n := range g.nodes {
		eg.Go(func() error {
			for _, d := range n.Deps {
				select {
				case <-done[d]:
				case <-abort:
					return nil
				case <-ctx.Done():
					failed(n, ctx.Err())
					return nil
				}
			}
			select {
			case <-abort:
				return nil
			default:
			}
			if err := ctx.Err(); err != nil {
				failed(n, err)
				return nil
			}
			log.Debug("stage started", zap.String("stage", n.Name))
			if err := n.Run(ctx, emit); err != nil {
				failed(n, err)
				return nil
			}
			close(done[n.Name])
			return nil
		})
	}
	_ = eg.Wait()
	return firstErr
}
