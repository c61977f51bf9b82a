// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package deployment

import "context"

// Collect subscribes to s and folds the completed contract deployments into
// a DeployedContracts once the stream completes. It fails with the error the
// stream reported.
func Collect(ctx context.Context, s *Stream) (DeployedContracts, error) {
	result := make(DeployedContracts)
	end := make(chan error, 1)

	sub := s.Subscribe(Observer{
		Next: result.Add,
		Error: func(err error) {
			end <- err
		},
		Complete: func() {
			end <- nil
		},
	})

	select {
	case err := <-end:
		if err != nil {
			return nil, err
		}
		return result, nil
	case <-ctx.Done():
		sub.Unsubscribe()
		return nil, ctx.Err()
	}
}

// Add records ev when it reports a completed contract deployment and
// ignores it otherwise.
func (d DeployedContracts) Add(ev Event) {
	if ev.Type != ContractEvent || ev.Status != StatusComplete || ev.Receipt == nil {
		return
	}
	d[ev.ContractName] = DeployedContract{
		Address: ev.Receipt.ContractAddress,
		Receipt: ev.Receipt,
	}
}

// Events subscribes to s and returns a channel carrying every event,
// closed after the terminal notification. The channel is buffered with
// size; a slow reader blocks the deployment.
func Events(s *Stream, size int) <-chan Event {
	ch := make(chan Event, size)
	s.Subscribe(Observer{
		Next: func(ev Event) {
			ch <- ev
		},
		Error: func(error) {
			close(ch)
		},
		Complete: func() {
			close(ch)
		},
	})
	return ch
}
