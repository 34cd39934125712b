package sink

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ayusman/signscribe/internal/events"
)

// Subscriber delivers session events. *events.Bus implements it.
type Subscriber interface {
	Subscribe(ctx context.Context) (<-chan events.Event, error)
}

// Dispatcher forwards bus events to every interested sink, one event at a
// time so each sink sees events in publish order.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	bus      Subscriber
	logger   *zap.Logger
}

// NewDispatcher wires a Manager and Executor to a bus.
func NewDispatcher(manager *Manager, executor *Executor, bus Subscriber, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		manager:  manager,
		executor: executor,
		bus:      bus,
		logger:   logger.Named("dispatcher"),
	}
}

// Run blocks until ctx is cancelled or the bus closes.
func (d *Dispatcher) Run(ctx context.Context) error {
	ch, err := d.bus.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("dispatcher: %w", err)
	}

	for e := range ch {
		d.Dispatch(ctx, e)
	}
	return nil
}

// Dispatch executes every sink that wants e and returns how many succeeded.
func (d *Dispatcher) Dispatch(ctx context.Context, e events.Event) int {
	ok := 0
	req := NewRequest(e)

	for _, s := range d.manager.List() {
		if !s.Wants(e.Type) {
			continue
		}

		resp, err := d.executor.Execute(ctx, s, req)
		switch {
		case err != nil:
			d.logger.Error("sink execution failed",
				zap.String("sink", s.Manifest.Name),
				zap.String("event", string(e.Type)),
				zap.Error(err))
		case !resp.Success:
			d.logger.Warn("sink reported failure",
				zap.String("sink", s.Manifest.Name),
				zap.String("event", string(e.Type)),
				zap.String("error", resp.Error))
		default:
			ok++
			d.logger.Debug("sink executed",
				zap.String("sink", s.Manifest.Name),
				zap.String("event", string(e.Type)))
		}
	}
	return ok
}
