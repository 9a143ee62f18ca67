// Package runtime holds the relay's in-memory state and the single goroutine
// that serializes every mutation of it.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"room-relay/contract"
	"room-relay/domain"
	"room-relay/errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const kindConnect domain.CommandKind = "connect"

// connectCommand is internal: the sink never comes from the wire.
type connectCommand struct {
	connection domain.ConnectionID
	sink       contract.EventSink
}

func (connectCommand) Kind() domain.CommandKind { return kindConnect }

type handler func(s *State, cmd domain.Command) ([]Delivery, error)

// on adapts a typed State operation to the dispatch table. A command of the
// right kind but of another dynamic type, a pointer for instance, is malformed.
func on[T domain.Command](fn func(*State, T) ([]Delivery, error)) handler {
	return func(s *State, cmd domain.Command) ([]Delivery, error) {
		typed, ok := cmd.(T)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected %T", errors.ErrMalformedEvent, cmd)
		}
		return fn(s, typed)
	}
}

func infallible[T domain.Command](fn func(*State, T) []Delivery) handler {
	return on(func(s *State, cmd T) ([]Delivery, error) { return fn(s, cmd), nil })
}

var handlers = map[domain.CommandKind]handler{
	kindConnect: infallible(func(s *State, c connectCommand) []Delivery {
		return s.Connect(c.connection, c.sink)
	}),
	domain.KindRegisterRoom:   infallible((*State).RegisterRoom),
	domain.KindGetRoomName:    infallible((*State).RoomName),
	domain.KindJoinRoom:       on((*State).Join),
	domain.KindLeaveRoom:      infallible((*State).Leave),
	domain.KindDisconnect:     infallible((*State).Disconnect),
	domain.KindDeleteRoom:     infallible((*State).DeleteRoom),
	domain.KindGetOnlineUsers: infallible((*State).OnlineUsers),
	domain.KindPostMessage:    infallible((*State).PostMessage),
	domain.KindOffer:          on((*State).Forward),
	domain.KindAnswer:         on((*State).Forward),
	domain.KindICECandidate:   on((*State).Forward),
}

// Engine owns the relay State. Commands are queued by Submit and processed
// one at a time by Run, so no two mutations ever interleave.
type Engine struct {
	log             *slog.Logger
	state           *State
	validate        *validator.Validate
	commands        chan domain.Command
	stopped         chan struct{}
	stopOnce        sync.Once
	deliveryTimeout time.Duration
}

func NewEngine(log *slog.Logger, state *State, bufferSize int, deliveryTimeout time.Duration) *Engine {
	return &Engine{
		log:             log,
		state:           state,
		validate:        validator.New(),
		commands:        make(chan domain.Command, bufferSize),
		stopped:         make(chan struct{}),
		deliveryTimeout: deliveryTimeout,
	}
}

// Submit validates the command and queues it. It blocks while the queue is
// full, until ctx is done or the engine is stopped.
func (e *Engine) Submit(ctx context.Context, cmd domain.Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", errors.ErrMalformedEvent)
	}
	if reflect.ValueOf(cmd).Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s: unexpected %T", errors.ErrMalformedEvent, cmd.Kind(), cmd)
	}
	if _, ok := handlers[cmd.Kind()]; !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnknownEvent, cmd.Kind())
	}
	if err := e.validate.Struct(cmd); err != nil {
		return fmt.Errorf("%w: %s: %v", errors.ErrMalformedEvent, cmd.Kind(), err)
	}
	return e.enqueue(ctx, cmd)
}

// Connect registers the sink of a new connection.
func (e *Engine) Connect(ctx context.Context, id domain.ConnectionID, sink contract.EventSink) error {
	if id == "" || sink == nil {
		return fmt.Errorf("%w: connect without id or sink", errors.ErrMalformedEvent)
	}
	return e.enqueue(ctx, connectCommand{connection: id, sink: sink})
}

func (e *Engine) enqueue(ctx context.Context, cmd domain.Command) error {
	select {
	case <-e.stopped:
		return errors.ErrEngineStopped
	default:
	}
	select {
	case e.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-e.stopped:
		return errors.ErrEngineStopped
	}
}

// Run processes commands until ctx is done or Stop is called.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			e.log.Debug("Context done, stopping engine")
			return nil
		case <-e.stopped:
			e.log.Debug("Engine stopped")
			return nil
		case cmd := <-e.commands:
			e.handle(ctx, cmd)
		}
	}
}

// Stop makes every later Submit fail with ErrEngineStopped.
func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopped) })
}

func (e *Engine) handle(ctx context.Context, cmd domain.Command) {
	deliveries, err := handlers[cmd.Kind()](e.state, cmd)
	if err != nil {
		e.log.Warn("Command failed", "kind", cmd.Kind(), "error", err)
	} else {
		e.log.Debug("Command handled", "kind", cmd.Kind(), "deliveries", len(deliveries))
	}
	for _, d := range deliveries {
		e.deliver(ctx, d)
	}
}

// deliver is fire-and-forget: a vanished connection or a failing sink only
// costs that recipient its copy.
func (e *Engine) deliver(ctx context.Context, d Delivery) {
	for _, id := range d.To {
		sink, ok := e.state.registry.Sink(id)
		if !ok {
			e.log.Debug("Dropping event for unknown connection", "connection", id, "kind", d.Event.Kind())
			continue
		}
		sinkCtx, cancel := context.WithTimeout(ctx, e.deliveryTimeout)
		if err := sink.Consume(sinkCtx, d.Event); err != nil {
			e.log.Warn("Event delivery failed", "connection", id, "kind", d.Event.Kind(), "error", err)
		}
		cancel()
	}
}

// QueueLen is the number of commands waiting to be processed.
func (e *Engine) QueueLen() int {
	return len(e.commands)
}
