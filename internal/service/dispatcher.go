package service

import (
	"context"
	"errors"
	"fmt"

	"mailgun-admin/internal/core/domain"

	"github.com/rs/zerolog"
)

// EventHandler handles one webhook event.
type EventHandler func(ctx context.Context, ev domain.WebhookEvent) error

// BatchHook runs once per inbound call, before or after its events.
type BatchHook func(ctx context.Context, events []domain.WebhookEvent) error

// Dispatcher routes webhook events to handlers by category. Handlers are
// registered at startup and run in registration order; it is not safe to
// register while dispatching.
type Dispatcher struct {
	before     []BatchHook
	after      []BatchHook
	any        []EventHandler
	byCategory map[domain.EventCategory][]EventHandler
	log        zerolog.Logger
}

// DispatchResult counts the outcome of one Dispatch call.
type DispatchResult struct {
	Processed int
	Skipped   int
	Err       error
}

// NewDispatcher creates a dispatcher with no handlers.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		byCategory: make(map[domain.EventCategory][]EventHandler),
		log:        log.With().Str("component", "dispatcher").Logger(),
	}
}

func (d *Dispatcher) Before(h BatchHook) { d.before = append(d.before, h) }

func (d *Dispatcher) After(h BatchHook) { d.after = append(d.after, h) }

// OnAny registers h for every known event, ahead of category handlers.
func (d *Dispatcher) OnAny(h EventHandler) { d.any = append(d.any, h) }

// On registers h for every event in category c.
func (d *Dispatcher) On(c domain.EventCategory, h EventHandler) {
	d.byCategory[c] = append(d.byCategory[c], h)
}

// OnEngagement registers h for opened and clicked events.
func (d *Dispatcher) OnEngagement(h EventHandler) { d.On(domain.CategoryEngagement, h) }

// OnGeneration registers h for delivered events.
func (d *Dispatcher) OnGeneration(h EventHandler) { d.On(domain.CategoryGeneration, h) }

// OnMessage registers h for complaints and failures.
func (d *Dispatcher) OnMessage(h EventHandler) { d.On(domain.CategoryMessage, h) }

// OnUnsubscribe registers h for unsubscribed events.
func (d *Dispatcher) OnUnsubscribe(h EventHandler) { d.On(domain.CategoryUnsubscribe, h) }

// Dispatch runs the hooks and handlers for events. Events of an unknown type
// are skipped. Handler errors and panics are logged and joined into Err; they
// never stop the remaining handlers.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.WebhookEvent) DispatchResult {
	var res DispatchResult
	var errs []error

	for _, h := range d.before {
		if err := callHook(ctx, h, events); err != nil {
			errs = append(errs, err)
		}
	}

	for _, ev := range events {
		category := ev.Type.Category()
		if category == "" {
			res.Skipped++
			d.log.Debug().Str("type", string(ev.Type)).Msg("no handler category for event")
			continue
		}
		res.Processed++

		handlers := append(append([]EventHandler{}, d.any...), d.byCategory[category]...)
		for _, h := range handlers {
			if err := callHandler(ctx, h, ev); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, h := range d.after {
		if err := callHook(ctx, h, events); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		res.Err = errors.Join(errs...)
		d.log.Error().Err(res.Err).Int("errors", len(errs)).Msg("webhook handlers failed")
	}
	return res
}

func callHandler(ctx context.Context, h EventHandler, ev domain.WebhookEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic on %s event: %v", ev.Type, r)
		}
	}()
	return h(ctx, ev)
}

func callHook(ctx context.Context, h BatchHook, events []domain.WebhookEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("batch hook panic: %v", r)
		}
	}()
	return h(ctx, events)
}

// LoggingHandler logs each event at info level. It is the handler set
// registered by default.
func LoggingHandler(log zerolog.Logger) EventHandler {
	return func(_ context.Context, ev domain.WebhookEvent) error {
		log.Info().
			Str("event", string(ev.Type)).
			Str("category", string(ev.Type.Category())).
			Str("recipient", ev.Recipient).
			Str("message_id", ev.MessageID).
			Time("timestamp", ev.Timestamp).
			Msg("webhook event")
		return nil
	}
}
