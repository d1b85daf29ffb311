package activity

import (
	"context"
	"strings"
)

// DefaultChannel is stamped on events emitted without a channel.
const DefaultChannel = "items"

// Config controls emission defaults.
type Config struct {
	Channel string
	// Actor is stamped on events that carry no identity of their own.
	Actor Actor
}

// Emitter forwards item events to hooks, filling in channel and actor.
type Emitter struct {
	hooks   Hooks
	channel string
	actor   Actor
}

// NewEmitter drops nil hooks and applies cfg defaults.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	channel := strings.TrimSpace(cfg.Channel)
	if channel == "" {
		channel = DefaultChannel
	}
	kept := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			kept = append(kept, hook)
		}
	}
	return &Emitter{hooks: kept, channel: channel, actor: cfg.Actor}
}

// Enabled reports whether any hook would receive events.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit forwards event to the hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if event.Actor.empty() {
		event.Actor = e.actor
	}
	return e.hooks.Notify(ctx, event)
}
