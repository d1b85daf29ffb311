package items

import "github.com/goliatone/go-items/pkg/activity"

// Option configures an item at construction.
type Option func(*itemConfig)

type itemConfig struct {
	id       string
	logger   Logger
	policy   MergePolicy
	activity activity.Hooks
	channel  string
	actor    activity.Actor
}

func applyOptions(opts []Option) itemConfig {
	cfg := itemConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	return cfg
}

// WithID sets the item identifier used in events.
func WithID(id string) Option {
	return func(cfg *itemConfig) {
		cfg.id = id
	}
}

// WithLogger attaches an event logger to the item.
func WithLogger(logger Logger) Option {
	return func(cfg *itemConfig) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// WithMergePolicy selects how the first parse merges into values set before
// it. The default is MergePreserveEdits.
func WithMergePolicy(policy MergePolicy) Option {
	return func(cfg *itemConfig) {
		cfg.policy = policy
	}
}

// WithActivityHooks attaches activity hooks notified on item creation and on
// the first content modification. Nil hooks are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *itemConfig) {
		cfg.activity = normalized
	}
}

// WithActivityChannel overrides the channel stamped on activity events.
func WithActivityChannel(channel string) Option {
	return func(cfg *itemConfig) {
		cfg.channel = channel
	}
}

// WithActivityActor sets the identity stamped on activity events.
func WithActivityActor(actor activity.Actor) Option {
	return func(cfg *itemConfig) {
		cfg.actor = actor
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.ActivityHook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}
