// Package broadcast signals document-set changes across recipekit processes.
// A publisher writes a timestamped envelope under a well-known storage key; a
// subscriber watches the durable counterpart file with fsnotify, falling back
// to polling, and drops stale or duplicate envelopes by timestamp. Delivery
// is fire-and-forget: later writes supersede earlier ones and nothing is
// acknowledged.
package broadcast

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"recipekit/internal/config"
	"recipekit/internal/kvstore"
	"recipekit/internal/logging"
)

// keySuffix is the well-known broadcast key under the configured prefix.
const keySuffix = "broadcast"

// Envelope is the stored form of one broadcast.
type Envelope struct {
	Timestamp time.Time `json:"ts"`
	Payload   []byte    `json:"payload"`
}

// Message is one delivered broadcast.
type Message struct {
	Timestamp time.Time
	Payload   []byte
}

// Publisher writes broadcast envelopes.
type Publisher struct {
	facade *kvstore.Facade
	key    string
	logger *slog.Logger
}

// NewPublisher builds a publisher over an initialized façade.
func NewPublisher(facade *kvstore.Facade, cfg *config.Config, logger *slog.Logger) *Publisher {
	return &Publisher{
		facade: facade,
		key:    cfg.Storage.KeyPrefix + keySuffix,
		logger: logging.NewComponentLogger(logger, "broadcast"),
	}
}

// Publish stores a timestamped envelope in the session-class store and a
// durable copy in the local class for cross-process watchers. Reports whether
// the durable write landed.
func (p *Publisher) Publish(ctx context.Context, payload []byte) bool {
	env := Envelope{Timestamp: time.Now().UTC(), Payload: payload}
	kvstore.SetJSON(ctx, p.facade, kvstore.ClassSession, p.key, env, 0)
	ok := kvstore.SetJSON(ctx, p.facade, kvstore.ClassLocal, p.key, env, 0)
	if !ok {
		p.logger.Warn("broadcast write failed",
			logging.String(logging.FieldStorageKey, p.key))
	}
	return ok
}

// Subscriber delivers broadcasts published by other processes.
type Subscriber struct {
	facade       *kvstore.Facade
	key          string
	entryPath    string
	pollInterval time.Duration
	logger       *slog.Logger

	lastSeen time.Time
}

// NewSubscriber builds a subscriber. local is the file backend holding the
// durable broadcast copy; its entry file is what fsnotify watches.
func NewSubscriber(facade *kvstore.Facade, local *kvstore.FileBackend, cfg *config.Config, logger *slog.Logger) *Subscriber {
	key := cfg.Storage.KeyPrefix + keySuffix
	interval := time.Duration(cfg.Broadcast.PollInterval) * time.Second
	if interval <= 0 {
		interval = 3 * time.Second
	}
	return &Subscriber{
		facade:       facade,
		key:          key,
		entryPath:    local.EntryPath(key),
		pollInterval: interval,
		logger:       logging.NewComponentLogger(logger, "broadcast"),
	}
}

// Watch starts delivering broadcasts until ctx is cancelled. Envelopes
// already present when the watch starts are not replayed. The returned
// channel is closed on cancellation.
func (s *Subscriber) Watch(ctx context.Context) <-chan Message {
	// Prime the stale-drop cursor so the current envelope is not replayed.
	if env, ok := kvstore.GetJSON[Envelope](ctx, s.facade, kvstore.ClassLocal, s.key); ok {
		s.lastSeen = env.Timestamp
	}

	var events <-chan fsnotify.Event
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.logger.Warn("fsnotify unavailable, using polling only", logging.Error(err))
		watcher = nil
	} else if addErr := watcher.Add(filepath.Dir(s.entryPath)); addErr != nil {
		s.logger.Warn("watch failed, using polling only", logging.Error(addErr))
		watcher.Close()
		watcher = nil
	} else {
		events = watcher.Events
	}

	ch := make(chan Message, 8)
	go func() {
		defer close(ch)
		if watcher != nil {
			defer watcher.Close()
		}

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				if ev.Name != s.entryPath {
					continue
				}
				s.deliver(ctx, ch)
			case <-ticker.C:
				s.deliver(ctx, ch)
			}
		}
	}()
	return ch
}

// deliver reads the current envelope and forwards it when newer than the last
// delivered one. A full channel drops the message; a later write will carry
// the superseding state anyway.
func (s *Subscriber) deliver(ctx context.Context, ch chan<- Message) {
	env, ok := kvstore.GetJSON[Envelope](ctx, s.facade, kvstore.ClassLocal, s.key)
	if !ok || !env.Timestamp.After(s.lastSeen) {
		return
	}
	s.lastSeen = env.Timestamp
	select {
	case ch <- Message{Timestamp: env.Timestamp, Payload: env.Payload}:
	default:
		s.logger.Warn("subscriber channel full, broadcast dropped",
			logging.String(logging.FieldStorageKey, s.key))
	}
}
