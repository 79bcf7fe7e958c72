// Package broadcast formats found-item announcements and delivers them to
// the log.
package broadcast

import (
	"context"
	"strings"
	"sync"

	"github.com/okian/dropforge/internal/domain/chatcolor"
	"github.com/okian/dropforge/internal/domain/item"
	"github.com/okian/dropforge/internal/domain/model"
	"github.com/okian/dropforge/pkg/logger"
)

// DefaultMessage is used when no broadcast message is configured.
const DefaultMessage = "&6[DropForge] &7%receiver%&a has found a %item%&a!"

const defaultHistory = 100

// Format renders the announcement for a recipient and item.
func Format(lang model.LanguageSettings, recipient *model.Player, it *item.Item) string {
	msg := lang.BroadcastMessage
	if msg == "" {
		msg = DefaultMessage
	}
	receiver := ""
	if recipient != nil {
		receiver = recipient.Name
	}
	return chatcolor.Translate(strings.NewReplacer(
		"%receiver%", receiver,
		"%item%", it.Name(),
	).Replace(msg))
}

// LogSink logs each announcement and keeps the most recent ones.
type LogSink struct {
	logger  logger.Logger
	limit   int
	mu      sync.Mutex
	history []string
}

// Option applies a configuration option to the LogSink.
type Option func(*LogSink)

// WithLogger sets a custom logger for the sink.
func WithLogger(l logger.Logger) Option {
	return func(s *LogSink) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistory sets how many recent announcements are kept.
func WithHistory(n int) Option {
	return func(s *LogSink) {
		if n > 0 {
			s.limit = n
		}
	}
}

// NewLogSink creates a sink.
func NewLogSink(opts ...Option) *LogSink {
	s := &LogSink{logger: logger.NewDiscard(), limit: defaultHistory}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Broadcast announces the item. Without a recipient there is nobody to
// credit, so nothing is sent.
func (s *LogSink) Broadcast(ctx context.Context, lang model.LanguageSettings, recipient *model.Player, it *item.Item) {
	if recipient == nil || it == nil {
		return
	}
	msg := Format(lang, recipient, it)
	s.logger.Info(ctx, chatcolor.Strip(msg),
		logger.String("receiver", recipient.Name),
		logger.String("material", string(it.Material)),
		logger.String("item_id", it.ID.String()),
	)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, msg)
	if over := len(s.history) - s.limit; over > 0 {
		s.history = s.history[over:]
	}
}

// History returns the recent announcements, oldest first.
func (s *LogSink) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}
