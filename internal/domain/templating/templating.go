// Package templating expands %op args% tokens embedded in item text into
// randomized values.
package templating

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"github.com/okian/dropforge/pkg/logger"
	"github.com/okian/dropforge/pkg/metrics"
)

var tokenPattern = regexp.MustCompile(`(?s)%(.*?)%`)

// OpString is a parsed template token.
type OpString struct {
	Operation string
	Arguments string
}

// ParseOpString splits a token body into its operation and arguments on the
// first run of whitespace.
func ParseOpString(body string) OpString {
	trimmed := strings.TrimSpace(body)
	idx := strings.IndexFunc(trimmed, unicode.IsSpace)
	if idx < 0 {
		return OpString{Operation: trimmed}
	}
	return OpString{
		Operation: trimmed[:idx],
		Arguments: strings.TrimLeftFunc(trimmed[idx:], unicode.IsSpace),
	}
}

// Operation is one template handler.
type Operation interface {
	// Name is used for logging and metrics.
	Name() string
	// Test reports whether the handler serves the operation.
	Test(operation string) bool
	// Invoke renders the replacement for the arguments.
	Invoke(arguments string) string
}

// Engine expands template tokens using an ordered list of operations.
type Engine struct {
	ops    []Operation
	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOperations replaces the default operations. Order is precedence.
func WithOperations(ops ...Operation) Option {
	return func(e *Engine) {
		if len(ops) > 0 {
			e.ops = ops
		}
	}
}

// New creates an Engine with the default operations (random integer,
// signed number, roman numeral) drawing from rng.
func New(rng *rand.Rand, opts ...Option) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec // loot rolls are not security sensitive
	}
	e := &Engine{
		ops: []Operation{
			RandInt{rng: rng},
			RandSign{rng: rng},
			RandRoman{rng: rng},
		},
		logger: logger.NewDiscard(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Expand replaces every recognised token in input. Replacement is literal
// and global, so identical tokens all receive the value computed for the
// first of them. Unrecognised tokens are left untouched.
func (e *Engine) Expand(ctx context.Context, input string) string {
	out := input
	for _, token := range tokenPattern.FindAllString(input, -1) {
		op := ParseOpString(strings.ReplaceAll(token, "%", ""))
		e.logger.Debug(ctx, "template token",
			logger.String("operation", op.Operation),
			logger.String("arguments", op.Arguments),
		)
		for _, h := range e.ops {
			if !h.Test(op.Operation) {
				continue
			}
			out = strings.ReplaceAll(out, token, h.Invoke(op.Arguments))
			metrics.RecordTemplateExpansion(h.Name())
			break
		}
	}
	return out
}

// ExpandAll expands each line, returning a new slice.
func (e *Engine) ExpandAll(ctx context.Context, lines []string) []string {
	if lines == nil {
		return nil
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = e.Expand(ctx, l)
	}
	return out
}
