// Package insight produces short guidance for the user. Each call tries the remote
// language model when one is configured and otherwise, or on any remote failure,
// answers from the deterministic rules in fallback.go.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/productivity/domain"
	"github.com/fastygo/productivity/usecase/analytics"
)

// Completer sends one prompt to the remote model.
type Completer interface {
	Complete(ctx context.Context, req domain.CompletionRequest) (string, error)
}

// Source tags which path produced a result.
type Source string

const (
	SourceRemote   Source = "remote"
	SourceFallback Source = "fallback"
)

// Insights is the result of GenerateInsights.
type Insights struct {
	Lines  []string `json:"insights"`
	Source Source   `json:"source"`
}

// Accountability is the result of GenerateAccountability.
type Accountability struct {
	Message string `json:"message"`
	Source  Source `json:"source"`
}

const (
	insightSystemPrompt        = "You are an AI productivity coach that provides brief, actionable insights. Each insight should be under 100 characters and actionable."
	accountabilitySystemPrompt = "You are a supportive productivity coach. Create brief, encouraging check-in messages under 150 characters."
)

var errEmptyCompletion = errors.New("empty completion")

type Option func(*Generator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Generator serializes remote calls behind its own lock.
type Generator struct {
	mu     sync.Mutex
	remote Completer
	now    func() time.Time
	logger *zap.Logger
}

// New builds a generator. A nil remote selects the fallback path for every call.
func New(remote Completer, opts ...Option) *Generator {
	g := &Generator{
		remote: remote,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if remote == nil {
		g.logger.Warn("remote model credential not configured, insights use fallback responses")
	}
	return g
}

// RemoteConfigured reports whether a remote model is wired in.
func (g *Generator) RemoteConfigured() bool {
	return g.remote != nil
}

// GenerateInsights returns one to three guidance lines. It never fails.
func (g *Generator) GenerateInsights(ctx context.Context, tasks []domain.Task) Insights {
	now := g.now()
	if g.remote != nil {
		lines, err := g.remoteInsights(ctx, tasks, now)
		if err == nil {
			g.logger.Info("generated remote insights", zap.Int("count", len(lines)))
			return Insights{Lines: lines, Source: SourceRemote}
		}
		g.logger.Error("remote insight generation failed", zap.Error(err))
	}
	return Insights{Lines: FallbackInsights(tasks, now), Source: SourceFallback}
}

// GenerateAccountability returns one check-in message. It never fails.
func (g *Generator) GenerateAccountability(ctx context.Context, tasks []domain.Task) Accountability {
	now := g.now()
	s := summarize(tasks, now)
	pending := s.total - s.completed

	if g.remote != nil {
		msg, err := g.remoteAccountability(ctx, s.completed, pending, now)
		if err == nil {
			return Accountability{Message: msg, Source: SourceRemote}
		}
		g.logger.Error("remote accountability message failed", zap.Error(err))
	}
	return Accountability{Message: FallbackAccountability(s.completed, pending, now), Source: SourceFallback}
}

// AnalyzePatterns delegates to the analytics engine.
func (g *Generator) AnalyzePatterns(tasks []domain.Task) []string {
	return analytics.AnalyzePatterns(tasks)
}

func (g *Generator) remoteInsights(ctx context.Context, tasks []domain.Task, now time.Time) ([]string, error) {
	s := summarize(tasks, now)
	prompt := fmt.Sprintf(`Analyze this productivity data and provide 3 brief, actionable insights (each under 100 characters):

Tasks Status:
- Total tasks: %d
- Completed: %d
- High priority pending: %d
- Overdue: %d

Focus on task completion strategies, time management, and motivation. Keep responses concise and encouraging.`,
		s.total, s.completed, s.highPending, s.overdue)

	content, err := g.complete(ctx, domain.CompletionRequest{
		System:      insightSystemPrompt,
		Prompt:      prompt,
		MaxTokens:   300,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, maxInsights)
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxInsights {
			break
		}
	}
	if len(lines) == 0 {
		return nil, errEmptyCompletion
	}
	return lines, nil
}

func (g *Generator) remoteAccountability(ctx context.Context, completed, pending int, now time.Time) (string, error) {
	prompt := fmt.Sprintf(`Generate a brief, encouraging accountability check-in message (under 150 characters) based on:
- %d completed tasks
- %d pending tasks
- Current time: %s

Keep it motivating, specific, and actionable.`, completed, pending, now.Format("15:04"))

	content, err := g.complete(ctx, domain.CompletionRequest{
		System:      accountabilitySystemPrompt,
		Prompt:      prompt,
		MaxTokens:   100,
		Temperature: 0.8,
	})
	if err != nil {
		return "", err
	}
	msg := strings.TrimSpace(content)
	if msg == "" {
		return "", errEmptyCompletion
	}
	return msg, nil
}

func (g *Generator) complete(ctx context.Context, req domain.CompletionRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remote.Complete(ctx, req)
}
