// Package analyzer runs the full match pipeline: classification, per-player
// combat analysis, team tactics, scoring and coaching tips.
package analyzer

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-pubg-coach/internal/classify"
	"github.com/pable/go-pubg-coach/internal/combat"
	"github.com/pable/go-pubg-coach/internal/model"
	"github.com/pable/go-pubg-coach/internal/scoring"
	"github.com/pable/go-pubg-coach/internal/tactics"
	"github.com/pable/go-pubg-coach/internal/telemetry"
)

// Input is one match to analyse.
type Input struct {
	MatchID    string
	MatchStart time.Time
	Roster     []string
	TeamRank   int
	Events     []model.Event
}

// Engine analyses matches. It holds no per-match state and is safe for
// concurrent use.
type Engine struct {
	log *zap.Logger
}

// New returns an Engine that logs to log. A nil logger discards output.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Analyze runs the pipeline over in.Events. The events are not modified.
// The only error is a cancelled context.
func (e *Engine) Analyze(ctx context.Context, in Input) (*model.MatchAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	began := time.Now()
	log := e.log.With(zap.String("match_id", in.MatchID))

	roster := classify.NewRoster(in.Roster)
	var relevant []model.Event
	for _, ev := range in.Events {
		if ev != nil && classify.Relevant(ev.Kind()) {
			relevant = append(relevant, ev)
		}
	}
	all := classify.Split(relevant)
	team := classify.Split(classify.Filter(relevant, roster))
	log.Debug("classified events",
		zap.Int("events", len(in.Events)),
		zap.Int("relevant", len(relevant)),
		zap.Int("roster", roster.Len()),
	)

	names := roster.Names()
	players := make([]model.PlayerAnalysis, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			players[i] = combat.AnalyzePlayer(name, &team, &all)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyze %s: %w", in.MatchID, err)
	}

	m := tactics.Match{
		Roster:   roster,
		Team:     &team,
		All:      &all,
		Start:    in.MatchStart,
		TeamRank: in.TeamRank,
	}
	tel := tactics.Analyze(in.MatchID, m, players)
	scores := scoring.Summarize(tel, in.TeamRank)
	tel.OverallRating = scoring.Rating(scores.Overall)
	tips := scoring.Generate(tel, scores, in.TeamRank)

	log.Info("analysed match",
		zap.Int("players", len(players)),
		zap.Int("mistakes", len(tel.CriticalMistakes)),
		zap.Float64("overall", scores.Overall),
		zap.String("rating", tel.OverallRating),
		zap.Duration("took", time.Since(began)),
	)

	return &model.MatchAnalysis{
		MatchID:    in.MatchID,
		MatchStart: in.MatchStart,
		TeamRank:   in.TeamRank,
		Roster:     names,
		Players:    players,
		Telemetry:  tel,
		Scores:     scores,
		Tips:       tips,
	}, nil
}

// AnalyzeReader decodes a telemetry payload from r and analyses it. in.Events
// is replaced by the decoded events. A payload that cannot be read or parsed
// yields a *telemetry.FetchError and no analysis.
func (e *Engine) AnalyzeReader(ctx context.Context, r io.Reader, in Input) (*model.MatchAnalysis, error) {
	events, err := telemetry.Decode(r)
	if err != nil {
		e.log.Warn("telemetry rejected", zap.String("match_id", in.MatchID), zap.Error(err))
		return nil, err
	}
	in.Events = events
	return e.Analyze(ctx, in)
}
