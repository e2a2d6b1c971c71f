package stats

import (
	"context"

	"github.com/verte-zerg/catvocab/internal/model"
)

// RoundSource lists recorded rounds and their character stats.
type RoundSource interface {
	ListRounds(ctx context.Context, cfg model.StatsConfig) ([]model.RoundAggregate, error)
	ListCharAggregatesForRounds(ctx context.Context, roundIDs []string) ([]model.CharAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Rounds         []model.RoundAggregate
	WindowRoundIDs []string
	CharAggsAll    []model.CharAggregate
	CharAggsWindow []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src RoundSource, cfg model.StatsConfig) (Report, error) {
	rounds, err := src.ListRounds(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(rounds) > cfg.Last {
		rounds = rounds[len(rounds)-cfg.Last:]
	}

	allIDs := roundIDs(rounds)
	windowIDs := lastRoundIDs(rounds, cfg.CurveWindow)
	charAggsAll, err := src.ListCharAggregatesForRounds(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	charAggsWindow, err := src.ListCharAggregatesForRounds(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Rounds:         rounds,
		WindowRoundIDs: windowIDs,
		CharAggsAll:    charAggsAll,
		CharAggsWindow: charAggsWindow,
	}, nil
}

func roundIDs(rounds []model.RoundAggregate) []string {
	ids := make([]string, len(rounds))
	for i, r := range rounds {
		ids[i] = r.RoundID
	}
	return ids
}

func lastRoundIDs(rounds []model.RoundAggregate, window int) []string {
	if window <= 0 || len(rounds) <= window {
		return roundIDs(rounds)
	}
	return roundIDs(rounds[len(rounds)-window:])
}
