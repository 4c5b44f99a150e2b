// Package combat derives per-player combat metrics: kill chains, assists,
// weapon statistics and the PlayerAnalysis that bundles them.
package combat

import (
	"sort"
	"time"

	"github.com/pable/go-pubg-coach/internal/model"
	"github.com/pable/go-pubg-coach/internal/weapons"
)

// ChainWindow is the maximum gap between consecutive kills of one chain.
const ChainWindow = 30 * time.Second

// KillChains groups one player's kills into multi-kill chains. A chain is a
// maximal run where each kill follows the previous one by at most
// ChainWindow; runs of fewer than two kills are discarded.
func KillChains(kills []model.Kill) []model.KillChain {
	sorted := make([]model.Kill, len(kills))
	copy(sorted, kills)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})

	chains := []model.KillChain{}
	var run []model.Kill
	flush := func() {
		if len(run) >= 2 {
			chains = append(chains, buildChain(run))
		}
		run = nil
	}
	for _, k := range sorted {
		if len(run) > 0 && k.At.Sub(run[len(run)-1].At) > ChainWindow {
			flush()
		}
		run = append(run, k)
	}
	flush()
	return chains
}

func buildChain(run []model.Kill) model.KillChain {
	start := run[0].At
	duration := run[len(run)-1].At.Sub(start)

	var used []string
	seen := make(map[string]struct{})
	for _, k := range run {
		name := weapons.Name(k.Weapon)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		used = append(used, name)
	}

	kills := make([]model.Kill, len(run))
	copy(kills, run)
	return model.KillChain{
		Start:        start,
		Duration:     duration,
		Kills:        kills,
		WeaponsUsed:  used,
		AvgInterKill: duration / time.Duration(len(run)-1),
	}
}
