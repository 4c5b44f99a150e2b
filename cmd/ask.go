package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pable/go-pubg-coach/internal/config"
	"github.com/pable/go-pubg-coach/internal/model"
)

const askSystemPrompt = `You are a PUBG squad coach. You are given structured data from a
telemetry analysis tool for one match and a question from the player.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise and actionable. Focus on what the squad can actually improve.
- Avoid generic PUBG advice unless it directly explains a pattern in the data.

Metrics glossary:
- Distances are in metres. Scores are 0-100; 80+ is a strength, under 60 a weakness.
- Engagement: a distinct fight (knock or attack). Won = kills and knocks, lost = deaths.
- Third party: a death while another squad was already fighting nearby.
- Over-extension: a death far from every teammate. "estimated" means no position data.
- Rotation on time / late / borderline: how fast the squad entered each new zone.
- Route efficiency: straight-line distance / travelled distance * 100.
- Blue zone time: estimated seconds spent outside the safe zone.
- Trade kill: a teammate killed your killer within 10s.
- Kill chain: two or more kills each within 30s of the previous.`

var askCmd = &cobra.Command{
	Use:   "ask <match-prefix> <question>",
	Short: "Ask an AI coach about a stored match (requires an Anthropic API key)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().String("model", config.DefaultModel, "Anthropic model to use")
	askCmd.Flags().String("anthropic-api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	viper.BindPFlag(config.KeyModel, askCmd.Flags().Lookup("model"))
	viper.BindPFlag(config.KeyAnthropicAPIKey, askCmd.Flags().Lookup("anthropic-api-key"))
}

func runAsk(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := findMatch(db, args[0])
	if err != nil || m == nil {
		return err
	}
	ma, _, err := db.LoadAnalysis(m.MatchID)
	if err != nil {
		return fmt.Errorf("load analysis: %w", err)
	}
	if ma == nil {
		return fmt.Errorf("no stored analysis snapshot for %s; re-run analyze", m.MatchID)
	}

	contextJSON, err := buildMatchContext(ma)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), cfg.AnthropicAPIKey, cfg.Model, contextJSON, args[1])
}

// buildMatchContext serialises the scalar parts of an analysis into compact
// JSON. Raw events are left out.
func buildMatchContext(ma *model.MatchAnalysis) (string, error) {
	type weaponEntry struct {
		Weapon   string  `json:"weapon"`
		Kills    int     `json:"kills"`
		Damage   float64 `json:"damage"`
		Accuracy float64 `json:"accuracy_pct"`
		Longest  float64 `json:"longest_kill_m"`
	}
	type playerEntry struct {
		Name        string        `json:"name"`
		Kills       int           `json:"kills"`
		Knockdowns  int           `json:"knockdowns"`
		Deaths      int           `json:"deaths"`
		Assists     int           `json:"assists"`
		Revives     int           `json:"revives"`
		KD          float64       `json:"kd"`
		DamageDealt float64       `json:"damage_dealt"`
		DamageTaken float64       `json:"damage_taken"`
		AvgKillDist float64       `json:"avg_kill_distance_m"`
		HSPct       float64       `json:"hs_pct"`
		KillChains  int           `json:"kill_chains"`
		Weapons     []weaponEntry `json:"weapons"`
	}

	players := make([]playerEntry, 0, len(ma.Players))
	for i := range ma.Players {
		p := &ma.Players[i]
		s := p.Summarize(ma.MatchID)
		e := playerEntry{
			Name:        s.Name,
			Kills:       s.Kills,
			Knockdowns:  s.Knockdowns,
			Deaths:      s.Deaths,
			Assists:     s.Assists,
			Revives:     s.Revives,
			KD:          round2(s.KDRatio),
			DamageDealt: round2(s.TotalDamageDealt),
			DamageTaken: round2(s.TotalDamageTaken),
			AvgKillDist: round2(s.AvgKillDistance),
			HSPct:       round2(s.HeadshotPct),
			KillChains:  s.KillChains,
		}
		for _, w := range p.WeaponStats {
			e.Weapons = append(e.Weapons, weaponEntry{
				Weapon:   w.Weapon,
				Kills:    w.Kills,
				Damage:   round2(w.DamageDealt),
				Accuracy: round2(w.Accuracy),
				Longest:  round2(w.LongestKill),
			})
		}
		players = append(players, e)
	}

	t := ma.Telemetry
	mistakes := make([]map[string]interface{}, 0, len(t.CriticalMistakes))
	for _, cm := range t.CriticalMistakes {
		mistakes = append(mistakes, map[string]interface{}{
			"type":   cm.Type,
			"impact": cm.Impact.String(),
			"what":   cm.Description,
			"fix":    cm.Recommendation,
		})
	}
	tips := make([]string, 0, len(ma.Tips))
	for _, tip := range ma.Tips {
		tips = append(tips, tip.Title)
	}

	e, p := t.Engagement, t.Positioning
	doc := map[string]interface{}{
		"match_id":  ma.MatchID,
		"team_rank": ma.TeamRank,
		"squad":     ma.Roster,
		"rating":    t.OverallRating,
		"scores": map[string]interface{}{
			"positioning":     round2(ma.Scores.Positioning),
			"engagement":      round2(ma.Scores.Engagement),
			"looting":         round2(ma.Scores.Looting),
			"teamwork":        round2(ma.Scores.Teamwork),
			"decision_making": round2(ma.Scores.DecisionMaking),
			"overall":         round2(ma.Scores.Overall),
		},
		"players": players,
		"engagement": map[string]interface{}{
			"total":                    e.TotalEngagements,
			"won":                      e.WonEngagements,
			"lost":                     e.LostEngagements,
			"win_rate_pct":             round2(e.WinRate),
			"avg_distance_m":           round2(e.AvgEngagementDistance),
			"third_party":              e.ThirdPartySituations,
			"unfavorable_deaths":       e.UnfavorableRangeDeaths,
			"high_ground":              e.Positioning.HighGroundAdvantage,
			"over_extensions":          e.Positioning.OverExtensions,
			"over_extension_estimated": e.Positioning.OverExtensionEstimated,
		},
		"positioning": map[string]interface{}{
			"zones":              p.Rotation.Transitions,
			"on_time":            p.Rotation.OnTime,
			"late":               p.Rotation.Late,
			"borderline":         p.Rotation.Borderline,
			"avg_rotation_s":     round2(p.Rotation.AvgRotationTime),
			"route_efficiency":   round2(p.Rotation.RouteEfficiency),
			"blue_zone_damage":   round2(p.BlueZoneDamage),
			"blue_zone_time_s":   round2(p.BlueZoneTime),
			"compounds_held":     len(p.Compounds),
			"vehicle_rides":      p.VehicleUsage,
			"final_circle_style": p.FinalCircle.Style,
		},
		"looting": map[string]interface{}{
			"items":                t.Looting.ItemsPickedUp,
			"weapons":              t.Looting.WeaponsPickedUp,
			"heals":                t.Looting.HealsUsed,
			"boosts":               t.Looting.BoostsUsed,
			"time_to_first_weapon": t.Looting.TimeToFirstWeapon.Seconds(),
		},
		"teamwork": map[string]interface{}{
			"revives":      t.TeamCoordination.Revives,
			"assists":      t.TeamCoordination.Assists,
			"trades":       t.TeamCoordination.TradeKills,
			"avg_spread_m": round2(t.TeamCoordination.AvgTeamSpread),
		},
		"mistakes":   mistakes,
		"tip_titles": tips,
	}

	b, err := json.Marshal(doc)
	return string(b), err
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set %s_ANTHROPIC_API_KEY, ANTHROPIC_API_KEY or use --anthropic-api-key", config.EnvPrefix)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n--- Coach -------------------------------------------")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: askSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n-----------------------------------------------------")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
