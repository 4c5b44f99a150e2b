// Package model defines telemetry events and the analysis results derived from them.
package model

import (
	"time"

	"github.com/golang/geo/r3"
)

// UnknownWeapon is the bucket for kills/damage with no weapon code.
const UnknownWeapon = "Unknown Weapon"

// WeaponCategory is a broad weapon class used for range heuristics.
type WeaponCategory string

const (
	CategorySMG     WeaponCategory = "SMG"
	CategoryAR      WeaponCategory = "AR"
	CategorySR      WeaponCategory = "SR"
	CategoryDMR     WeaponCategory = "DMR"
	CategoryLMG     WeaponCategory = "LMG"
	CategoryShotgun WeaponCategory = "Shotgun"
	CategoryPistol  WeaponCategory = "Pistol"
)

// ---- Per-player combat ----

// WeaponStats holds one player's results with one canonical weapon.
type WeaponStats struct {
	Weapon      string
	Category    WeaponCategory
	Kills       int
	Knockdowns  int
	DamageDealt float64
	ShotsFired  int
	Hits        int
	LongestKill float64 // metres

	Accuracy   float64 // hits / shots * 100
	Lethality  float64 // kills / hits * 100
	Efficiency float64 // kills / shots * 100
}

// PlayerWeaponStats is one player's WeaponStats row as stored per match.
type PlayerWeaponStats struct {
	Player string
	WeaponStats
}

// KillChain is a run of two or more kills, each within the chain window of
// the previous one.
type KillChain struct {
	Start        time.Time
	Duration     time.Duration
	Kills        []Kill
	WeaponsUsed  []string
	AvgInterKill time.Duration
}

// AssistType says what a player contributed to someone else's kill.
type AssistType string

const (
	AssistDamage    AssistType = "damage"
	AssistKnockdown AssistType = "knockdown"
	AssistBoth      AssistType = "both"
)

// AssistInfo credits a player for a kill made by another player.
type AssistInfo struct {
	Assister         string
	Victim           string
	Killer           string
	KillTime         time.Time
	Damage           float64
	DamagePercentage float64
	Type             AssistType
	Weapon           string
}

// PlayerAnalysis is the combat breakdown for one tracked player.
type PlayerAnalysis struct {
	Name string

	Kills       []Kill
	Knockdowns  []Knockdown
	DamageDealt []TakeDamage
	DamageTaken []TakeDamage
	Revives     []Revive
	Deaths      []Kill
	KnockedDown []Knockdown

	WeaponStats []WeaponStats
	KillChains  []KillChain
	Assists     []AssistInfo

	TotalDamageDealt float64
	TotalDamageTaken float64
	KDRatio          float64
	AvgKillDistance  float64 // metres
	HeadshotPct      float64
}

// ---- Team-level tactics ----

// Impact ranks how costly a mistake was.
type Impact int

const (
	ImpactLow Impact = iota + 1
	ImpactMedium
	ImpactHigh
)

func (i Impact) String() string {
	switch i {
	case ImpactHigh:
		return "HIGH"
	case ImpactMedium:
		return "MEDIUM"
	case ImpactLow:
		return "LOW"
	default:
		return "?"
	}
}

// MistakeType groups critical mistakes for tip generation.
type MistakeType string

const (
	MistakeZoneManagement   MistakeType = "ZONE_MANAGEMENT"
	MistakeEngagement       MistakeType = "ENGAGEMENT"
	MistakeTeamCoordination MistakeType = "TEAM_COORDINATION"
	MistakePositioning      MistakeType = "POSITIONING"
	MistakeLooting          MistakeType = "LOOTING"
)

// CriticalMistake is one flagged problem with the team's play.
type CriticalMistake struct {
	Type           MistakeType
	Impact         Impact
	Description    string
	Recommendation string
	Count          int
}

// WeaponEffectiveness summarises how the team used one weapon.
type WeaponEffectiveness struct {
	Weapon         string
	Category       WeaponCategory
	Kills          int
	ShotsFired     int
	Hits           int
	Accuracy       float64
	AvgDistance    float64 // metres
	Recommendation string
}

// EngagementPositioning holds positional fight metrics.
type EngagementPositioning struct {
	HighGroundAdvantage int
	OverExtensions      int
	// OverExtensionEstimated is true when no teammate position data existed
	// and OverExtensions is the fixed-share estimate.
	OverExtensionEstimated bool
}

// EngagementAnalysis scores the team's fights.
type EngagementAnalysis struct {
	TotalEngagements       int
	WonEngagements         int
	LostEngagements        int
	// WinRate is won / (won + lost) * 100. Both counts are per outcome
	// (kills plus knocks, deaths), so won+lost can exceed TotalEngagements.
	WinRate                float64
	AvgEngagementDistance  float64 // metres
	WeaponEffectiveness    []WeaponEffectiveness
	Positioning            EngagementPositioning
	ThirdPartySituations   int
	UnfavorableRangeDeaths int
	Mistakes               []CriticalMistake
	Score                  float64
}

// RotationAnalysis describes how the team moved on zone transitions.
type RotationAnalysis struct {
	Transitions     int
	OnTime          int
	Late            int
	Borderline      int
	AvgRotationTime float64 // seconds from announcement to entering the new zone
	RouteEfficiency float64 // straight-line / travelled distance * 100
	RoutesMeasured  int
}

// CompoundHold is a cluster of position samples where the team stayed.
type CompoundHold struct {
	Center   r3.Vector
	Samples  int
	HoldTime time.Duration
}

// FinalCircleStyle classifies end-game positioning.
type FinalCircleStyle string

const (
	FinalCircleUnknown  FinalCircleStyle = "unknown"
	FinalCircleCenter   FinalCircleStyle = "center_control"
	FinalCircleEdge     FinalCircleStyle = "edge_play"
	FinalCircleBalanced FinalCircleStyle = "balanced"
)

// FinalCircle describes where the team ended relative to the last zone.
type FinalCircle struct {
	Style            FinalCircleStyle
	AvgDistanceRatio float64 // distance to centre / zone radius
	ZoneRadius       float64 // metres
	PlayersMeasured  int
}

// PositioningAnalysis scores zone and map play.
type PositioningAnalysis struct {
	BlueZoneDamage float64
	BlueZoneTime   float64 // estimated seconds outside the zone
	Rotation       RotationAnalysis
	Compounds      []CompoundHold
	VehicleUsage   int
	FinalCircle    FinalCircle
	Mistakes       []CriticalMistake
	Score          float64
}

// LootingAnalysis scores item collection.
type LootingAnalysis struct {
	ItemsPickedUp       int
	WeaponsPickedUp     int
	AttachmentsPickedUp int
	HealsUsed           int
	BoostsUsed          int
	HasWeapon           bool
	TimeToFirstWeapon   time.Duration
	Mistakes            []CriticalMistake
	Score               float64
}

// TeamCoordinationAnalysis scores how the squad played together.
type TeamCoordinationAnalysis struct {
	Revives       int
	Assists       int
	TradeKills    int
	AvgTeamSpread float64 // metres
	Mistakes      []CriticalMistake
	Score         float64
}

// TelemetryAnalysisResult is the team-level aggregate for one match.
type TelemetryAnalysisResult struct {
	MatchID                  string
	CriticalMistakes         []CriticalMistake
	StrategicRecommendations []string
	Engagement               EngagementAnalysis
	Positioning              PositioningAnalysis
	Looting                  LootingAnalysis
	TeamCoordination         TeamCoordinationAnalysis
	OverallRating            string
}

// ---- Scoring and coaching ----

// Score category names, also used as strength/weakness labels.
const (
	ScorePositioning    = "positioning"
	ScoreEngagement     = "engagement"
	ScoreLooting        = "looting"
	ScoreTeamwork       = "teamwork"
	ScoreDecisionMaking = "decision making"
)

// CategoryScore is one named 0-100 score.
type CategoryScore struct {
	Name  string
	Value float64
}

// PerformanceScores is the reduced scoring view of a match.
type PerformanceScores struct {
	Positioning          float64
	Engagement           float64
	Looting              float64
	Teamwork             float64
	DecisionMaking       float64
	Overall              float64
	ImprovementPotential float64
	Strengths            []string
	Weaknesses           []string
	PriorityImprovements []string
}

// Categories returns the five category scores in fixed order.
func (s PerformanceScores) Categories() []CategoryScore {
	return []CategoryScore{
		{ScorePositioning, s.Positioning},
		{ScoreEngagement, s.Engagement},
		{ScoreLooting, s.Looting},
		{ScoreTeamwork, s.Teamwork},
		{ScoreDecisionMaking, s.DecisionMaking},
	}
}

// Urgency is how soon a tip should be acted on.
type Urgency int

const (
	UrgencyLongTerm Urgency = iota + 1
	UrgencyShortTerm
	UrgencyImmediate
)

func (u Urgency) String() string {
	switch u {
	case UrgencyImmediate:
		return "IMMEDIATE"
	case UrgencyShortTerm:
		return "SHORT_TERM"
	case UrgencyLongTerm:
		return "LONG_TERM"
	default:
		return "?"
	}
}

// Priority orders tips within the final list.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	case PriorityLow:
		return "LOW"
	default:
		return "?"
	}
}

// CoachingTip is one actionable recommendation.
type CoachingTip struct {
	Urgency     Urgency
	Priority    Priority
	Title       string
	Description string
	ActionSteps []string
	Timeframe   string
	Difficulty  string
}

// MatchAnalysis is the full output for one match and roster.
type MatchAnalysis struct {
	MatchID    string
	MatchStart time.Time
	TeamRank   int
	Roster     []string
	Players    []PlayerAnalysis
	Telemetry  TelemetryAnalysisResult
	Scores     PerformanceScores
	Tips       []CoachingTip
}

// MatchSummary is a lightweight stored record for list/show commands.
type MatchSummary struct {
	MatchID       string
	MatchStart    time.Time
	TeamRank      int
	Roster        []string
	OverallScore  float64
	OverallRating string
	AnalyzedAt    time.Time
}

// PlayerSummary is the stored scalar view of a PlayerAnalysis.
type PlayerSummary struct {
	MatchID          string
	Name             string
	Kills            int
	Knockdowns       int
	Deaths           int
	Assists          int
	Revives          int
	KillChains       int
	TotalDamageDealt float64
	TotalDamageTaken float64
	KDRatio          float64
	AvgKillDistance  float64
	HeadshotPct      float64
}

// Summarize reduces a PlayerAnalysis to its stored scalars.
func (p *PlayerAnalysis) Summarize(matchID string) PlayerSummary {
	return PlayerSummary{
		MatchID:          matchID,
		Name:             p.Name,
		Kills:            len(p.Kills),
		Knockdowns:       len(p.Knockdowns),
		Deaths:           len(p.Deaths),
		Assists:          len(p.Assists),
		Revives:          len(p.Revives),
		KillChains:       len(p.KillChains),
		TotalDamageDealt: p.TotalDamageDealt,
		TotalDamageTaken: p.TotalDamageTaken,
		KDRatio:          p.KDRatio,
		AvgKillDistance:  p.AvgKillDistance,
		HeadshotPct:      p.HeadshotPct,
	}
}
