// Package types defines the shared data structures for the Rising Waters engine.
// This package contains only type definitions: no logic, no methods.
package types

// Localized maps a locale code ("en", "vi") to display text.
type Localized map[string]string

// Metric names as they appear in effect maps.
const (
	MetricSafety         = "safety"
	MetricInfrastructure = "infrastructure"
	MetricMorale         = "morale"
	MetricResourcePoints = "resourcePoints"
)

// Category tags an action with the phase of flood response it belongs to.
type Category string

const (
	CategoryPrepare Category = "prepare"
	CategoryDefend  Category = "defend"
	CategoryRecover Category = "recover"
	CategoryRisk    Category = "risk" // the always-offered "do nothing" action
)

// InitialState holds the starting metrics and game length.
// Older content calls the round count totalRounds, newer content totalDays.
type InitialState struct {
	Safety         int `json:"safety" yaml:"safety"`
	Infrastructure int `json:"infrastructure" yaml:"infrastructure"`
	Morale         int `json:"morale" yaml:"morale"`
	ResourcePoints int `json:"resourcePoints" yaml:"resourcePoints"`
	TotalRounds    int `json:"totalRounds,omitempty" yaml:"totalRounds,omitempty"`
	TotalDays      int `json:"totalDays,omitempty" yaml:"totalDays,omitempty"`
}

// WinCondition is the pair of thresholds that must both hold at game end.
type WinCondition struct {
	MinSafety         int `json:"minSafety" yaml:"minSafety"`
	MinInfrastructure int `json:"minInfrastructure" yaml:"minInfrastructure"`
}

// QuizDef is a multiple-choice question embedded in an event.
type QuizDef struct {
	Question      Localized   `json:"question" yaml:"question"`
	Options       []Localized `json:"options" yaml:"options"`
	CorrectAnswer int         `json:"correctAnswer" yaml:"correctAnswer"`
}

// EventDef is a scenario card drawn at the start of a round.
type EventDef struct {
	ID          string         `json:"id" yaml:"id"`
	Icon        string         `json:"icon,omitempty" yaml:"icon,omitempty"`
	Title       Localized      `json:"title" yaml:"title"`
	Description Localized      `json:"description" yaml:"description"`
	Tip         Localized      `json:"tip" yaml:"tip"`
	Effects     map[string]int `json:"effects" yaml:"effects"`
	Quiz        *QuizDef       `json:"quiz,omitempty" yaml:"quiz,omitempty"`
}

// ActionDef is a player response. Cost, when set, overrides the cost
// implied by a negative resourcePoints effect.
type ActionDef struct {
	ID          string         `json:"id" yaml:"id"`
	Title       Localized      `json:"title" yaml:"title"`
	Description Localized      `json:"description,omitempty" yaml:"description,omitempty"`
	Category    Category       `json:"category" yaml:"category"`
	Effects     map[string]int `json:"effects" yaml:"effects"`
	Cost        int            `json:"cost,omitempty" yaml:"cost,omitempty"`
}

// Scenario is the complete static content of one playable scenario.
type Scenario struct {
	ID           string                       `json:"-" yaml:"-"`
	InitialState InitialState                 `json:"initialState" yaml:"initialState"`
	WinCondition WinCondition                 `json:"winCondition" yaml:"winCondition"`
	Events       []EventDef                   `json:"events" yaml:"events"`
	Actions      []ActionDef                  `json:"actions" yaml:"actions"`
	I18n         map[string]map[string]string `json:"i18n,omitempty" yaml:"i18n,omitempty"`
	HelpText     map[string]string            `json:"helpText,omitempty" yaml:"helpText,omitempty"`
	Relevance    map[string][]Category        `json:"relevance,omitempty" yaml:"relevance,omitempty"`
}

// Metrics are the four tracked community-health numbers.
type Metrics struct {
	Safety         int `json:"safety"`
	Infrastructure int `json:"infrastructure"`
	Morale         int `json:"morale"`
	ResourcePoints int `json:"resourcePoints"`
}

// Phase is the coarse lifecycle state of a game.
type Phase string

const (
	PhaseLoading  Phase = "loading"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "gameOver"
)

// Step is the input the engine is waiting for while playing.
type Step string

const (
	StepNone   Step = ""
	StepAction Step = "action" // pick one of the pooled actions
	StepTip    Step = "tip"    // acknowledge the event tip, which ends the round
	StepQuiz   Step = "quiz"   // answer the current event's quiz
)

// Rank is the qualitative end-of-game tier.
type Rank string

const (
	RankResilientSurvivor Rank = "resilient_survivor"
	RankAdaptiveLearner   Rank = "adaptive_learner"
	RankUnprepared        Rank = "unprepared"
)

// ScoreBreakdown holds the named point buckets and the capped total.
type ScoreBreakdown struct {
	Safety         int `json:"safety"`
	Infrastructure int `json:"infrastructure"`
	Morale         int `json:"morale"`
	Efficiency     int `json:"efficiency"`
	Bonus          int `json:"bonus"`
	Raw            int `json:"raw"`
	Total          int `json:"total"`
}

// Feedback explains the outcome: a headline key and the weakest metric.
type Feedback struct {
	Headline string `json:"headline"`
	Weakest  string `json:"weakest"`
	Value    int    `json:"value"`
}

// Outcome is everything computed when the game ends.
type Outcome struct {
	Score    ScoreBreakdown `json:"score"`
	Rank     Rank           `json:"rank"`
	Won      bool           `json:"won"`
	Feedback Feedback       `json:"feedback"`
}

// Event is emitted by the engine as state changes.
type Event struct {
	Type string
	Data map[string]any
}

// Result is the output of a single engine operation.
type Result struct {
	Events []Event
}

// State is the complete mutable game state.
type State struct {
	GameID       string
	Phase        Phase
	Step         Step
	Round        int
	Metrics      Metrics
	CurrentEvent *EventDef
	ActionPool   []ActionDef
	QuizAnswered bool
	LastAction   *ActionDef
	Outcome      *Outcome
}

// Snapshot is a read-only copy of the state handed to the presentation layer.
// Round is capped at TotalRounds for display; once the game is over the raw
// counter in State.Round is TotalRounds+1.
type Snapshot struct {
	GameID        string
	Scenario      string
	Phase         Phase
	Step          Step
	Round         int
	TotalRounds   int
	Metrics       Metrics
	Event         *EventDef
	Actions       []ActionDef
	Quiz          *QuizDef
	LastAction    *ActionDef
	DeckRemaining int
	Outcome       *Outcome
}
