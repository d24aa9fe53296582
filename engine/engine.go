// Package engine provides the Engine orchestrator that wires together the
// event deck, action pools, effects, quiz gate and scoring into a game of
// fixed-length rounds.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nathoo/risingwaters/engine/effects"
	"github.com/nathoo/risingwaters/engine/scoring"
	"github.com/nathoo/risingwaters/engine/selector"
	"github.com/nathoo/risingwaters/engine/state"
	"github.com/nathoo/risingwaters/types"
)

// Defaults of the quiz gate.
const (
	DefaultQuizChance = 0.30
	DefaultQuizBonus  = 2
)

var (
	// ErrNotPlaying is returned for gameplay input outside the playing phase.
	ErrNotPlaying = errors.New("game is not in progress")
	// ErrWrongStep is returned when the input does not match what the engine waits for.
	ErrWrongStep = errors.New("that input is not expected right now")
	// ErrUnknownAction is returned when the chosen action is not in the current pool.
	ErrUnknownAction = errors.New("action is not available this round")
	// ErrNoAnswer is returned for a quiz answer outside the option range.
	ErrNoAnswer = errors.New("no such answer")
)

// InsufficientResourcesError rejects an action the player cannot afford.
type InsufficientResourcesError struct {
	Action    string
	Needed    int
	Available int
}

func (e *InsufficientResourcesError) Error() string {
	return fmt.Sprintf("not enough resource points for %s: need %d, have %d", e.Action, e.Needed, e.Available)
}

// Options tune a game. The zero value is not useful; start from DefaultOptions.
type Options struct {
	Policy     selector.Policy
	Scoring    scoring.Rules
	Bounds     effects.Bounds
	QuizOnce   bool    // at most one quiz per game
	QuizChance float64 // probability of a quiz after a round whose event has one
	QuizBonus  int     // resource points for a correct answer
	Seed       int64   // 0 seeds from the clock
	Logger     *slog.Logger
}

// DefaultOptions returns the settings of the current game.
func DefaultOptions() Options {
	return Options{
		Policy:     selector.PolicyRelevance,
		Scoring:    scoring.DefaultRules(),
		Bounds:     effects.DefaultBounds(),
		QuizOnce:   true,
		QuizChance: DefaultQuizChance,
		QuizBonus:  DefaultQuizBonus,
	}
}

// Engine holds the scenario definitions and the mutable game state.
// It is not safe for concurrent use; front ends drive it from one goroutine.
type Engine struct {
	Defs  *state.Defs
	State *types.State
	RNG   *RNG

	opts Options
	deck *selector.Deck
	base *slog.Logger
	log  *slog.Logger
}

// New creates an engine in the loading phase. It fails if the scenario
// cannot run at all: no events, no rounds, or too few actions to fill a pool.
func New(defs *state.Defs, opts Options) (*Engine, error) {
	if len(defs.Scenario.Events) == 0 {
		return nil, errors.New("scenario has no events")
	}
	if defs.TotalRounds() <= 0 {
		return nil, errors.New("scenario has no rounds")
	}
	if _, err := selector.BuildPool(defs.Scenario.Events[0], defs.Scenario.Actions, nil, selector.PolicyUniform, NewRNG(1)); err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Policy == "" {
		opts.Policy = selector.PolicyRelevance
	}

	e := &Engine{
		Defs: defs,
		opts: opts,
		RNG:  NewRNG(seed),
		base: logger.With("scenario", defs.Scenario.ID),
	}
	e.reset()
	return e, nil
}

// reset puts a fresh state and deck in place. The phase is loading.
func (e *Engine) reset() {
	e.State = state.NewState(e.Defs)
	e.State.GameID = uuid.NewString()
	e.deck = selector.NewDeck(e.Defs.Scenario.Events, e.RNG)
	e.log = e.base.With("game_id", e.State.GameID)
}

// Options returns the options the engine runs with.
func (e *Engine) Options() Options {
	return e.opts
}

// Phase returns the lifecycle phase.
func (e *Engine) Phase() types.Phase {
	return e.State.Phase
}

// Start moves a loaded game into play and deals the first event.
func (e *Engine) Start() (types.Result, error) {
	if e.State.Phase != types.PhaseLoading {
		return types.Result{}, ErrWrongStep
	}
	var result types.Result
	e.State.Phase = types.PhasePlaying
	result.Events = append(result.Events, types.Event{
		Type: "game_started",
		Data: map[string]any{"game_id": e.State.GameID, "rounds": e.Defs.TotalRounds()},
	})
	e.log.Info("game started", "rounds", e.Defs.TotalRounds(), "seed", e.RNG.Seed())

	evts, err := e.nextEvent()
	result.Events = append(result.Events, evts...)
	return result, err
}

// SelectAction performs one of the pooled actions. The action's effects
// are applied and the engine waits for the player to acknowledge the tip.
// Unaffordable actions are rejected without changing anything.
func (e *Engine) SelectAction(id string) (types.Result, error) {
	if err := e.expect(types.StepAction); err != nil {
		return types.Result{}, err
	}

	var action *types.ActionDef
	for i := range e.State.ActionPool {
		if e.State.ActionPool[i].ID == id {
			action = &e.State.ActionPool[i]
			break
		}
	}
	if action == nil {
		return types.Result{}, ErrUnknownAction
	}
	if cost := state.ActionCost(*action); cost > e.State.Metrics.ResourcePoints {
		e.log.Debug("action rejected", "action", id, "cost", cost, "rp", e.State.Metrics.ResourcePoints)
		return types.Result{}, &InsufficientResourcesError{
			Action:    id,
			Needed:    cost,
			Available: e.State.Metrics.ResourcePoints,
		}
	}

	var result types.Result
	result.Events = append(result.Events, types.Event{
		Type: "action_taken",
		Data: map[string]any{"action": id, "round": e.State.Round, "category": string(action.Category)},
	})
	evts, unknown := effects.Apply(&e.State.Metrics, action.Effects, e.opts.Bounds)
	result.Events = append(result.Events, evts...)
	if len(unknown) > 0 {
		e.log.Warn("ignored unknown effect keys", "action", id, "keys", unknown)
	}

	taken := *action
	e.State.LastAction = &taken
	e.State.Step = types.StepTip
	e.log.Info("action taken", "round", e.State.Round, "action", id, "metrics", e.State.Metrics)
	return result, nil
}

// AcknowledgeTip closes the tip shown after an action and advances the round.
func (e *Engine) AcknowledgeTip() (types.Result, error) {
	if err := e.expect(types.StepTip); err != nil {
		return types.Result{}, err
	}
	return e.advanceRound()
}

// advanceRound ends the current round. Past the last round the game is
// scored; otherwise either the event's quiz is offered or the next event is dealt.
func (e *Engine) advanceRound() (types.Result, error) {
	var result types.Result
	e.State.Round++
	result.Events = append(result.Events, types.Event{
		Type: "round_advanced",
		Data: map[string]any{"round": e.State.Round},
	})

	if e.State.Round > e.Defs.TotalRounds() {
		result.Events = append(result.Events, e.finish())
		return result, nil
	}

	if e.quizDue() {
		e.State.QuizAnswered = true
		e.State.Step = types.StepQuiz
		result.Events = append(result.Events, types.Event{
			Type: "quiz_shown",
			Data: map[string]any{"event": e.State.CurrentEvent.ID},
		})
		e.log.Debug("quiz shown", "event", e.State.CurrentEvent.ID)
		return result, nil
	}

	evts, err := e.nextEvent()
	result.Events = append(result.Events, evts...)
	return result, err
}

// quizDue decides whether the current event's quiz is offered now.
func (e *Engine) quizDue() bool {
	ev := e.State.CurrentEvent
	if ev == nil || ev.Quiz == nil || len(ev.Quiz.Options) == 0 {
		return false
	}
	if e.opts.QuizOnce && e.State.QuizAnswered {
		return false
	}
	return e.RNG.Chance(e.opts.QuizChance)
}

// AnswerQuiz answers the pending quiz by option index. A correct answer
// earns the quiz bonus. Out-of-range answers are rejected; any valid answer
// moves on to the next event.
func (e *Engine) AnswerQuiz(choice int) (types.Result, error) {
	if err := e.expect(types.StepQuiz); err != nil {
		return types.Result{}, err
	}
	quiz := e.State.CurrentEvent.Quiz
	if choice < 0 || choice >= len(quiz.Options) {
		return types.Result{}, ErrNoAnswer
	}

	var result types.Result
	correct := choice == quiz.CorrectAnswer
	result.Events = append(result.Events, types.Event{
		Type: "quiz_answered",
		Data: map[string]any{"event": e.State.CurrentEvent.ID, "choice": choice, "correct": correct},
	})
	if correct {
		evts, _ := effects.Apply(&e.State.Metrics, map[string]int{types.MetricResourcePoints: e.opts.QuizBonus}, e.opts.Bounds)
		result.Events = append(result.Events, evts...)
	}
	e.log.Info("quiz answered", "event", e.State.CurrentEvent.ID, "correct", correct)

	evts, err := e.nextEvent()
	result.Events = append(result.Events, evts...)
	return result, err
}

// nextEvent draws an event, builds its action pool and waits for an action.
func (e *Engine) nextEvent() ([]types.Event, error) {
	var out []types.Event

	ev, refilled := e.deck.Draw()
	if refilled {
		out = append(out, types.Event{Type: "deck_reshuffled", Data: map[string]any{"count": e.deck.Reshuffles()}})
		e.log.Debug("event deck reshuffled", "count", e.deck.Reshuffles())
	}

	pool, err := selector.BuildPool(ev, e.Defs.Scenario.Actions, e.Defs, e.opts.Policy, e.RNG)
	if err != nil {
		return out, err
	}

	e.State.CurrentEvent = &ev
	e.State.ActionPool = pool.Actions
	e.State.LastAction = nil
	e.State.Step = types.StepAction

	ids := make([]string, len(pool.Actions))
	for i, a := range pool.Actions {
		ids[i] = a.ID
	}
	out = append(out,
		types.Event{Type: "event_drawn", Data: map[string]any{"event": ev.ID, "round": e.State.Round}},
		types.Event{Type: "pool_built", Data: map[string]any{"actions": ids, "relevant": pool.Relevant}},
	)
	e.log.Debug("action pool built",
		"round", e.State.Round,
		"event", ev.ID,
		"categories", pool.Categories,
		"relevant", pool.Relevant,
		"pool", ids,
	)
	return out, nil
}

// finish scores the game and enters game over.
func (e *Engine) finish() types.Event {
	o := scoring.Evaluate(e.State.Metrics, e.Defs.Scenario.WinCondition, e.opts.Scoring)
	e.State.Outcome = &o
	e.State.Phase = types.PhaseGameOver
	e.State.Step = types.StepNone
	e.State.ActionPool = []types.ActionDef{}
	e.log.Info("game over",
		"score", o.Score.Total,
		"won", o.Won,
		"rank", string(o.Rank),
		"metrics", e.State.Metrics,
	)
	return types.Event{
		Type: "game_over",
		Data: map[string]any{"score": o.Score.Total, "won": o.Won, "rank": string(o.Rank)},
	}
}

// Replay starts a new game after game over.
func (e *Engine) Replay() (types.Result, error) {
	if e.State.Phase != types.PhaseGameOver {
		return types.Result{}, ErrWrongStep
	}
	return e.Restart()
}

// Restart abandons the current game and starts a new one with fresh metrics,
// a fresh deck and a new game id.
func (e *Engine) Restart() (types.Result, error) {
	if e.State.Phase == types.PhaseLoading {
		return types.Result{}, ErrNotPlaying
	}
	prev := e.State.GameID
	e.reset()
	e.log.Info("game reset", "previous", prev)
	return e.Start()
}

func (e *Engine) expect(step types.Step) error {
	if e.State.Phase != types.PhasePlaying {
		return ErrNotPlaying
	}
	if e.State.Step != step {
		return ErrWrongStep
	}
	return nil
}

// Snapshot returns a copy of everything the presentation layer shows.
func (e *Engine) Snapshot() types.Snapshot {
	s := e.State
	round := s.Round
	if total := e.Defs.TotalRounds(); round > total {
		round = total
	}
	snap := types.Snapshot{
		GameID:        s.GameID,
		Scenario:      e.Defs.Scenario.ID,
		Phase:         s.Phase,
		Step:          s.Step,
		Round:         round,
		TotalRounds:   e.Defs.TotalRounds(),
		Metrics:       s.Metrics,
		Actions:       append([]types.ActionDef(nil), s.ActionPool...),
		DeckRemaining: e.deck.Remaining(),
	}
	if s.CurrentEvent != nil {
		ev := *s.CurrentEvent
		snap.Event = &ev
		if s.Step == types.StepQuiz {
			snap.Quiz = ev.Quiz
		}
	}
	if s.LastAction != nil {
		a := *s.LastAction
		snap.LastAction = &a
	}
	if s.Outcome != nil {
		o := *s.Outcome
		snap.Outcome = &o
	}
	return snap
}
