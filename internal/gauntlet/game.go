package gauntlet

import (
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/vytor/gauntlet/internal/models"
)

var (
	ErrNoItems            = errors.New("gauntlet: item pool is empty")
	ErrInvalidRepetitions = errors.New("gauntlet: repetitions per item must be at least 1")
	ErrInvalidDifficulty  = errors.New("gauntlet: unknown difficulty")
	ErrInvalidMode        = errors.New("gauntlet: unknown game mode")

	ErrAlreadyStarted = errors.New("gauntlet: run already started")
	ErrNotActive      = errors.New("gauntlet: run is not active")
	ErrWrongMode      = errors.New("gauntlet: operation not available in this game mode")
	ErrEmptyAnswer    = errors.New("gauntlet: answer is empty")
	ErrUnknownOption  = errors.New("gauntlet: option is not offered for this question")
	ErrOptionDisabled = errors.New("gauntlet: option was already rejected")
)

// DefaultOptionCount is the number of choices offered in Pick mode.
const DefaultOptionCount = 3

// Config describes a run before it starts.
type Config struct {
	Difficulty         models.Difficulty
	GameMode           models.GameMode
	RepetitionsPerChar int
	Items              []Item
	SelectedSets       []string
}

// Validate rejects configurations the engine cannot complete.
func (c Config) Validate() error {
	if len(c.Items) == 0 {
		return ErrNoItems
	}
	if c.RepetitionsPerChar < 1 {
		return ErrInvalidRepetitions
	}
	if !ValidDifficulty(c.Difficulty) {
		return ErrInvalidDifficulty
	}
	if c.GameMode != models.ModeType && c.GameMode != models.ModePick {
		return ErrInvalidMode
	}
	return nil
}

// State is the mutable bookkeeping of a run. Copies returned by Game.State are
// detached from the game.
type State struct {
	CurrentIndex          int
	Lives                 int
	MaxLives              int
	Streak                int
	BestStreakThisRun     int
	CorrectSinceLastRegen int
	CorrectAnswers        int
	WrongAnswers          int
	ElapsedTimeMs         int64
	LastAnswerCorrect     *bool
	Status                models.RunStatus
}

// Feedback describes the most recent answer. It is replaced by every
// submission.
type Feedback struct {
	Correct        bool
	ExpectedAnswer string
	LifeGained     bool
	LifeLost       bool
}

// Game is the state machine of a single run. It is not safe for concurrent
// use; hosts deliver one event at a time.
type Game struct {
	dojo        models.DojoType
	seq         *Sequencer
	eval        *Evaluator
	optionCount int
	now         func() time.Time

	cfg        Config
	policy     Policy
	slots      []Slot
	state      State
	options    []string
	disabled   map[string]struct{}
	feedback   *Feedback
	summary    *models.GauntletSessionStats
	finishedAt time.Time
}

// GameOption configures a Game.
type GameOption func(*Game)

// WithOptionCount sets how many choices Pick mode offers.
func WithOptionCount(n int) GameOption {
	return func(g *Game) {
		if n > 0 {
			g.optionCount = n
		}
	}
}

// WithClock overrides the wall clock used for summary timestamps.
func WithClock(now func() time.Time) GameOption {
	return func(g *Game) {
		g.now = now
	}
}

// WithReversible lets slots randomly swap prompt and answer sides.
func WithReversible(reversible bool) GameOption {
	return func(g *Game) {
		g.seq.reversible = reversible
	}
}

// New returns an idle game for the given dojo. All randomness is drawn from rnd.
func New(dojo models.DojoType, rnd *rand.Rand, opts ...GameOption) *Game {
	g := &Game{
		dojo:        dojo,
		seq:         NewSequencer(rnd, false),
		eval:        NewEvaluator(rnd),
		optionCount: DefaultOptionCount,
		now:         time.Now,
		state:       State{Status: models.RunIdle},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start validates cfg, builds the question sequence and enters active.
func (g *Game) Start(cfg Config) error {
	if g.state.Status != models.RunIdle {
		return ErrAlreadyStarted
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	g.cfg = cfg
	g.policy = PolicyFor(cfg.Difficulty)
	g.slots = g.seq.Build(cfg.Items, cfg.RepetitionsPerChar)
	g.state = State{
		Lives:    g.policy.MaxLives,
		MaxLives: g.policy.MaxLives,
		Status:   models.RunActive,
	}
	g.feedback = nil
	g.summary = nil
	g.prepareQuestion()
	return nil
}

// SubmitAnswer evaluates a typed answer. A miss costs a life and moves on to
// the next question.
func (g *Game) SubmitAnswer(input string) (Feedback, error) {
	if g.state.Status != models.RunActive {
		return Feedback{}, ErrNotActive
	}
	if g.cfg.GameMode != models.ModeType {
		return Feedback{}, ErrWrongMode
	}
	if strings.TrimSpace(input) == "" {
		return Feedback{}, ErrEmptyAnswer
	}
	slot := g.slots[g.state.CurrentIndex]
	return g.apply(slot, g.eval.Check(slot, input)), nil
}

// SelectOption evaluates a picked option. A miss costs a life and disables the
// option; the same question stays up until answered correctly.
func (g *Game) SelectOption(option string) (Feedback, error) {
	if g.state.Status != models.RunActive {
		return Feedback{}, ErrNotActive
	}
	if g.cfg.GameMode != models.ModePick {
		return Feedback{}, ErrWrongMode
	}
	if !g.offered(option) {
		return Feedback{}, ErrUnknownOption
	}
	if _, ok := g.disabled[option]; ok {
		return Feedback{}, ErrOptionDisabled
	}
	slot := g.slots[g.state.CurrentIndex]
	correct := g.eval.Check(slot, option)
	fb := g.apply(slot, correct)
	if !correct && g.state.Status == models.RunActive {
		g.disabled[option] = struct{}{}
	}
	return fb, nil
}

// Cancel aborts an active run.
func (g *Game) Cancel() error {
	if g.state.Status != models.RunActive {
		return ErrNotActive
	}
	g.finish(models.RunAborted)
	return nil
}

// Tick adds deltaMs to the elapsed time of an active run. Ticks outside the
// active state are dropped.
func (g *Game) Tick(deltaMs int64) bool {
	if g.state.Status != models.RunActive || deltaMs <= 0 {
		return false
	}
	g.state.ElapsedTimeMs += deltaMs
	return true
}

func (g *Game) apply(slot Slot, correct bool) Feedback {
	fb := Feedback{Correct: correct}
	s := &g.state
	if correct {
		s.CorrectAnswers++
		s.Streak++
		if s.Streak > s.BestStreakThisRun {
			s.BestStreakThisRun = s.Streak
		}
		s.CorrectSinceLastRegen++
		if g.policy.Regenerates && s.CorrectSinceLastRegen == g.policy.RegenThreshold && s.Lives < s.MaxLives {
			s.Lives++
			s.CorrectSinceLastRegen = 0
			fb.LifeGained = true
		}
		g.setFeedback(fb)
		g.advance()
		return fb
	}

	s.WrongAnswers++
	s.Streak = 0
	s.CorrectSinceLastRegen = 0
	if s.Lives > 0 {
		s.Lives--
	}
	fb.LifeLost = true
	if g.cfg.GameMode == models.ModeType {
		fb.ExpectedAnswer = CorrectOption(slot)
	}
	g.setFeedback(fb)
	switch {
	case s.Lives == 0:
		g.finish(models.RunLost)
	case g.cfg.GameMode == models.ModeType:
		g.advance()
	}
	return fb
}

func (g *Game) setFeedback(fb Feedback) {
	correct := fb.Correct
	g.state.LastAnswerCorrect = &correct
	g.feedback = &fb
}

func (g *Game) advance() {
	g.state.CurrentIndex++
	if g.state.CurrentIndex >= len(g.slots) {
		g.finish(models.RunWon)
		return
	}
	g.prepareQuestion()
}

func (g *Game) prepareQuestion() {
	g.disabled = make(map[string]struct{})
	g.options = nil
	if g.cfg.GameMode != models.ModePick {
		return
	}
	slot := g.slots[g.state.CurrentIndex]
	g.options = g.eval.Options(slot, g.cfg.Items, g.optionCount)
	g.eval.Shuffle(g.options)
}

func (g *Game) offered(option string) bool {
	for _, o := range g.options {
		if o == option {
			return true
		}
	}
	return false
}

func (g *Game) finish(status models.RunStatus) {
	g.state.Status = status
	g.finishedAt = g.now()
	g.options = nil
	g.disabled = nil
	g.summary = &models.GauntletSessionStats{
		DojoType:           g.dojo,
		Difficulty:         g.cfg.Difficulty,
		GameMode:           g.cfg.GameMode,
		RepetitionsPerChar: g.cfg.RepetitionsPerChar,
		TotalCharacters:    len(g.cfg.Items),
		CorrectAnswers:     g.state.CorrectAnswers,
		WrongAnswers:       g.state.WrongAnswers,
		BestStreak:         g.state.BestStreakThisRun,
		TotalTimeMs:        g.state.ElapsedTimeMs,
		Completed:          status == models.RunWon,
		Timestamp:          g.finishedAt,
	}
}

// State returns a detached copy of the run state.
func (g *Game) State() State {
	s := g.state
	if s.LastAnswerCorrect != nil {
		v := *s.LastAnswerCorrect
		s.LastAnswerCorrect = &v
	}
	return s
}

// Status is shorthand for State().Status.
func (g *Game) Status() models.RunStatus {
	return g.state.Status
}

// TotalQuestions is the length of the slot sequence.
func (g *Game) TotalQuestions() int {
	return len(g.slots)
}

// Current returns the slot being asked, if the run is active.
func (g *Game) Current() (Slot, bool) {
	if g.state.Status != models.RunActive {
		return Slot{}, false
	}
	return g.slots[g.state.CurrentIndex], true
}

// Options returns the Pick choices for the current question in display order.
func (g *Game) Options() []string {
	return append([]string(nil), g.options...)
}

// DisabledOptions returns the rejected choices of the current question.
func (g *Game) DisabledOptions() []string {
	var out []string
	for _, o := range g.options {
		if _, ok := g.disabled[o]; ok {
			out = append(out, o)
		}
	}
	return out
}

// LastFeedback returns the feedback of the latest submission.
func (g *Game) LastFeedback() (Feedback, bool) {
	if g.feedback == nil {
		return Feedback{}, false
	}
	return *g.feedback, true
}

// Summary returns the session summary once the run is over.
func (g *Game) Summary() (models.GauntletSessionStats, bool) {
	if g.summary == nil {
		return models.GauntletSessionStats{}, false
	}
	return *g.summary, true
}

// FinishedAt is the wall-clock time the run reached a terminal state.
func (g *Game) FinishedAt() (time.Time, bool) {
	if !g.state.Status.Terminal() {
		return time.Time{}, false
	}
	return g.finishedAt, true
}
