package services

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/gauntlet/internal/catalog"
	apperrors "github.com/vytor/gauntlet/internal/errors"
	"github.com/vytor/gauntlet/internal/gauntlet"
	"github.com/vytor/gauntlet/internal/jobs"
	"github.com/vytor/gauntlet/internal/logger"
	"github.com/vytor/gauntlet/internal/models"
	"github.com/vytor/gauntlet/internal/random"
)

// StartRunRequest configures a new run.
type StartRunRequest struct {
	DojoType           models.DojoType
	Difficulty         models.Difficulty
	GameMode           models.GameMode
	RepetitionsPerChar int
	Sets               []string
}

// GauntletService hosts live runs. Each run is driven one event at a time;
// when a run ends its summary is queued for persistence and the outcome shows
// up in the run's SaveResult once the save job finishes.
type GauntletService interface {
	StartRun(ctx context.Context, req StartRunRequest) (*models.RunView, error)
	GetRun(ctx context.Context, id string) (*models.RunView, error)
	SubmitAnswer(ctx context.Context, id, answer string) (*models.RunView, error)
	SelectOption(ctx context.Context, id, option string) (*models.RunView, error)
	Tick(ctx context.Context, id string, deltaMs int64) (*models.RunView, error)
	Cancel(ctx context.Context, id string) (*models.RunView, error)
	PurgeExpired(ctx context.Context) int
}

// GauntletServiceConfig tunes a GauntletService. Zero values take defaults.
type GauntletServiceConfig struct {
	OptionCount int
	Retention   time.Duration
	NewRand     func() *rand.Rand
	Now         func() time.Time
}

type liveRun struct {
	id       string
	game     *gauntlet.Game
	lastSeen time.Time
	queued   bool
	saved    atomic.Pointer[models.SaveResult]
}

type gauntletService struct {
	catalog catalog.Provider
	queue   jobs.JobQueue
	cfg     GauntletServiceConfig

	mu   sync.Mutex
	runs map[string]*liveRun
}

// NewGauntletService creates a GauntletService drawing items from provider
// and persisting summaries through queue.
func NewGauntletService(provider catalog.Provider, queue jobs.JobQueue, cfg GauntletServiceConfig) GauntletService {
	if cfg.OptionCount <= 0 {
		cfg.OptionCount = gauntlet.DefaultOptionCount
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * time.Minute
	}
	if cfg.NewRand == nil {
		cfg.NewRand = random.New
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &gauntletService{
		catalog: provider,
		queue:   queue,
		cfg:     cfg,
		runs:    make(map[string]*liveRun),
	}
}

func (s *gauntletService) StartRun(ctx context.Context, req StartRunRequest) (*models.RunView, error) {
	log := logger.FromContext(ctx).WithPrefix("gauntlet")
	log.Debug("starting run: dojo=%s, difficulty=%s, mode=%s, reps=%d, sets=%v",
		req.DojoType, req.Difficulty, req.GameMode, req.RepetitionsPerChar, req.Sets)

	if !gauntlet.ValidDifficulty(req.Difficulty) {
		return nil, apperrors.NewValidationError("difficulty", "must be 'normal', 'hard', or 'instant-death'")
	}
	items, err := s.catalog.Items(req.DojoType, req.Sets)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrUnknownSet), errors.Is(err, catalog.ErrEmptySet):
			return nil, apperrors.NewValidationError("sets", err.Error())
		default:
			log.Error("failed to resolve items: %v", err)
			return nil, apperrors.NewInternalError(err)
		}
	}

	game := gauntlet.New(req.DojoType, s.cfg.NewRand(),
		gauntlet.WithReversible(s.catalog.Reversible(req.DojoType)),
		gauntlet.WithOptionCount(s.cfg.OptionCount),
		gauntlet.WithClock(s.cfg.Now),
	)
	err = game.Start(gauntlet.Config{
		Difficulty:         req.Difficulty,
		GameMode:           req.GameMode,
		RepetitionsPerChar: req.RepetitionsPerChar,
		Items:              items,
		SelectedSets:       req.Sets,
	})
	if err != nil {
		return nil, mapGameError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked(log)

	r := &liveRun{id: uuid.NewString(), game: game, lastSeen: s.cfg.Now()}
	s.runs[r.id] = r
	log.Info("run started: id=%s, dojo=%s, questions=%d", r.id, req.DojoType, game.TotalQuestions())
	return r.view(), nil
}

func (s *gauntletService) GetRun(ctx context.Context, id string) (*models.RunView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("run", id)
	}
	return r.view(), nil
}

func (s *gauntletService) SubmitAnswer(ctx context.Context, id, answer string) (*models.RunView, error) {
	return s.apply(ctx, id, func(g *gauntlet.Game) error {
		_, err := g.SubmitAnswer(answer)
		return err
	})
}

func (s *gauntletService) SelectOption(ctx context.Context, id, option string) (*models.RunView, error) {
	return s.apply(ctx, id, func(g *gauntlet.Game) error {
		_, err := g.SelectOption(option)
		return err
	})
}

// Tick advances the clock of an active run. Ticks for finished runs are
// dropped without error.
func (s *gauntletService) Tick(ctx context.Context, id string, deltaMs int64) (*models.RunView, error) {
	return s.apply(ctx, id, func(g *gauntlet.Game) error {
		g.Tick(deltaMs)
		return nil
	})
}

func (s *gauntletService) Cancel(ctx context.Context, id string) (*models.RunView, error) {
	return s.apply(ctx, id, func(g *gauntlet.Game) error {
		return g.Cancel()
	})
}

func (s *gauntletService) apply(ctx context.Context, id string, event func(*gauntlet.Game) error) (*models.RunView, error) {
	log := logger.FromContext(ctx).WithPrefix("gauntlet").WithField("run_id", id)

	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("run", id)
	}
	if err := event(r.game); err != nil {
		log.Debug("event rejected: %v", err)
		return nil, mapGameError(err)
	}
	r.lastSeen = s.cfg.Now()

	if r.game.Status().Terminal() && !r.queued {
		r.queued = true
		s.persist(log, r)
	}
	return r.view(), nil
}

// persist hands the summary to the save queue. The run's outcome never waits
// on storage.
func (s *gauntletService) persist(log *logger.Logger, r *liveRun) {
	summary, _ := r.game.Summary()
	log.Info("run finished: status=%s, correct=%d, wrong=%d, time_ms=%d",
		r.game.Status(), summary.CorrectAnswers, summary.WrongAnswers, summary.TotalTimeMs)

	err := s.queue.EnqueueSessionSave(summary, func(res models.SaveResult) {
		r.saved.Store(&res)
	})
	if err != nil {
		log.Warn("failed to queue session save: %v", err)
		r.saved.Store(&models.SaveResult{Session: summary})
	}
}

// PurgeExpired drops runs idle for longer than the retention window.
func (s *gauntletService) PurgeExpired(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purgeLocked(logger.FromContext(ctx).WithPrefix("gauntlet"))
}

func (s *gauntletService) purgeLocked(log *logger.Logger) int {
	cutoff := s.cfg.Now().Add(-s.cfg.Retention)
	n := 0
	for id, r := range s.runs {
		if r.lastSeen.Before(cutoff) {
			delete(s.runs, id)
			n++
		}
	}
	if n > 0 {
		log.Debug("purged %d expired runs", n)
	}
	return n
}

func (r *liveRun) view() *models.RunView {
	v := r.game.View()
	v.ID = r.id
	if res := r.saved.Load(); res != nil {
		cp := *res
		v.SaveResult = &cp
	}
	return &v
}

func mapGameError(err error) error {
	switch {
	case errors.Is(err, gauntlet.ErrNoItems):
		return apperrors.NewValidationError("sets", "selection has no items")
	case errors.Is(err, gauntlet.ErrInvalidRepetitions):
		return apperrors.NewValidationError("repetitionsPerChar", "must be at least 1")
	case errors.Is(err, gauntlet.ErrInvalidDifficulty):
		return apperrors.NewValidationError("difficulty", "unknown difficulty")
	case errors.Is(err, gauntlet.ErrInvalidMode):
		return apperrors.NewValidationError("gameMode", "must be 'Type' or 'Pick'")
	case errors.Is(err, gauntlet.ErrEmptyAnswer):
		return apperrors.NewValidationError("answer", "cannot be empty")
	case errors.Is(err, gauntlet.ErrUnknownOption):
		return apperrors.NewValidationError("option", "is not offered for this question")
	case errors.Is(err, gauntlet.ErrNotActive),
		errors.Is(err, gauntlet.ErrAlreadyStarted),
		errors.Is(err, gauntlet.ErrWrongMode),
		errors.Is(err, gauntlet.ErrOptionDisabled):
		return apperrors.NewConflictError(err.Error()).WithCause(err)
	default:
		return apperrors.NewInternalError(err)
	}
}
