package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/gauntlet/internal/logger"
	"github.com/vytor/gauntlet/internal/models"
	"github.com/vytor/gauntlet/internal/repository"
)

// Query defaults used when callers pass a non-positive limit.
const (
	DefaultHistoryLimit     = 20
	DefaultLeaderboardLimit = 10
)

// GauntletStatsService persists finished gauntlet sessions and answers
// history, best-time, leaderboard and aggregate queries. Storage failures
// never surface from SaveSession or the queries: reads fall back to an empty
// document and failed writes report Saved=false.
type GauntletStatsService interface {
	SaveSession(ctx context.Context, stats models.GauntletSessionStats) models.SaveResult
	SessionHistory(ctx context.Context, dojo models.DojoType, limit int) []models.GauntletSessionStats
	BestTime(ctx context.Context, dojo models.DojoType, difficulty models.Difficulty, repetitions int, mode models.GameMode, totalCharacters int) (int64, bool)
	Leaderboard(ctx context.Context, dojo models.DojoType, difficulty models.Difficulty, limit int) []models.GauntletSessionStats
	OverallStats(ctx context.Context, dojo models.DojoType) models.OverallStats
	ClearAllStats(ctx context.Context) error
}

type gauntletStatsService struct {
	repo repository.KVRepository
	key  string
	now  func() time.Time

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewGauntletStatsService stores the stats document under key in repo.
func NewGauntletStatsService(repo repository.KVRepository, key string) GauntletStatsService {
	return &gauntletStatsService{repo: repo, key: key, now: time.Now}
}

// load returns the stored document or a fresh default. An error is returned
// only when the store itself failed; absent, corrupt and foreign-version
// documents all read as empty.
func (s *gauntletStatsService) load(ctx context.Context) (*models.StoredGauntletData, error) {
	log := logger.FromContext(ctx).WithPrefix("stats")

	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		log.Warn("failed to load stats: %v", err)
		return models.NewStoredGauntletData(), err
	}
	if raw == nil {
		return models.NewStoredGauntletData(), nil
	}

	var data models.StoredGauntletData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Warn("stored stats are unreadable, starting fresh: %v", err)
		return models.NewStoredGauntletData(), nil
	}
	if data.Version != models.StatsSchemaVersion {
		log.Info("stored stats version %d does not match %d, starting fresh", data.Version, models.StatsSchemaVersion)
		return models.NewStoredGauntletData(), nil
	}
	data.Normalize()
	return &data, nil
}

func (s *gauntletStatsService) SaveSession(ctx context.Context, stats models.GauntletSessionStats) models.SaveResult {
	log := logger.FromContext(ctx).WithPrefix("stats")
	s.mu.Lock()
	defer s.mu.Unlock()

	if stats.ID == "" {
		stats.ID = newSessionID(s.now())
	}
	result := models.SaveResult{Session: stats}

	data, err := s.load(ctx)
	if err != nil {
		// Writing defaults over an unreadable store would erase its history.
		log.Warn("skipping save of session %s: %v", stats.ID, err)
		return result
	}

	data.Sessions = append([]models.GauntletSessionStats{stats}, data.Sessions...)
	if len(data.Sessions) > models.MaxStoredSessions {
		data.Sessions = data.Sessions[:models.MaxStoredSessions]
	}

	isNewBest := false
	if stats.Completed {
		times := data.BestTimes[stats.DojoType]
		if times == nil {
			times = map[string]int64{}
			data.BestTimes[stats.DojoType] = times
		}
		key := stats.Key()
		if current, ok := times[key]; !ok || stats.TotalTimeMs < current {
			times[key] = stats.TotalTimeMs
			isNewBest = true
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		log.Warn("failed to encode stats: %v", err)
		return result
	}
	if err := s.repo.Set(ctx, s.key, raw); err != nil {
		log.Warn("failed to save stats: %v", err)
		return result
	}

	result.Saved = true
	result.IsNewBest = isNewBest
	log.Debug("session saved: id=%s, dojo=%s, completed=%t, new_best=%t", stats.ID, stats.DojoType, stats.Completed, isNewBest)
	return result
}

func (s *gauntletStatsService) SessionHistory(ctx context.Context, dojo models.DojoType, limit int) []models.GauntletSessionStats {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	data, _ := s.load(ctx)

	out := []models.GauntletSessionStats{}
	for _, sess := range data.Sessions {
		if len(out) == limit {
			break
		}
		if sess.DojoType == dojo {
			out = append(out, sess)
		}
	}
	return out
}

func (s *gauntletStatsService) BestTime(ctx context.Context, dojo models.DojoType, difficulty models.Difficulty, repetitions int, mode models.GameMode, totalCharacters int) (int64, bool) {
	data, _ := s.load(ctx)
	ms, ok := data.BestTimes[dojo][models.BestTimeKey(difficulty, repetitions, mode, totalCharacters)]
	return ms, ok
}

// Leaderboard lists completed sessions fastest first. An empty difficulty
// matches every tier. Equal times keep their recency order.
func (s *gauntletStatsService) Leaderboard(ctx context.Context, dojo models.DojoType, difficulty models.Difficulty, limit int) []models.GauntletSessionStats {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	data, _ := s.load(ctx)

	out := []models.GauntletSessionStats{}
	for _, sess := range data.Sessions {
		if sess.DojoType != dojo || !sess.Completed {
			continue
		}
		if difficulty != "" && sess.Difficulty != difficulty {
			continue
		}
		out = append(out, sess)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalTimeMs < out[j].TotalTimeMs
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *gauntletStatsService) OverallStats(ctx context.Context, dojo models.DojoType) models.OverallStats {
	data, _ := s.load(ctx)

	var stats models.OverallStats
	for _, sess := range data.Sessions {
		if sess.DojoType != dojo {
			continue
		}
		stats.TotalSessions++
		stats.TotalCorrect += sess.CorrectAnswers
		stats.TotalWrong += sess.WrongAnswers
		if sess.BestStreak > stats.BestStreak {
			stats.BestStreak = sess.BestStreak
		}
		if sess.Completed {
			stats.CompletedSessions++
			if stats.FastestTimeMs == nil || sess.TotalTimeMs < *stats.FastestTimeMs {
				t := sess.TotalTimeMs
				stats.FastestTimeMs = &t
			}
		}
	}
	return stats
}

func (s *gauntletStatsService) ClearAllStats(ctx context.Context) error {
	log := logger.FromContext(ctx).WithPrefix("stats")
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.key); err != nil {
		log.Warn("failed to clear stats: %v", err)
		return err
	}
	log.Info("stats cleared")
	return nil
}

// newSessionID returns "gauntlet-<unix millis>-<7 random chars>".
func newSessionID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
	return fmt.Sprintf("gauntlet-%d-%s", now.UnixMilli(), suffix)
}
