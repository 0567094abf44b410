package study

import (
	"context"
	"fmt"
	"time"

	"github.com/brainkit/brainkit-backend/internal/domain"
	"github.com/brainkit/brainkit-backend/pkg/ctxutil"
)

// streakWindowDays bounds the daily-count query used for streak computation.
const streakWindowDays = 365

// Stats returns the caller's aggregated review statistics: totals, today's
// count, quality distribution, average response time, and the current streak
// of consecutive study days.
func (s *Service) Stats(ctx context.Context) (*domain.StudyStats, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	today := s.today()

	stats, err := s.reviews.GetOverview(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("get review overview: %w", err)
	}

	daily, err := s.reviews.GetDailyCounts(ctx, userID, today.AddDate(0, 0, -streakWindowDays))
	if err != nil {
		return nil, fmt.Errorf("get daily counts: %w", err)
	}

	stats.StreakDays = computeStreak(daily, today)

	return &stats, nil
}

// computeStreak counts consecutive study days ending today or yesterday.
// A day without reviews breaks the streak; an empty today does not, so a
// learner who studied through yesterday still sees their run.
func computeStreak(daily []domain.DayReviewCount, today time.Time) int {
	counts := make(map[time.Time]bool, len(daily))
	for _, d := range daily {
		counts[dayStart(d.Date)] = d.Count > 0
	}

	day := today
	if !counts[day] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for counts[day] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
