package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

// DefaultRatingRecomputeSchedule runs the repair pass every 15 minutes.
const DefaultRatingRecomputeSchedule = "0 */15 * * * *"

type RestaurantRatingsRecomputer interface {
	Handle(
		ctx context.Context,
		cmd commands.RecomputeRestaurantRatingsCommand,
	) (commands.RecomputeRestaurantRatingsResult, error)
}

// RatingRecomputeJob periodically rebuilds every rated item of a restaurant
// from its published reviews, repairing drift left by the incremental path.
// A run still in progress makes the next tick a no-op.
type RatingRecomputeJob struct {
	handler    RestaurantRatingsRecomputer
	restaurant kernel.RestaurantID
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewRatingRecomputeJob creates the job. An empty schedule means
// DefaultRatingRecomputeSchedule; schedules use the six-field cron format.
func NewRatingRecomputeJob(
	handler RestaurantRatingsRecomputer,
	restaurant kernel.RestaurantID,
	schedule string,
	logger *slog.Logger,
) *RatingRecomputeJob {
	if schedule == "" {
		schedule = DefaultRatingRecomputeSchedule
	}
	return &RatingRecomputeJob{
		handler:    handler,
		restaurant: restaurant,
		schedule:   schedule,
		cron:       cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:     logger.With("component", "rating_recompute_job"),
	}
}

func (j *RatingRecomputeJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.run(context.Background()) }); err != nil {
		return fmt.Errorf("schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Rating recompute job started", "schedule", j.schedule)
	return nil
}

// Stop stops scheduling and waits for a running pass to finish.
func (j *RatingRecomputeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Rating recompute job stopped")
}

func (j *RatingRecomputeJob) run(ctx context.Context) {
	cmd, err := commands.NewRecomputeRestaurantRatingsCommand(j.restaurant)
	if err != nil {
		j.logger.ErrorContext(ctx, "Rating recompute job misconfigured", "error", err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Rating recompute job failed",
			"restaurant_id", j.restaurant.String(),
			"items", result.Items,
			"failed", result.Failed,
			"error", err)
		return
	}

	j.logger.InfoContext(ctx, "Rating recompute job finished",
		"restaurant_id", j.restaurant.String(),
		"items", result.Items,
		"recomputed", result.Recomputed)
}
