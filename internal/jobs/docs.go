// Package jobs provides scheduled background tasks for the back-office.
//
// Jobs are built on github.com/robfig/cron/v3 with six-field (seconds)
// schedules.
//
// # Available Jobs
//
// RatingRecomputeJob rebuilds the stored rating of every rated menu item of
// the configured restaurant from its published reviews. The incremental
// review-event path does not lock rows, so concurrent events can drift the
// stored aggregate; this pass converges it. Default schedule: every 15
// minutes ("0 */15 * * * *").
//
// # Usage
//
//	job := jobs.NewRatingRecomputeJob(recomputeHandler, restaurantID, cfg.RatingRecomputeSchedule, logger)
//	jobManager := jobs.NewJobManager(job)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed pass is logged with the number of items attempted and failed; the
// next tick tries again. Overlapping runs are skipped.
package jobs
