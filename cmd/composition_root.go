package cmd

import (
	"log/slog"

	amqpadapter "backoffice/internal/adapters/in/amqp"
	httpadapter "backoffice/internal/adapters/in/http"
	"backoffice/internal/adapters/out/metrics"
	"backoffice/internal/adapters/out/postgres"
	"backoffice/internal/adapters/out/postgres/analyticsrepo"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/core/ports"
	"backoffice/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	uowFactory *postgres.GormUnitOfWorkFactory
	reader     ports.AnalyticsReader
	resolver   timerange.Resolver
	metrics    *metrics.PrometheusMetrics
	restaurant kernel.RestaurantID
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	resolver, err := timerange.LoadResolver(configs.BusinessTimezone, nil)
	if err != nil {
		return CompositionRoot{}, err
	}

	// A blank RESTAURANT_ID leaves the zero value, which every entry point
	// rejects when it is actually used.
	restaurant, _ := kernel.NewRestaurantID(configs.RestaurantID)

	return CompositionRoot{
		configs:    configs,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		reader:     analyticsrepo.NewGormAnalyticsReader(gormDB),
		resolver:   resolver,
		metrics:    metrics.NewPrometheusMetrics(),
		restaurant: restaurant,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) Metrics() *metrics.PrometheusMetrics {
	return c.metrics
}

func (c *CompositionRoot) HasDefaultRestaurant() bool {
	return c.restaurant.Validate() == nil
}

func (c *CompositionRoot) CreateGetDashboardOverviewQueryHandler() queries.GetDashboardOverviewQueryHandler {
	return queries.NewGetDashboardOverviewQueryHandler(c.reader, c.resolver, c.metrics)
}

func (c *CompositionRoot) CreateGetReportOverviewQueryHandler() queries.GetReportOverviewQueryHandler {
	return queries.NewGetReportOverviewQueryHandler(c.reader, c.resolver, c.metrics)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.reader, c.resolver)
}

func (c *CompositionRoot) CreateApplyReviewEventCommandHandler() commands.ApplyReviewEventCommandHandler {
	return commands.NewApplyReviewEventCommandHandler(c.ratingUoWFactory(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateRecomputeItemRatingCommandHandler() commands.RecomputeItemRatingCommandHandler {
	return commands.NewRecomputeItemRatingCommandHandler(c.ratingUoWFactory(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateRecomputeRestaurantRatingsCommandHandler() commands.RecomputeRestaurantRatingsCommandHandler {
	return commands.NewRecomputeRestaurantRatingsCommandHandler(c.ratingUoWFactory(), c.metrics, c.logger)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateGetDashboardOverviewQueryHandler(),
		c.CreateGetReportOverviewQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateRecomputeItemRatingCommandHandler(),
		httpadapter.ServerConfig{
			DefaultRestaurant: c.restaurant,
			RecentOrdersLimit: c.configs.RecentOrdersLimit,
		},
		c.metrics.Handler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewRatingRecomputeJob(
			c.CreateRecomputeRestaurantRatingsCommandHandler(),
			c.restaurant,
			c.configs.RatingRecomputeSchedule,
			c.logger,
		),
	)
}

func (c *CompositionRoot) CreateReviewConsumer() *amqpadapter.ReviewConsumer {
	apply := c.CreateApplyReviewEventCommandHandler()
	recompute := c.CreateRecomputeItemRatingCommandHandler()
	return amqpadapter.NewReviewConsumer(
		amqpadapter.ConsumerConfig{
			URL:      c.configs.AMQPURL,
			Exchange: c.configs.AMQPExchange,
			Queue:    c.configs.AMQPReviewQueue,
		},
		apply,
		recompute,
		c.logger,
	)
}

func (c *CompositionRoot) ratingUoWFactory() commands.RatingUoWFactory {
	return FuncRatingUoWFactory(func() commands.RatingUoW {
		return c.uowFactory.Create()
	})
}

type FuncRatingUoWFactory func() commands.RatingUoW

func (f FuncRatingUoWFactory) Create() commands.RatingUoW {
	return f()
}
