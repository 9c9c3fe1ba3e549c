package cmd

import "backoffice/internal/adapters/out/postgres"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	DBSchema   string

	// RestaurantID is the default scope for HTTP requests without the
	// X-Restaurant-ID header and the restaurant the recompute job repairs.
	// Empty disables both.
	RestaurantID            string
	BusinessTimezone        string
	RatingRecomputeSchedule string
	RecentOrdersLimit       int

	// AMQPURL empty disables the review event consumer.
	AMQPURL         string
	AMQPExchange    string
	AMQPReviewQueue string
}

func (c Config) ConnectionSettings() postgres.ConnectionSettings {
	return postgres.ConnectionSettings{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSslMode,
		Schema:   c.DBSchema,
	}
}
