package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"backoffice/internal/adapters/out/reportexport"
	"backoffice/internal/core/application/usecases/commands"
	"backoffice/internal/core/application/usecases/queries"
	"backoffice/internal/core/domain/model/kernel"
	"backoffice/internal/core/domain/model/rating"
	"backoffice/internal/core/domain/model/timerange"
	"backoffice/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// RestaurantHeader selects the restaurant a request is scoped to.
const RestaurantHeader = "X-Restaurant-ID"

// Server exposes the analytics use cases over HTTP. Every read is scoped to
// the restaurant named by RestaurantHeader, or to the configured default when
// the header is absent.
type Server struct {
	// Query handlers
	dashboardHandler  queries.GetDashboardOverviewQueryHandler
	reportHandler     queries.GetReportOverviewQueryHandler
	listOrdersHandler queries.ListOrdersQueryHandler

	// Command handlers
	recomputeHandler commands.RecomputeItemRatingCommandHandler

	cfg     ServerConfig
	metrics http.Handler
	logger  *slog.Logger
}

// ServerConfig holds request defaults.
type ServerConfig struct {
	// DefaultRestaurant scopes requests without RestaurantHeader.
	DefaultRestaurant kernel.RestaurantID
	// RecentOrdersLimit is used when recentLimit is not given; zero means
	// queries.DefaultRecentOrdersLimit.
	RecentOrdersLimit int
}

// NewServer creates a new HTTP server with the required command and query handlers.
// metrics may be nil, in which case /metrics is not registered.
func NewServer(
	dashboardHandler queries.GetDashboardOverviewQueryHandler,
	reportHandler queries.GetReportOverviewQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	recomputeHandler commands.RecomputeItemRatingCommandHandler,
	cfg ServerConfig,
	metrics http.Handler,
	logger *slog.Logger,
) *Server {
	return &Server{
		dashboardHandler:  dashboardHandler,
		reportHandler:     reportHandler,
		listOrdersHandler: listOrdersHandler,
		recomputeHandler:  recomputeHandler,
		cfg:               cfg,
		metrics:           metrics,
		logger:            logger.With("component", "http_server"),
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)
	if s.metrics != nil {
		e.GET("/metrics", echo.WrapHandler(s.metrics))
	}
	registerDocs(e)

	api := e.Group("/api/v1")
	api.GET("/dashboard/overview", s.GetDashboardOverview)
	api.GET("/reports/overview", s.GetReportOverview)
	api.GET("/reports/export.csv", s.ExportReportCSV)
	api.GET("/reports/export.pdf", s.ExportReportPDF)
	api.GET("/orders", s.ListOrders)
	api.POST("/items/:itemId/rating/recompute", s.RecomputeItemRating)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// GetDashboardOverview handles GET /api/v1/dashboard/overview.
//
//	@Summary	Dashboard overview for today, yesterday and the current week
//	@Produce	json
//	@Param		X-Restaurant-ID	header		string	false	"restaurant scope"
//	@Param		anchorDate		query		string	false	"YYYY-MM-DD in the business timezone"
//	@Param		recentLimit		query		int		false	"recent orders to return (1..100)"
//	@Success	200				{object}	DashboardOverview
//	@Failure	400				{object}	Error
//	@Failure	500				{object}	Error
//	@Router		/api/v1/dashboard/overview [get]
func (s *Server) GetDashboardOverview(ctx echo.Context) error {
	restaurant, err := s.restaurant(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var anchorDate string
	recentLimit := s.cfg.RecentOrdersLimit
	if err := bindQuery(ctx, "anchorDate", &anchorDate); err != nil {
		return s.fail(ctx, err)
	}
	if err := bindQuery(ctx, "recentLimit", &recentLimit); err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetDashboardOverviewQuery(restaurant, anchorDate, recentLimit)
	if err != nil {
		return s.fail(ctx, err)
	}

	overview, err := s.dashboardHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toDashboardOverview(overview))
}

// GetReportOverview handles GET /api/v1/reports/overview.
//
//	@Summary	Report totals, revenue series, peak hours and top items
//	@Produce	json
//	@Param		X-Restaurant-ID	header		string	false	"restaurant scope"
//	@Param		range			query		string	false	"today|yesterday|week|month|this_week|this_month"
//	@Param		anchorDate		query		string	false	"YYYY-MM-DD in the business timezone"
//	@Success	200				{object}	ReportOverview
//	@Failure	400				{object}	Error
//	@Failure	500				{object}	Error
//	@Router		/api/v1/reports/overview [get]
func (s *Server) GetReportOverview(ctx echo.Context) error {
	overview, err := s.reportOverview(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toReportOverview(overview))
}

// ExportReportCSV handles GET /api/v1/reports/export.csv.
//
//	@Summary	Report overview as a sectioned CSV file
//	@Produce	text/csv
//	@Param		X-Restaurant-ID	header	string	false	"restaurant scope"
//	@Param		range			query	string	false	"today|yesterday|week|month|this_week|this_month"
//	@Param		anchorDate		query	string	false	"YYYY-MM-DD in the business timezone"
//	@Success	200
//	@Failure	400	{object}	Error
//	@Failure	500	{object}	Error
//	@Router		/api/v1/reports/export.csv [get]
func (s *Server) ExportReportCSV(ctx echo.Context) error {
	overview, err := s.reportOverview(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var buf bytes.Buffer
	if err := reportexport.WriteCSV(&buf, overview); err != nil {
		return s.fail(ctx, err)
	}

	setAttachment(ctx, reportexport.Filename(overview.Range.Period, ctx.QueryParam("anchorDate"), "csv"))
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportReportPDF handles GET /api/v1/reports/export.pdf.
//
//	@Summary	Report overview as a printable PDF
//	@Produce	application/pdf
//	@Param		X-Restaurant-ID	header	string	false	"restaurant scope"
//	@Param		range			query	string	false	"today|yesterday|week|month|this_week|this_month"
//	@Param		anchorDate		query	string	false	"YYYY-MM-DD in the business timezone"
//	@Success	200
//	@Failure	400	{object}	Error
//	@Failure	500	{object}	Error
//	@Router		/api/v1/reports/export.pdf [get]
func (s *Server) ExportReportPDF(ctx echo.Context) error {
	overview, err := s.reportOverview(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	doc, err := reportexport.RenderPDF(overview, reportexport.Meta{})
	if err != nil {
		return s.fail(ctx, err)
	}

	setAttachment(ctx, reportexport.Filename(overview.Range.Period, ctx.QueryParam("anchorDate"), "pdf"))
	return ctx.Blob(http.StatusOK, "application/pdf", doc)
}

// ListOrders handles GET /api/v1/orders.
//
//	@Summary	Paged order listing for a date preset
//	@Produce	json
//	@Param		X-Restaurant-ID	header		string	false	"restaurant scope"
//	@Param		date			query		string	false	"today|yesterday|this_week|this_month"
//	@Param		anchorDate		query		string	false	"YYYY-MM-DD in the business timezone"
//	@Param		status			query		string	false	"order status"
//	@Param		tableId			query		string	false	"table id"
//	@Param		q				query		string	false	"table number substring"
//	@Param		page			query		int		false	"1-based page"
//	@Param		pageSize		query		int		false	"page size (1..100)"
//	@Success	200				{object}	OrderList
//	@Failure	400				{object}	Error
//	@Failure	500				{object}	Error
//	@Router		/api/v1/orders [get]
func (s *Server) ListOrders(ctx echo.Context) error {
	restaurant, err := s.restaurant(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var params queries.ListOrdersParams
	err = errors.Join(
		bindQuery(ctx, "date", &params.Date),
		bindQuery(ctx, "anchorDate", &params.AnchorDate),
		bindQuery(ctx, "status", &params.Status),
		bindQuery(ctx, "tableId", &params.TableID),
		bindQuery(ctx, "q", &params.Search),
		bindQuery(ctx, "page", &params.Page),
		bindQuery(ctx, "pageSize", &params.PageSize),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewListOrdersQuery(restaurant, params)
	if err != nil {
		return s.fail(ctx, err)
	}

	page, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderList(page))
}

// RecomputeItemRating handles POST /api/v1/items/{itemId}/rating/recompute.
//
//	@Summary	Rebuild an item's rating from its published reviews
//	@Produce	json
//	@Param		X-Restaurant-ID	header		string	false	"restaurant scope"
//	@Param		itemId			path		string	true	"menu item id"
//	@Success	200				{object}	ItemRating
//	@Failure	400				{object}	Error
//	@Failure	404				{object}	Error
//	@Failure	500				{object}	Error
//	@Router		/api/v1/items/{itemId}/rating/recompute [post]
func (s *Server) RecomputeItemRating(ctx echo.Context) error {
	restaurant, err := s.restaurant(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return s.fail(ctx, errs.NewValueIsInvalidErrorWithCause("itemId", err))
	}

	cmd, err := commands.NewRecomputeItemRatingCommand(restaurant, itemID)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.recomputeHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	if !result.Found {
		return s.fail(ctx, errs.NewObjectNotFoundError("itemId", itemID))
	}

	return ctx.JSON(http.StatusOK, toItemRating(itemID.String(), result.Rating))
}

func (s *Server) reportOverview(ctx echo.Context) (queries.ReportOverview, error) {
	restaurant, err := s.restaurant(ctx)
	if err != nil {
		return queries.ReportOverview{}, err
	}

	var period, anchorDate string
	if err := bindQuery(ctx, "range", &period); err != nil {
		return queries.ReportOverview{}, err
	}
	if err := bindQuery(ctx, "anchorDate", &anchorDate); err != nil {
		return queries.ReportOverview{}, err
	}

	query, err := queries.NewGetReportOverviewQuery(restaurant, period, anchorDate)
	if err != nil {
		return queries.ReportOverview{}, err
	}

	return s.reportHandler.Handle(ctx.Request().Context(), query)
}

func (s *Server) restaurant(ctx echo.Context) (kernel.RestaurantID, error) {
	header := ctx.Request().Header.Get(RestaurantHeader)
	if header == "" {
		return s.cfg.DefaultRestaurant, s.cfg.DefaultRestaurant.Validate()
	}
	return kernel.NewRestaurantID(header)
}

// fail writes the error body. Client mistakes are echoed back; anything else
// is logged and answered with a generic message.
func (s *Server) fail(ctx echo.Context, err error) error {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method,
			"path", ctx.Path(),
			"error", err,
		)
		message = "Failed to aggregate analytics"
	}

	return ctx.JSON(code, Error{
		Code:    code,
		Message: message,
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, queries.ErrAggregationFailed),
		errors.Is(err, rating.ErrCorruptAggregate):
		return http.StatusInternalServerError
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, timerange.ErrInvalidPeriod),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errBadParameter):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadParameter = errors.New("bad query parameter")

// bindQuery decodes an optional form-style query parameter into dst, leaving
// dst untouched when the parameter is absent.
func bindQuery[T any](ctx echo.Context, name string, dst *T) error {
	var value *T
	if err := runtime.BindQueryParameter("form", true, false, name, ctx.QueryParams(), &value); err != nil {
		return fmt.Errorf("%w: %w", errBadParameter, err)
	}
	if value != nil {
		*dst = *value
	}
	return nil
}

func setAttachment(ctx echo.Context, filename string) {
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}
