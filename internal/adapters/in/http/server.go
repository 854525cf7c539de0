package http

import (
	"errors"
	"net/http"

	"baggage/internal/core/application/usecases/commands"
	"baggage/internal/core/application/usecases/queries"
	"baggage/internal/core/domain/model/baggage"
	"baggage/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Handlers groups the use cases the HTTP adapter exposes.
type Handlers struct {
	DropBaggage       commands.DropBaggageCommandHandler
	StartProcessing   commands.StartBaggageProcessingCommandHandler
	SetHold           commands.SetBaggageHoldCommandHandler
	RecordStatus      commands.RecordBaggageStatusCommandHandler
	RegisterFlight    commands.RegisterFlightCommandHandler
	GetBaggage        queries.GetBaggageByNumberQueryHandler
	GetBaggageHistory queries.GetBaggageHistoryQueryHandler
	GetAllBaggage     queries.GetAllBaggageQueryHandler
	GetAllFlights     queries.GetAllFlightsQueryHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	logger *zap.Logger
}

func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	return &Server{
		h:      handlers,
		logger: logger.With(zap.String("component", "http")),
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/baggage", s.DropBaggage)
	api.GET("/baggage", s.GetAllBaggage)
	api.GET("/baggage/:trackingNumber", s.GetBaggage)
	api.GET("/baggage/:trackingNumber/history", s.GetBaggageHistory)
	api.PUT("/baggage/:trackingNumber/status", s.RecordStatus)
	api.PUT("/baggage/:trackingNumber/hold", s.SetHold)
	api.POST("/baggage/:trackingNumber/processing", s.StartProcessing)

	api.POST("/flights", s.RegisterFlight)
	api.GET("/flights", s.GetFlights)
}

// DropBaggage handles POST /api/v1/baggage.
// 201 for a new record, 200 for a known tracking number and 202 when the record was
// created but the pipeline stopped early.
func (s *Server) DropBaggage(ctx echo.Context) error {
	var req DropBaggageRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewDropBaggageCommand(req.TrackingNumber, req.WeightKg, req.FlightID)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.DropBaggage.Handle(ctx.Request().Context(), cmd)
	response := DropBaggageResponse{
		Baggage:    result.Baggage,
		Created:    result.Created,
		Processing: processingFrom(result.Processing),
	}
	switch {
	case errors.Is(err, commands.ErrProcessingInterrupted):
		response.Warning = "processing interrupted; the record will be resumed"
		return ctx.JSON(http.StatusAccepted, response)
	case err != nil:
		return s.fail(ctx, err)
	case !result.Created:
		return ctx.JSON(http.StatusOK, response)
	default:
		return ctx.JSON(http.StatusCreated, response)
	}
}

// GetBaggage handles GET /api/v1/baggage/:trackingNumber.
func (s *Server) GetBaggage(ctx echo.Context) error {
	query, err := queries.NewGetBaggageByNumberQuery(ctx.Param("trackingNumber"))
	if err != nil {
		return s.fail(ctx, err)
	}

	snapshot, err := s.h.GetBaggage.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

// GetBaggageHistory handles GET /api/v1/baggage/:trackingNumber/history.
// Unknown tracking numbers yield an empty list.
func (s *Server) GetBaggageHistory(ctx echo.Context) error {
	history, err := s.h.GetBaggageHistory.Handle(ctx.Request().Context(),
		queries.NewGetBaggageHistoryQuery(ctx.Param("trackingNumber")))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, history)
}

// GetAllBaggage handles GET /api/v1/baggage.
func (s *Server) GetAllBaggage(ctx echo.Context) error {
	all, err := s.h.GetAllBaggage.Handle(ctx.Request().Context(), queries.NewGetAllBaggageQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, all)
}

// RecordStatus handles PUT /api/v1/baggage/:trackingNumber/status.
// Without a details field it is a manual status update with the standard note.
// With "details": "" the status is recorded without a note, so repeating the
// current status leaves the history unchanged.
func (s *Server) RecordStatus(ctx echo.Context) error {
	var req RecordStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	status, err := baggage.ParseStatus(req.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	var cmd commands.RecordBaggageStatusCommand
	if req.Details == nil {
		cmd, err = commands.NewUpdateBaggageStatusCommand(ctx.Param("trackingNumber"), status)
	} else {
		cmd, err = commands.NewRecordBaggageStatusCommand(ctx.Param("trackingNumber"), status, *req.Details)
	}
	if err != nil {
		return s.fail(ctx, err)
	}

	snapshot, err := s.h.RecordStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, snapshot)
}

// SetHold handles PUT /api/v1/baggage/:trackingNumber/hold.
func (s *Server) SetHold(ctx echo.Context) error {
	var req SetHoldRequest
	if err := ctx.Bind(&req); err != nil || req.Hold == nil {
		return badRequest(ctx, "Invalid request body: hold is required")
	}

	cmd, err := commands.NewSetBaggageHoldCommand(ctx.Param("trackingNumber"), *req.Hold)
	if err != nil {
		return s.fail(ctx, err)
	}

	err = s.h.SetHold.Handle(ctx.Request().Context(), cmd)
	switch {
	case errors.Is(err, commands.ErrProcessingInterrupted):
		return ctx.NoContent(http.StatusAccepted)
	case err != nil:
		return s.fail(ctx, err)
	default:
		return ctx.NoContent(http.StatusNoContent)
	}
}

// StartProcessing handles POST /api/v1/baggage/:trackingNumber/processing.
func (s *Server) StartProcessing(ctx echo.Context) error {
	cmd, err := commands.NewStartBaggageProcessingCommand(ctx.Param("trackingNumber"))
	if err != nil {
		return s.fail(ctx, err)
	}

	if _, err = s.h.StartProcessing.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// RegisterFlight handles POST /api/v1/flights.
func (s *Server) RegisterFlight(ctx echo.Context) error {
	var req RegisterFlightRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRegisterFlightCommand(kernel.NewUUID(), req.Number, req.Origin, req.Destination, req.DepartureAt)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.h.RegisterFlight.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, RegisterFlightResponse{ID: cmd.FlightID()})
}

// GetFlights handles GET /api/v1/flights.
func (s *Server) GetFlights(ctx echo.Context) error {
	flights, err := s.h.GetAllFlights.Handle(ctx.Request().Context(), queries.NewGetAllFlightsQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, flights)
}
