package booking

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"washbay/infras/otel"
	"washbay/internal/domains/booking/model"
	"washbay/internal/domains/booking/model/dto"
	"washbay/internal/domains/booking/service"
	"washbay/shared/constant"
	gDto "washbay/shared/dto"
	"washbay/shared/failure"
	"washbay/shared/timezone"
	"washbay/shared/validator"
	"washbay/transport/http/response"
)

const (
	requestParamScheduledFrom = "scheduled_from"
	requestParamScheduledTo   = "scheduled_to"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)

		routerGroup.Route("/{id}", func(r chi.Router) {
			r.Get("/", handler.GetBookingByID)
			r.Get("/cancellation-quote", handler.QuoteCancellation)
			r.Post("/confirm", handler.ConfirmBooking)
			r.Post("/start", handler.StartService)
			r.Post("/complete", handler.CompleteService)
			r.Post("/no-show", handler.MarkNoShow)
			r.Post("/cancel", handler.CancelBooking)
			r.Post("/reschedule", handler.RescheduleBooking)
			r.Post("/rate", handler.RateBooking)
			r.Post("/services", handler.AddService)
			r.Delete("/services/{serviceID}", handler.RemoveService)
			r.Post("/services/{serviceID}/work", handler.RecordWorkItem)
		})
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Create a booking and assign it to the first free eligible resource. Walk-ins may start immediately.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings [post]
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking created on resource " + booking.ResourceID)

	response.WithJSON(w, http.StatusCreated, booking)
}

// GetBookings retrieves all bookings based on query parameters.
// @Summary Get all bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param customer_id query string false "Filter by customer ID"
// @Param resource_id query string false "Filter by assigned resource ID"
// @Param category query string false "Filter by category (stationary, mobile, walk_in)"
// @Param scheduled_from query string false "Scheduled at or after (RFC3339)"
// @Param scheduled_to query string false "Scheduled before (RFC3339)"
// @Success 200 {object} dto.GetBookingsResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams, err := gDto.ParseQueryParams(r.URL.Query())
	if err != nil {
		response.WithError(w, err)

		return
	}

	queryParams.RestrictSort(constant.FieldCreatedAt, model.FieldScheduledAt, model.FieldStatus, model.FieldTotalDuration)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldStatus, model.FieldCustomerID, model.FieldResourceID, model.FieldCategory} {
		value := r.URL.Query().Get(field)
		if value == constant.Empty {
			continue
		}

		filterGroup.Add(gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    value,
			Table:    model.TableName,
		})
	}

	for _, bound := range []struct{ param, operator string }{
		{param: requestParamScheduledFrom, operator: gDto.FilterOperatorGreaterEq},
		{param: requestParamScheduledTo, operator: gDto.FilterOperatorLess},
	} {
		value := r.URL.Query().Get(bound.param)
		if value == constant.Empty {
			continue
		}

		at, err := timezone.Parse(constant.DateFormat, value)
		if err != nil {
			err = failure.Validation("%s must be a date time", bound.param)

			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to parse query parameter")

			response.WithError(w, err)

			return
		}

		filterGroup.Add(gDto.Filter{
			ArgName:  bound.param,
			Field:    model.FieldScheduledAt,
			Operator: bound.operator,
			Value:    at,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Bookings retrieved successfully")

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking retrieved successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// QuoteCancellation returns the fee a cancellation would cost right now.
// @Summary Quote a cancellation fee
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.CancellationQuoteResponse
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/cancellation-quote [get]
func (handler *Handler) QuoteCancellation(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".QuoteCancellation")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	quote, err := handler.service.QuoteCancellation(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to quote cancellation")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, quote)
}

// ConfirmBooking moves a pending booking to confirmed.
// @Summary Confirm a booking
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/confirm [post]
func (handler *Handler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "ConfirmBooking", handler.service.Confirm)
}

// StartService starts the work session of a confirmed booking.
// @Summary Start service
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/start [post]
func (handler *Handler) StartService(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "StartService", handler.service.StartService)
}

// CompleteService completes an in progress booking and settles overtime.
// @Summary Complete service
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/complete [post]
func (handler *Handler) CompleteService(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "CompleteService", handler.service.CompleteService)
}

// MarkNoShow marks a confirmed booking whose grace period elapsed as a no-show.
// @Summary Mark no-show
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/no-show [post]
func (handler *Handler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	handler.transition(w, r, "MarkNoShow", handler.service.MarkNoShow)
}

func (handler *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	apply func(ctx context.Context, id string) (dto.BookingResponse, error),
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	booking, err := apply(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Str("action", name).Msg("failed to transition booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking moved to " + booking.Status)

	response.WithJSON(w, http.StatusOK, booking)
}

// CancelBooking cancels an active booking and charges the cancellation fee.
// @Summary Cancel a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CancelRequest true "Cancel Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.CancelRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Cancel(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking cancelled successfully")

	response.WithJSON(w, http.StatusOK, booking)
}

// RescheduleBooking moves a booking to a new start time.
// @Summary Reschedule a booking
// @Description Moves the booking, optionally forcing conflict resolution against other bookings.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.RescheduleRequest true "Reschedule Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings/{id}/reschedule [post]
func (handler *Handler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RescheduleBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RescheduleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Reschedule(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reschedule booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking rescheduled to " + booking.ScheduledAt)

	response.WithJSON(w, http.StatusOK, booking)
}

// RateBooking records the customer rating of a completed booking.
// @Summary Rate a booking
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.RateRequest true "Rate Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/rate [post]
func (handler *Handler) RateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RateBooking")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.RateRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.RateQuality(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to rate booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// AddService adds a service to a booking that has not started yet.
// @Summary Add a service
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.ServiceRequest true "Service Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id}/services [post]
func (handler *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.ServiceRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.AddService(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add service to booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service " + req.ServiceID + " added to booking")

	response.WithJSON(w, http.StatusOK, booking)
}

// RemoveService removes a service from a booking that has not started yet.
// @Summary Remove a service
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Param serviceID path string true "Service ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error
// @Router /v1/bookings/{id}/services/{serviceID} [delete]
func (handler *Handler) RemoveService(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RemoveService")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	serviceID := chi.URLParam(r, constant.RequestParamServiceID)

	booking, err := handler.service.RemoveService(ctx, id, serviceID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to remove service from booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Service " + serviceID + " removed from booking")

	response.WithJSON(w, http.StatusOK, booking)
}

// RecordWorkItem records the actual minutes spent on a service of an in progress booking.
// @Summary Record a work item
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param serviceID path string true "Service ID"
// @Param request body dto.WorkItemRequest true "Work Item Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/services/{serviceID}/work [post]
func (handler *Handler) RecordWorkItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordWorkItem")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	serviceID := chi.URLParam(r, constant.RequestParamServiceID)

	req := dto.WorkItemRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.RecordWorkItem(ctx, id, serviceID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to record work item")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}
