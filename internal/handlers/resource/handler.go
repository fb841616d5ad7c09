package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"washbay/infras/otel"
	"washbay/internal/domains/resource/model/dto"
	"washbay/internal/domains/resource/service"
	"washbay/shared/constant"
	"washbay/shared/validator"
	"washbay/transport/http/response"
)

type Handler struct {
	service service.Directory
	otel    otel.Otel
}

func New(service service.Directory, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/resources", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.RegisterResource)
		routerGroup.Post("/eligible", handler.ListEligible)
		routerGroup.Get("/{id}", handler.GetResourceByID)
		routerGroup.Patch("/{id}/status", handler.UpdateStatus)
	})
}

// RegisterResource registers a new bay or mobile team.
// @Summary Register a resource
// @Tags Resource
// @Accept json
// @Produce json
// @Param request body dto.RegisterResourceRequest true "Register Resource Request"
// @Success 201 {object} dto.ResourceResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resources [post]
func (handler *Handler) RegisterResource(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RegisterResource")
	defer scope.End()

	req := dto.RegisterResourceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	resource, err := handler.service.Register(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to register resource")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Resource " + resource.ID + " registered")

	response.WithJSON(w, http.StatusCreated, resource)
}

// ListEligible lists active resources able to serve the given vehicle and equipment.
// @Summary List eligible resources
// @Tags Resource
// @Accept json
// @Produce json
// @Param request body dto.EligibleRequest true "Eligibility Criteria"
// @Success 200 {object} dto.ResourcesResponse
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resources/eligible [post]
func (handler *Handler) ListEligible(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListEligible")
	defer scope.End()

	req := dto.EligibleRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	resources, err := handler.service.ListEligible(ctx, req.ToCriteria())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list eligible resources")

		response.WithError(w, err)

		return
	}

	res := dto.ResourcesResponse{}
	res.FromModels(resources)

	response.WithJSON(w, http.StatusOK, res)
}

// GetResourceByID retrieves a resource by its ID.
// @Summary Get a resource by ID
// @Tags Resource
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} dto.ResourceResponse
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resources/{id} [get]
func (handler *Handler) GetResourceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetResourceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	resource, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get resource by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, resource)
}

// UpdateStatus changes the operating status of a resource.
// @Summary Update resource status
// @Tags Resource
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param request body dto.UpdateStatusRequest true "Update Status Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resources/{id}/status [patch]
func (handler *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateStatus")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateStatus(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update resource status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Resource " + id + " moved to " + req.Status)

	response.WithMessage(w, http.StatusOK, "Resource status updated successfully")
}
