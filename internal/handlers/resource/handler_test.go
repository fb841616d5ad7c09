package resource_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	otelMocks "washbay/infras/otel/mocks"
	"washbay/internal/domains/resource/mocks"
	"washbay/internal/domains/resource/model"
	"washbay/internal/domains/resource/model/dto"
	"washbay/internal/handlers/resource"
	"washbay/shared/failure"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		setupMock func(dir *mocks.MockDirectory)
		wantCode  int
		wantBody  string
	}{
		{
			name:   "register bay",
			method: http.MethodPost,
			path:   "/resources",
			body:   `{"name":"Bay 1","kind":"bay","max_vehicle_size":"large","equipment":["foam"]}`,
			setupMock: func(dir *mocks.MockDirectory) {
				dir.EXPECT().Register(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req dto.RegisterResourceRequest) (dto.ResourceResponse, error) {
						return dto.ResourceResponse{ID: "bay-1", Name: req.Name, Kind: req.Kind}, nil
					})
			},
			wantCode: http.StatusCreated,
			wantBody: `"id":"bay-1"`,
		},
		{
			name:      "register with unknown kind",
			method:    http.MethodPost,
			path:      "/resources",
			body:      `{"name":"Bay 1","kind":"garage"}`,
			setupMock: func(*mocks.MockDirectory) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:   "list eligible mobile teams",
			method: http.MethodPost,
			path:   "/resources/eligible",
			body:   `{"kind":"mobile_team","vehicle_size":"medium","latitude":-6.2,"longitude":106.8}`,
			setupMock: func(dir *mocks.MockDirectory) {
				dir.EXPECT().ListEligible(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, criteria model.Criteria) ([]model.Resource, error) {
						assert.Equal(t, model.KindMobileTeam, criteria.Kind)
						assert.NotNil(t, criteria.Location)

						return []model.Resource{{ID: "team-1", Kind: model.KindMobileTeam, Status: model.StatusActive}}, nil
					})
			},
			wantCode: http.StatusOK,
			wantBody: `"id":"team-1"`,
		},
		{
			name:   "unknown resource",
			method: http.MethodGet,
			path:   "/resources/nope",
			setupMock: func(dir *mocks.MockDirectory) {
				dir.EXPECT().Get(gomock.Any(), "nope").Return(dto.ResourceResponse{}, failure.NotFound("resource not found"))
			},
			wantCode: http.StatusNotFound,
			wantBody: `"kind":"not_found"`,
		},
		{
			name:   "put bay in maintenance",
			method: http.MethodPatch,
			path:   "/resources/bay-1/status",
			body:   `{"status":"maintenance"}`,
			setupMock: func(dir *mocks.MockDirectory) {
				dir.EXPECT().UpdateStatus(gomock.Any(), "bay-1", dto.UpdateStatusRequest{Status: "maintenance"}).Return(nil)
			},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			dir := mocks.NewMockDirectory(ctrl)
			tt.setupMock(dir)

			handler := resource.New(dir, otelMocks.NewOtel())
			router := chi.NewRouter()
			handler.Router(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
