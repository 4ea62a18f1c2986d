package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/partner-booking-backend/internal/partner"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

const partnerID = "5b0f3f4e-7c43-4f0e-9a57-3d1f2a1b9c01"

type fakeService struct {
	lastFilter partner.Filter
}

func (s *fakeService) GetByID(ctx context.Context, id string) (*partner.Partner, error) {
	if id != partnerID {
		return nil, partner.ErrNotFound
	}
	return &partner.Partner{
		ID:          partnerID,
		FullName:    "Siti Aminah",
		Role:        partner.RoleHousekeeper,
		Rating:      4.8,
		Pricing:     schedule.Rate{Hourly: 50000, Daily: 300000, Monthly: 5000000},
		IsAvailable: true,
	}, nil
}

func (s *fakeService) List(ctx context.Context, filter partner.Filter) ([]*partner.Partner, int, error) {
	s.lastFilter = filter
	p, _ := s.GetByID(ctx, partnerID)
	return []*partner.Partner{p}, 1, nil
}

func setupRouter() (*gin.Engine, *fakeService) {
	gin.SetMode(gin.TestMode)
	svc := &fakeService{}
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc))
	return r, svc
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetPartner(t *testing.T) {
	r, _ := setupRouter()

	w := get(r, "/v1/partners/"+partnerID)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Siti Aminah", body["full_name"])
	assert.Equal(t, map[string]any{
		"hourly_rate":  float64(50000),
		"daily_rate":   float64(300000),
		"monthly_rate": float64(5000000),
	}, body["pricing"])
	assert.Equal(t, []any{}, body["specializations"])

	assert.Equal(t, http.StatusNotFound, get(r, "/v1/partners/00000000-0000-0000-0000-000000000000").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/v1/partners/42").Code)
}

func TestListPartners(t *testing.T) {
	r, svc := setupRouter()

	w := get(r, "/v1/partners?role=tukang_kebun&min_rating=4.5&max_hourly_rate=60000&available=true&sort_by=price&sort_order=asc&page=2&page_size=5")
	require.Equal(t, http.StatusOK, w.Code)

	f := svc.lastFilter
	assert.Equal(t, partner.RoleGardener, f.Role)
	require.NotNil(t, f.MinRating)
	assert.Equal(t, 4.5, *f.MinRating)
	require.NotNil(t, f.MaxHourlyRate)
	assert.Equal(t, int64(60000), *f.MaxHourlyRate)
	assert.True(t, f.AvailableOnly)
	assert.Equal(t, "price", f.SortBy)
	assert.Equal(t, "ASC", f.SortOrder)

	var page response.PageResponse[PartnerResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(50000), page.Items[0].Pricing.HourlyRate)
}

func TestListPartnersRejectsBadQuery(t *testing.T) {
	r, _ := setupRouter()

	tests := []string{
		"/v1/partners?role=chef",
		"/v1/partners?min_rating=6",
		"/v1/partners?sort_by=name",
		"/v1/partners?page_size=1000",
	}
	for _, path := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, get(r, path).Code)
		})
	}
}
