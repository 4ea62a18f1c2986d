package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/partner-booking-backend/internal/partner"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/response"
)

type Handler struct {
	service partner.Service
}

func NewHandler(service partner.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListPartnersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	req.Normalize()

	filter := partner.Filter{
		Role:           partner.Role(req.Role),
		District:       req.Kecamatan,
		MinRating:      req.MinRating,
		MinExperience:  req.MinExperience,
		MaxHourlyRate:  req.MaxHourlyRate,
		Specialization: req.Specialization,
		AvailableOnly:  req.Available,
		Page:           req.Page,
		PageSize:       req.PageSize,
		SortBy:         req.SortBy,
		SortOrder:      req.SortOrder,
	}

	partners, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewPageResponse(partners, NewPartnerResponse, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPartnerResponse(p))
}
