package http

import (
	"github.com/nekogravitycat/partner-booking-backend/internal/partner"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/request"
)

// ListPartnersRequest defines query parameters for listing partners.
type ListPartnersRequest struct {
	request.ListParams
	Role           string   `form:"role" binding:"omitempty,oneof=pembantu tukang_kebun tukang_pijat"`
	Kecamatan      string   `form:"kecamatan"`
	MinRating      *float64 `form:"min_rating" binding:"omitempty,min=0,max=5"`
	MinExperience  *int     `form:"min_experience" binding:"omitempty,min=0"`
	MaxHourlyRate  *int64   `form:"max_hourly_rate" binding:"omitempty,min=0"`
	Specialization string   `form:"specialization"`
	Available      bool     `form:"available"`
	SortBy         string   `form:"sort_by" binding:"omitempty,oneof=rating experience price created_at"`
}

// PricingResponse is the rate block of a partner, in minor currency units.
type PricingResponse struct {
	HourlyRate  int64 `json:"hourly_rate"`
	DailyRate   int64 `json:"daily_rate"`
	MonthlyRate int64 `json:"monthly_rate"`
}

type PartnerResponse struct {
	ID              string          `json:"id"`
	FullName        string          `json:"full_name"`
	Role            string          `json:"role"`
	ExperienceYears int             `json:"experience_years"`
	Rating          float64         `json:"rating"`
	TotalReviews    int             `json:"total_reviews"`
	Specializations []string        `json:"specializations"`
	Languages       []string        `json:"languages"`
	Kecamatan       string          `json:"kecamatan"`
	Description     *string         `json:"profile_description"`
	ProfileImage    *string         `json:"profile_image"`
	Pricing         PricingResponse `json:"pricing"`
	IsAvailable     bool            `json:"is_available"`
}

// PartnerTag is a brief representation of a partner.
type PartnerTag struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

func NewPartnerResponse(p *partner.Partner) PartnerResponse {
	specs := p.Specializations
	if specs == nil {
		specs = []string{}
	}
	langs := p.Languages
	if langs == nil {
		langs = []string{}
	}
	return PartnerResponse{
		ID:              p.ID,
		FullName:        p.FullName,
		Role:            string(p.Role),
		ExperienceYears: p.ExperienceYears,
		Rating:          p.Rating,
		TotalReviews:    p.TotalReviews,
		Specializations: specs,
		Languages:       langs,
		Kecamatan:       p.District,
		Description:     p.Description,
		ProfileImage:    p.ProfileImage,
		Pricing: PricingResponse{
			HourlyRate:  p.Pricing.Hourly,
			DailyRate:   p.Pricing.Daily,
			MonthlyRate: p.Pricing.Monthly,
		},
		IsAvailable: p.IsAvailable,
	}
}
