package partner

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "partner not found")
	ErrInvalidRole = apperror.New(http.StatusBadRequest, "invalid partner role")
)

// Role is the kind of household service a partner offers.
type Role string

const (
	RoleHousekeeper Role = "pembantu"
	RoleGardener    Role = "tukang_kebun"
	RoleMasseur     Role = "tukang_pijat"
)

func (r Role) Valid() bool {
	switch r {
	case RoleHousekeeper, RoleGardener, RoleMasseur:
		return true
	}
	return false
}

// Partner is a service provider customers can book.
type Partner struct {
	ID              string
	FullName        string
	Role            Role
	ExperienceYears int
	Rating          float64
	TotalReviews    int
	Specializations []string
	Languages       []string
	District        string // kecamatan
	Description     *string
	ProfileImage    *string // URL
	Pricing         schedule.Rate
	IsAvailable     bool
	CreatedAt       time.Time
}

// Filter defines parameters for listing partners.
type Filter struct {
	Role           Role
	District       string
	MinRating      *float64
	MinExperience  *int
	MaxHourlyRate  *int64
	Specialization string
	AvailableOnly  bool

	Page      int
	PageSize  int
	SortBy    string // rating, experience, price or created_at
	SortOrder string
}
