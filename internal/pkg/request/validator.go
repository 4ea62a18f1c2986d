package request

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags to gin's validator:
//
//	booking_type  the value is one of schedule.Types()
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding validator engine %T", binding.Validator.Engine())
			return
		}
		err = v.RegisterValidation("booking_type", validateBookingType)
	})
	return err
}

func validateBookingType(fl validator.FieldLevel) bool {
	return schedule.BookingType(fl.Field().String()).Valid()
}
