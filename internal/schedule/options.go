package schedule

// StartTimes returns the selectable start times for t. Only hourly bookings
// choose a start time; daily and monthly bookings always start at opening.
func (h OperatingHours) StartTimes(t BookingType) []Clock {
	if t != TypeHourly {
		return nil
	}
	out := make([]Clock, 0, h.Close-h.Open)
	for hour := h.Open; hour < h.Close; hour++ {
		out = append(out, Clock{Hour: hour})
	}
	return out
}

// MaxDuration is the largest duration selectable for t. For hourly bookings it
// depends on startHour so that the booking never runs past closing; a start
// hour outside the operating range yields 0.
func (h OperatingHours) MaxDuration(t BookingType, startHour int) int {
	switch t {
	case TypeHourly:
		if startHour < h.Open || startHour >= h.Close {
			return 0
		}
		return min(MaxHourlyDuration, h.Close-startHour)
	case TypeDaily:
		return MaxDailyDuration
	case TypeMonthly:
		return MaxMonthlyDuration
	}
	return 0
}

// Durations returns 1..MaxDuration(t, startHour) in ascending order.
// startHour is ignored for daily and monthly bookings.
func (h OperatingHours) Durations(t BookingType, startHour int) []int {
	n := h.MaxDuration(t, startHour)
	out := make([]int, 0, n)
	for d := 1; d <= n; d++ {
		out = append(out, d)
	}
	return out
}

// ClampDuration fits a previously selected duration into the options for
// (t, startHour), e.g. after the user moved an hourly start time later.
func (h OperatingHours) ClampDuration(t BookingType, startHour, duration int) int {
	maxD := h.MaxDuration(t, startHour)
	if maxD == 0 {
		return 0
	}
	return max(1, min(duration, maxD))
}

// StartTimes is Hours.StartTimes.
func StartTimes(t BookingType) []Clock { return Hours.StartTimes(t) }

// Durations is Hours.Durations.
func Durations(t BookingType, startHour int) []int { return Hours.Durations(t, startHour) }

// ClampDuration is Hours.ClampDuration.
func ClampDuration(t BookingType, startHour, duration int) int {
	return Hours.ClampDuration(t, startHour, duration)
}
