package schedule

// Price is duration * rate.For(t). Durations below one and negative rates
// price at zero.
func Price(t BookingType, duration int, rate Rate) int64 {
	if duration < 1 {
		return 0
	}
	r := rate.For(t)
	if r < 0 {
		return 0
	}
	return int64(duration) * r
}

// Quote prices a computed window.
func Quote(w Window, rate Rate) int64 {
	return Price(w.Type, w.Duration, rate)
}
