package store

import (
	"math"
	"time"
)

// dayStart truncates t to midnight UTC.
func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Monday (UTC) of the ISO week containing t.
func weekStart(t time.Time) time.Time {
	d := dayStart(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func hoursBetween(from, to time.Time) float64 {
	return to.Sub(from).Hours()
}

// moments returns the mean and the sample standard deviation of values.
// The mean is nil for an empty slice and the deviation is nil below two values.
func moments(values []float64) (mean, stddev *float64) {
	n := len(values)
	if n == 0 {
		return nil, nil
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	m := sum / float64(n)
	mean = &m
	if n < 2 {
		return mean, nil
	}

	sq := 0.0
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	sd := math.Sqrt(sq / float64(n-1))
	return mean, &sd
}
