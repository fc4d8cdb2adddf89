package terminator

import "time"

// degreesPerHour is how far the midnight meridian moves west per UTC hour.
const degreesPerHour = 15.0

// Longitude returns the meridian currently at local midnight, in (-180, 180].
// At 00:00 UTC it is 0 and it moves west as the UTC day advances.
// Sub-second precision is ignored.
func Longitude(t time.Time) float64 {
	h, m, s := t.UTC().Clock()
	totalHours := float64(h) + float64(m)/60 + float64(s)/3600

	return Normalize(-(totalHours * degreesPerHour))
}

// Normalize wraps lon into (-180, 180]. -180 itself maps to 180.
func Normalize(lon float64) float64 {
	for lon <= -180 {
		lon += 360
	}
	for lon > 180 {
		lon -= 360
	}
	return lon
}
