package job

import "time"

type Location struct {
	ID         int64
	Latitude   *float64
	Longitude  *float64
	Address    string
	City       string
	State      string
	PostalCode string
}

type Job struct {
	ID          int64
	Title       string
	Company     string
	Description string
	Active      bool
	Location    *Location
	CreatedAt   time.Time
}

// Coordinates reports the job's position when its location carries both
// latitude and longitude.
func (j Job) Coordinates() (lat, lng float64, ok bool) {
	if j.Location == nil || j.Location.Latitude == nil || j.Location.Longitude == nil {
		return 0, 0, false
	}
	return *j.Location.Latitude, *j.Location.Longitude, true
}
