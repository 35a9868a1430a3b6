// Package geo filters jobs by great-circle distance.
package geo

import (
	"math"
	"strconv"
	"strings"

	"inclusion-engine/internal/domain/job"
)

const EarthRadiusKm = 6371.0

// DistanceKm is the haversine distance between two decimal-degree points.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

type Nearby struct {
	Job        job.Job `json:"job"`
	DistanceKm float64 `json:"distance_km"`
}

// Within keeps the jobs at most maxKm from (lat, lng), in input order. Jobs
// without coordinates are dropped.
func Within(maxKm, lat, lng float64, jobs []job.Job) []Nearby {
	out := make([]Nearby, 0, len(jobs))
	for _, j := range jobs {
		jl, jg, ok := j.Coordinates()
		if !ok {
			continue
		}
		d := DistanceKm(lat, lng, jl, jg)
		if d <= maxKm {
			out = append(out, Nearby{Job: j, DistanceKm: math.Round(d*100) / 100})
		}
	}
	return out
}

// WithinRaw is Within for unparsed parameters. When any of them is not a
// number the filter is bypassed and every job is returned with a zero
// distance.
func WithinRaw(maxKm, lat, lng string, jobs []job.Job) (out []Nearby, applied bool) {
	m, okM := parse(maxKm)
	la, okLa := parse(lat)
	lo, okLo := parse(lng)
	if !okM || !okLa || !okLo {
		out = make([]Nearby, 0, len(jobs))
		for _, j := range jobs {
			out = append(out, Nearby{Job: j})
		}
		return out, false
	}
	return Within(m, la, lo, jobs), true
}

func parse(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
