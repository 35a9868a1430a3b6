package dto

import (
	"inclusion-engine/internal/domain/geo"
	"inclusion-engine/internal/domain/job"
	"inclusion-engine/internal/usecase"
)

type LocationResponse struct {
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Address    string   `json:"address,omitempty"`
	City       string   `json:"city,omitempty"`
	State      string   `json:"state,omitempty"`
	PostalCode string   `json:"postal_code,omitempty"`
}

type JobResponse struct {
	ID          int64             `json:"id"`
	Title       string            `json:"title"`
	Company     string            `json:"company"`
	Description string            `json:"description,omitempty"`
	Location    *LocationResponse `json:"location"`
}

type NearbyJobResponse struct {
	JobResponse
	DistanceKm *float64 `json:"distance_km"`
}

type NearbyJobsResponse struct {
	FilterApplied bool                `json:"filter_applied"`
	Jobs          []NearbyJobResponse `json:"jobs"`
}

func NewJob(j job.Job) JobResponse {
	out := JobResponse{ID: j.ID, Title: j.Title, Company: j.Company, Description: j.Description}
	if l := j.Location; l != nil {
		out.Location = &LocationResponse{
			Latitude:   l.Latitude,
			Longitude:  l.Longitude,
			Address:    l.Address,
			City:       l.City,
			State:      l.State,
			PostalCode: l.PostalCode,
		}
	}
	return out
}

// NewNearbyJobs leaves distance_km null when the filter was bypassed.
func NewNearbyJobs(res usecase.ProximityResult) NearbyJobsResponse {
	out := NearbyJobsResponse{FilterApplied: res.Applied, Jobs: make([]NearbyJobResponse, 0, len(res.Jobs))}
	for _, n := range res.Jobs {
		out.Jobs = append(out.Jobs, newNearby(n, res.Applied))
	}
	return out
}

func newNearby(n geo.Nearby, applied bool) NearbyJobResponse {
	r := NearbyJobResponse{JobResponse: NewJob(n.Job)}
	if applied {
		d := n.DistanceKm
		r.DistanceKm = &d
	}
	return r
}
