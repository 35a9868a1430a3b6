package candidate

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("candidate not found")

type Candidate struct {
	ID          uuid.UUID
	FirstName   string
	LastName    string
	Stage       Stage
	AgencyState AgencyState
	Latitude    *float64
	Longitude   *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c Candidate) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
