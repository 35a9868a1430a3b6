package dto

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WriteResponseRequest carries the raw answer. A JSON null payload removes
// the stored response; omitting the field is rejected.
type WriteResponseRequest struct {
	Payload json.RawMessage `json:"payload" validate:"required"`
}

type NearbyQuery struct {
	MaxKm       string `query:"max_km" validate:"required"`
	Lat         string `query:"lat" validate:"required_without=CandidateID"`
	Lng         string `query:"lng" validate:"required_without=CandidateID"`
	CandidateID string `query:"candidate_id" validate:"omitempty,uuid"`
}

type SkillListQuery struct {
	Active string `query:"active" validate:"omitempty,oneof=true false"`
}

type SISQuery struct {
	Section string `query:"section" validate:"omitempty,max=200"`
}

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// Validate runs the struct's validate tags. The returned slice lists every
// failing field and is nil when err is not a validation failure.
func Validate(v any) ([]FieldError, error) {
	err := validate.Struct(v)
	if err == nil {
		return nil, nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, err
	}
	out := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{Field: snake(fe.Field()), Rule: fe.Tag()})
	}
	return out, err
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
