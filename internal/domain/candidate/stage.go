package candidate

import (
	"fmt"

	"inclusion-engine/internal/pkg/textnorm"
)

// Stage is a step of the inclusion track. Stages only move forward.
type Stage string

const (
	StageRegistro      Stage = "Registro"
	StagePreentrevista Stage = "Preentrevista"
	StageCanalizacion  Stage = "Canalización"
	StageEntrevista    Stage = "Entrevista"
	StageCapacitacion  Stage = "Capacitación"
	StageAgencia       Stage = "Agencia"
)

var stageOrder = []Stage{
	StageRegistro,
	StagePreentrevista,
	StageCanalizacion,
	StageEntrevista,
	StageCapacitacion,
	StageAgencia,
}

// ParseStage accepts stage names regardless of case or accents.
func ParseStage(s string) (Stage, error) {
	key := textnorm.Fold(s)
	for _, st := range stageOrder {
		if textnorm.Fold(string(st)) == key {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q", s)
}

func (s Stage) Valid() bool {
	_, err := ParseStage(string(s))
	return err == nil
}

// Next returns the following stage. The last stage has no successor.
func (s Stage) Next() (Stage, bool) {
	for i, st := range stageOrder {
		if textnorm.Equal(string(st), string(s)) {
			if i+1 < len(stageOrder) {
				return stageOrder[i+1], true
			}
			return st, false
		}
	}
	return s, false
}

// Is compares stages the way ParseStage reads them.
func (s Stage) Is(other Stage) bool {
	return textnorm.Equal(string(s), string(other))
}

// AgencyState is the employment-track status of a candidate in the agency
// stage. The zero value means the candidate has not reached the agency.
type AgencyState int

const (
	AgencyNone AgencyState = iota
	AgencyBolsa
	AgencyEmpleado
	AgencyDesempleado
)

var agencyCodes = map[AgencyState]string{
	AgencyBolsa:       "Bol",
	AgencyEmpleado:    "Emp",
	AgencyDesempleado: "Des",
}

var agencyLabels = map[AgencyState]string{
	AgencyBolsa:       "Bolsa de Trabajo",
	AgencyEmpleado:    "Empleado",
	AgencyDesempleado: "Desempleado",
}

// Code is the persisted short code; empty for AgencyNone.
func (a AgencyState) Code() string { return agencyCodes[a] }

// Label is the name shown to external callers; empty for AgencyNone.
func (a AgencyState) Label() string { return agencyLabels[a] }

func (a AgencyState) String() string {
	if l := a.Label(); l != "" {
		return l
	}
	return "none"
}

// ParseAgencyState maps a short code or a label to an AgencyState. Empty input
// is AgencyNone.
func ParseAgencyState(s string) (AgencyState, error) {
	key := textnorm.Fold(s)
	if key == "" {
		return AgencyNone, nil
	}
	for st, code := range agencyCodes {
		if textnorm.Fold(code) == key || textnorm.Fold(agencyLabels[st]) == key {
			return st, nil
		}
	}
	if key == "bolsa" {
		return AgencyBolsa, nil
	}
	return AgencyNone, fmt.Errorf("unknown agency state %q", s)
}

// Advance moves a candidate one stage forward. Entering the agency stage puts
// the candidate in the job pool.
func (c *Candidate) Advance() bool {
	next, ok := c.Stage.Next()
	if !ok {
		return false
	}
	c.Stage = next
	if next == StageAgencia && c.AgencyState == AgencyNone {
		c.AgencyState = AgencyBolsa
	}
	return true
}
