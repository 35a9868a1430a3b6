package seeder

import (
	"context"
	"fmt"

	"inclusion-engine/internal/database"
	"inclusion-engine/internal/domain/aid"
)

var impedimentCatalog = []aid.Impediment{
	{Name: aid.ImpedimentReadingWriting, Description: "Difficulty reading or writing work documents."},
	{Name: aid.ImpedimentMoneyHandling, Description: "Difficulty counting, adding or handling money."},
	{Name: aid.ImpedimentCommunication, Description: "Needs support to communicate at work."},
	{Name: aid.ImpedimentBehavioral, Description: "Observed behaviour that needs workplace support."},
}

type aidSeed struct {
	Name  string
	Links map[string]string
}

var aidCatalog = []aidSeed{
	{Name: "Pictogramas de tareas", Links: map[string]string{
		aid.ImpedimentReadingWriting: "Replaces written instructions with pictures.",
		aid.ImpedimentCommunication:  "Lets the candidate point to what they need.",
	}},
	{Name: "Lector de pantalla", Links: map[string]string{
		aid.ImpedimentReadingWriting: "Reads documents aloud.",
	}},
	{Name: "Calculadora parlante", Links: map[string]string{
		aid.ImpedimentMoneyHandling: "Speaks totals and change out loud.",
	}},
	{Name: "Plantilla de billetes", Links: map[string]string{
		aid.ImpedimentMoneyHandling: "Matches notes and coins against printed sizes.",
	}},
	{Name: "Tablero de comunicación", Links: map[string]string{
		aid.ImpedimentCommunication: "Board with common workplace phrases.",
	}},
	{Name: "Agenda visual de rutina", Links: map[string]string{
		aid.ImpedimentBehavioral: "Shows the day's routine to reduce anxiety.",
	}},
}

type ImpedimentsSeeder struct{}

func (ImpedimentsSeeder) Name() string { return "impediments" }

func (ImpedimentsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "impediments", "id", "name", "description"); err != nil {
		return err
	}
	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, imp := range impedimentCatalog {
			if _, err := tx.Exec(ctx,
				`INSERT INTO impediments (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				imp.Name, imp.Description,
			); err != nil {
				return fmt.Errorf("insert impediment %q: %w", imp.Name, err)
			}
		}
		return nil
	})
}

// TechnicalAidsSeeder needs the impediments seeded first.
type TechnicalAidsSeeder struct{}

func (TechnicalAidsSeeder) Name() string { return "technical_aids" }

func (TechnicalAidsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "impediment_aids", "impediment_id", "aid_id", "description"); err != nil {
		return err
	}
	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, a := range aidCatalog {
			if _, err := tx.Exec(ctx,
				`INSERT INTO technical_aids (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
				a.Name,
			); err != nil {
				return fmt.Errorf("insert aid %q: %w", a.Name, err)
			}
			for imp, desc := range a.Links {
				if _, err := tx.Exec(ctx,
					`INSERT INTO impediment_aids (impediment_id, aid_id, description)
					 SELECT i.id, t.id, $3
					 FROM impediments i, technical_aids t
					 WHERE i.name = $1 AND t.name = $2
					 ON CONFLICT (impediment_id, aid_id) DO NOTHING`,
					imp, a.Name, desc,
				); err != nil {
					return fmt.Errorf("link aid %q to %q: %w", a.Name, imp, err)
				}
			}
		}
		return nil
	})
}
