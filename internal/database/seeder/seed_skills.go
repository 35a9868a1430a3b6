package seeder

import (
	"context"
	"fmt"

	"inclusion-engine/internal/database"
	"inclusion-engine/internal/domain/skill"
)

type skillSeed struct {
	Name     string
	Category skill.Category
}

var skillCatalog = []skillSeed{
	{Name: "Empaque y etiquetado", Category: skill.CategoryTechnical},
	{Name: "Control de inventario", Category: skill.CategoryTechnical},
	{Name: "Limpieza industrial", Category: skill.CategoryTechnical},
	{Name: "Atención al cliente", Category: skill.CategorySoft},
	{Name: "Trabajo en equipo", Category: skill.CategorySoft},
	{Name: "Carga de materiales", Category: skill.CategoryPhysical},
	{Name: "Motricidad fina", Category: skill.CategoryPhysical},
	{Name: "Seguimiento de instrucciones", Category: skill.CategoryCognitive},
	{Name: "Manejo de dinero", Category: skill.CategoryCognitive},
	{Name: "Comunicación con compañeros", Category: skill.CategorySocial},
}

type SkillsSeeder struct{}

func (SkillsSeeder) Name() string { return "skills" }

func (SkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "skills", "id", "name", "category", "active"); err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx database.Tx) error {
		for _, it := range skillCatalog {
			if _, err := tx.Exec(ctx,
				`INSERT INTO skills (name, category) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
				it.Name, string(it.Category),
			); err != nil {
				return fmt.Errorf("insert skill %q: %w", it.Name, err)
			}
		}
		return nil
	})
}
