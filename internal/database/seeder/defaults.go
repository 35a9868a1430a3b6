package seeder

func Defaults() []Seeder {
	return []Seeder{
		SkillsSeeder{},
		ImpedimentsSeeder{},
		TechnicalAidsSeeder{},
	}
}
