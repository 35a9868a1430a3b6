package usecase

import (
	"context"

	"inclusion-engine/internal/domain/skill"
	"inclusion-engine/internal/repository"
)

type SkillUsecase interface {
	ListSkills(ctx context.Context, activeOnly bool) ([]skill.Skill, error)
}

type Skill struct {
	repo repository.SkillRepository
}

func NewSkillUsecase(repo repository.SkillRepository) *Skill {
	return &Skill{repo: repo}
}

func (u *Skill) ListSkills(ctx context.Context, activeOnly bool) ([]skill.Skill, error) {
	items, err := u.repo.ListSkills(ctx, activeOnly)
	if err != nil {
		return nil, storeErr("list skills", err)
	}
	if items == nil {
		items = []skill.Skill{}
	}
	return items, nil
}
