package usecase

import (
	"context"
	"errors"
	"strconv"

	"inclusion-engine/internal/domain/sis"
	"inclusion-engine/internal/pkg/logger"
	"inclusion-engine/internal/repository"
	"inclusion-engine/internal/worker"

	"github.com/google/uuid"
)

type EvaluationUsecase interface {
	Evaluate(ctx context.Context, candidateID uuid.UUID) (sis.Report, error)
	EvaluateBatch(ctx context.Context, candidateIDs []uuid.UUID, opts BatchOptions) []BatchResult
}

type Evaluation struct {
	sis         *SIS
	catalog     repository.SISCatalog
	defaultBase int64
	log         *logger.Logger
}

func NewEvaluationUsecase(s *SIS, catalog repository.SISCatalog, log *logger.Logger) *Evaluation {
	return &Evaluation{sis: s, catalog: catalog, log: logger.OrNop(log)}
}

// WithDefaultBase sets the base questionnaire reported for candidates
// without SIS responses.
func (u *Evaluation) WithDefaultBase(id int64) *Evaluation {
	u.defaultBase = id
	return u
}

// Evaluate scores the candidate against the calibration tables of the base
// questionnaire most of their SIS responses belong to.
func (u *Evaluation) Evaluate(ctx context.Context, candidateID uuid.UUID) (sis.Report, error) {
	items, err := u.sis.collect(ctx, candidateID, "")
	if err != nil {
		return sis.Report{}, err
	}

	base := sis.DominantBase(items)
	if base == 0 {
		base = u.defaultBase
	}
	scoped := make([]sis.ItemResponse, 0, len(items))
	for _, it := range items {
		if it.BaseQuestionnaireID == base {
			scoped = append(scoped, it)
		}
	}
	if dropped := len(items) - len(scoped); dropped > 0 {
		u.log.Debug("sis responses outside the evaluated base questionnaire ignored",
			"candidate_id", candidateID, "base_questionnaire_id", base, "ignored", dropped)
	}

	sections, err := u.sis.summarize(ctx, scoped)
	if err != nil {
		return sis.Report{}, err
	}
	if len(sections) == 0 {
		return sis.Evaluate(base, sections, nil, nil), nil
	}

	rows, err := u.catalog.GetPercentileTable(ctx, base)
	if err != nil {
		return sis.Report{}, storeErr("get percentile table", err)
	}
	bySection := map[string][]sis.PercentileRow{}
	for _, r := range rows {
		bySection[r.SectionName] = append(bySection[r.SectionName], r)
	}
	tables := make(map[string]*sis.Table, len(bySection))
	for name, rs := range bySection {
		tables[name] = sis.NewTable(rs)
	}

	indexRows, err := u.catalog.GetSupportIndexRows(ctx, base)
	if err != nil {
		return sis.Report{}, storeErr("get support index", err)
	}

	rep := sis.Evaluate(base, sections, tables, sis.NewIndexTable(indexRows))
	for _, d := range rep.PerSectionDetails {
		if !d.HasScore {
			u.log.Debug("no percentile row for direct score",
				"candidate_id", candidateID, "section", d.SectionName, "direct", d.DirectScore)
		}
	}
	return rep, nil
}

type BatchOptions struct {
	Workers   int
	RateLimit int
}

type BatchResult struct {
	CandidateID uuid.UUID
	Report      sis.Report
	Err         error
}

// EvaluateBatch evaluates candidates concurrently. Failures are reported per
// candidate; results keep the order of candidateIDs.
func (u *Evaluation) EvaluateBatch(ctx context.Context, candidateIDs []uuid.UUID, opts BatchOptions) []BatchResult {
	out := make([]BatchResult, len(candidateIDs))
	for i, id := range candidateIDs {
		out[i] = BatchResult{CandidateID: id}
	}
	if len(candidateIDs) == 0 {
		return out
	}

	pool := worker.NewPool(opts.Workers, len(candidateIDs))
	pool.SetRateLimit(opts.RateLimit)
	results := pool.Run(ctx)

	for i, id := range candidateIDs {
		err := pool.Submit(ctx, strconv.Itoa(i), func(ctx context.Context) error {
			rep, err := u.Evaluate(ctx, id)
			out[i].Report = rep
			return err
		})
		if err != nil {
			break
		}
	}
	pool.Close()

	done := make(map[int]bool, len(candidateIDs))
	for r := range results {
		i, err := strconv.Atoi(r.Key)
		if err != nil {
			continue
		}
		out[i].Err = r.Err
		done[i] = true
	}
	for i := range out {
		if !done[i] {
			err := ctx.Err()
			if err == nil {
				err = errors.New("not evaluated")
			}
			out[i].Err = err
		}
	}
	return out
}
