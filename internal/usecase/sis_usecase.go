package usecase

import (
	"context"

	"inclusion-engine/internal/domain/response"
	"inclusion-engine/internal/domain/sis"
	"inclusion-engine/internal/pkg/logger"
	"inclusion-engine/internal/repository"

	"github.com/google/uuid"
)

var sisTypes = []response.QuestionType{response.TypeSIS, response.TypeSIS2}

type SISUsecase interface {
	SummarizeSIS(ctx context.Context, candidateID uuid.UUID, sectionName string) ([]sis.SectionSummary, error)
}

type SIS struct {
	candidates repository.CandidateRepository
	responses  repository.ResponseRepository
	catalog    repository.SISCatalog
	decoder    *response.Decoder
	log        *logger.Logger
}

func NewSISUsecase(candidates repository.CandidateRepository, responses repository.ResponseRepository, catalog repository.SISCatalog, log *logger.Logger) *SIS {
	log = logger.OrNop(log)
	return &SIS{
		candidates: candidates,
		responses:  responses,
		catalog:    catalog,
		decoder:    response.NewDecoder(log),
		log:        log,
	}
}

func (u *SIS) SummarizeSIS(ctx context.Context, candidateID uuid.UUID, sectionName string) ([]sis.SectionSummary, error) {
	items, err := u.collect(ctx, candidateID, sectionName)
	if err != nil {
		return nil, err
	}
	return u.summarize(ctx, items)
}

// collect loads and decodes the candidate's SIS responses. Payloads that do
// not decode to a SIS triple are dropped.
func (u *SIS) collect(ctx context.Context, candidateID uuid.UUID, sectionName string) ([]sis.ItemResponse, error) {
	if candidateID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	if _, err := u.candidates.GetCandidate(ctx, candidateID); err != nil {
		return nil, notFound("get candidate", err, ErrCandidateNotFound)
	}

	recs, err := u.responses.GetResponses(ctx, candidateID, repository.ResponseFilter{
		Types:       sisTypes,
		SectionName: sectionName,
	})
	if err != nil {
		return nil, storeErr("get sis responses", err)
	}

	out := make([]sis.ItemResponse, 0, len(recs))
	for _, rec := range recs {
		v := u.decoder.For(rec.Question.ID).DecodeJSON(rec.Question.Type, rec.Payload, nil)
		if v.Kind != response.KindSIS {
			continue
		}
		out = append(out, sis.ItemResponse{
			CandidateID:         rec.CandidateID,
			QuestionnaireID:     rec.QuestionnaireID,
			BaseQuestionnaireID: rec.BaseQuestionnaireID,
			QuestionID:          rec.Question.ID,
			ItemName:            rec.Question.Text,
			SectionName:         rec.Question.SectionName,
			SectionIndex:        rec.Question.SectionIndex,
			Answer:              v.SIS,
		})
	}
	return out, nil
}

func (u *SIS) summarize(ctx context.Context, items []sis.ItemResponse) ([]sis.SectionSummary, error) {
	ids := make([]int64, 0)
	seen := map[int64]struct{}{}
	for _, it := range items {
		for _, id := range it.Answer.SubitemIDs {
			if _, ok := seen[int64(id)]; ok {
				continue
			}
			seen[int64(id)] = struct{}{}
			ids = append(ids, int64(id))
		}
	}

	catalog, err := u.catalog.GetSubitems(ctx, ids)
	if err != nil {
		return nil, storeErr("get subitems", err)
	}
	for _, id := range ids {
		if _, ok := catalog[id]; !ok {
			u.log.Debug("subitem not in catalog", "subitem_id", id)
		}
	}

	return sis.Summarize(items, catalog), nil
}
