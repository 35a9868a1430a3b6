package usecase

import (
	"context"

	"inclusion-engine/internal/domain/aid"
	"inclusion-engine/internal/domain/response"
	"inclusion-engine/internal/pkg/logger"
	"inclusion-engine/internal/repository"

	"github.com/google/uuid"
)

// Diagnostic-evaluation answers are single-choice or yes/no questions.
var diagnosticTypes = []response.QuestionType{response.TypeED, response.TypeBinary}

type AidRecommendation struct {
	CandidateID uuid.UUID
	Impediments []string
	Groups      []aid.Group
}

type AidUsecase interface {
	RecommendAids(ctx context.Context, candidateID uuid.UUID) (AidRecommendation, error)
}

type Aid struct {
	candidates repository.CandidateRepository
	responses  repository.ResponseRepository
	catalog    repository.AidCatalog
	assigned   repository.CandidateAidRepository
	rules      []aid.Rule
	decoder    *response.Decoder
	log        *logger.Logger
}

func NewAidUsecase(candidates repository.CandidateRepository, responses repository.ResponseRepository, catalog repository.AidCatalog, assigned repository.CandidateAidRepository, log *logger.Logger) *Aid {
	log = logger.OrNop(log)
	return &Aid{
		candidates: candidates,
		responses:  responses,
		catalog:    catalog,
		assigned:   assigned,
		rules:      aid.DefaultRules,
		decoder:    response.NewDecoder(log),
		log:        log,
	}
}

func (u *Aid) RecommendAids(ctx context.Context, candidateID uuid.UUID) (AidRecommendation, error) {
	if candidateID == uuid.Nil {
		return AidRecommendation{}, ErrInvalidInput
	}
	if _, err := u.candidates.GetCandidate(ctx, candidateID); err != nil {
		return AidRecommendation{}, notFound("get candidate", err, ErrCandidateNotFound)
	}
	out := AidRecommendation{CandidateID: candidateID, Impediments: []string{}, Groups: []aid.Group{}}

	recs, err := u.responses.GetResponses(ctx, candidateID, repository.ResponseFilter{Types: diagnosticTypes})
	if err != nil {
		return AidRecommendation{}, storeErr("get diagnostic responses", err)
	}
	if len(recs) == 0 {
		return out, nil
	}

	qids := make([]int64, 0, len(recs))
	for _, rec := range recs {
		qids = append(qids, rec.Question.ID)
	}
	opts, err := u.responses.GetOptions(ctx, qids)
	if err != nil {
		return AidRecommendation{}, storeErr("get options", err)
	}

	answers := make([]aid.Answer, 0, len(recs))
	for _, rec := range recs {
		answers = append(answers, aid.Answer{
			QuestionText: rec.Question.Text,
			Value:        u.decoder.For(rec.Question.ID).DecodeJSON(rec.Question.Type, rec.Payload, opts[rec.Question.ID]),
			Options:      opts[rec.Question.ID],
		})
	}

	names := aid.Detect(answers, u.rules)
	if len(names) == 0 {
		return out, nil
	}
	out.Impediments = names

	catalog, err := u.catalog.GetImpediments(ctx)
	if err != nil {
		return AidRecommendation{}, storeErr("get impediments", err)
	}
	impediments, unknown := aid.ResolveImpediments(names, catalog)
	for _, n := range unknown {
		u.log.Debug("impediment not in catalog", "impediment", n)
	}
	if len(impediments) == 0 {
		return out, nil
	}

	ids := make([]int64, 0, len(impediments))
	for _, imp := range impediments {
		ids = append(ids, imp.ID)
	}
	links, err := u.catalog.GetAidsForImpediments(ctx, ids)
	if err != nil {
		return AidRecommendation{}, storeErr("get aids", err)
	}
	assigned, err := u.assigned.GetAssignedActiveAidIDs(ctx, candidateID)
	if err != nil {
		return AidRecommendation{}, storeErr("get assigned aids", err)
	}

	out.Groups = aid.Recommend(impediments, links, assigned)
	return out, nil
}
