package app

import (
	"context"
	"errors"
	"time"

	"inclusion-engine/internal/config"
	"inclusion-engine/internal/database"
	dbpostgres "inclusion-engine/internal/database/postgres"
	"inclusion-engine/internal/infrastructure/cache"
	"inclusion-engine/internal/pkg/logger"
	"inclusion-engine/internal/repository"
	"inclusion-engine/internal/usecase"
)

// Container owns the process-wide dependencies. Usecases share one DB pool
// and one cache client.
type Container struct {
	Config config.Config
	Log    *logger.Logger
	DB     database.DB
	Cache  *cache.Redis

	Candidates repository.CandidateRepository
	Jobs       repository.JobRepository
	Responses  repository.ResponseRepository
	SISCatalog *repository.CachedSISCatalog
	AidCatalog *repository.CachedAidCatalog

	SIS        *usecase.SIS
	Evaluation *usecase.Evaluation
	Matching   *usecase.Matching
	Aids       *usecase.Aid
	Proximity  *usecase.Proximity
	Writes     *usecase.Response
	Skills     *usecase.Skill
}

func NewContainer(cfg config.Config, log *logger.Logger) (*Container, error) {
	log = logger.OrNop(log)
	if !cfg.Database.Configured() {
		return nil, errors.New("database is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return newContainer(cfg, log, db, cache.NewRedis(cfg.Redis, log)), nil
}

func newContainer(cfg config.Config, log *logger.Logger, db database.DB, c *cache.Redis) *Container {
	ttl := cfg.Engine.CatalogTTL

	candidates := repository.NewPostgresCandidateRepository(db)
	jobs := repository.NewPostgresJobRepository(db)
	responses := repository.NewPostgresResponseRepository(db)
	aidRepo := repository.NewPostgresAidRepository(db)
	sisCatalog := repository.NewCachedSISCatalog(repository.NewPostgresSISCatalog(db), c, ttl, log)
	aidCatalog := repository.NewCachedAidCatalog(aidRepo, c, ttl, log)

	sisUC := usecase.NewSISUsecase(candidates, responses, sisCatalog, log)

	return &Container{
		Config:     cfg,
		Log:        log,
		DB:         db,
		Cache:      c,
		Candidates: candidates,
		Jobs:       jobs,
		Responses:  responses,
		SISCatalog: sisCatalog,
		AidCatalog: aidCatalog,

		SIS:        sisUC,
		Evaluation: usecase.NewEvaluationUsecase(sisUC, sisCatalog, log).WithDefaultBase(cfg.Engine.BaseQuestionnaireID),
		Matching:   usecase.NewMatchingUsecase(jobs, candidates, cfg.Engine.MatchConcurrency, log),
		Aids:       usecase.NewAidUsecase(candidates, responses, aidCatalog, aidRepo, log),
		Proximity:  usecase.NewProximityUsecase(jobs, candidates),
		Writes:     usecase.NewResponseUsecase(candidates, responses, log),
		Skills:     usecase.NewSkillUsecase(repository.NewPostgresSkillRepository(db)),
	}
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
