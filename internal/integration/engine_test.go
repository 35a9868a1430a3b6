package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
	"time"

	"inclusion-engine/internal/config"
	"inclusion-engine/internal/database"
	"inclusion-engine/internal/database/migration"
	dbpostgres "inclusion-engine/internal/database/postgres"
	"inclusion-engine/internal/database/seeder"
	"inclusion-engine/internal/pkg/logger"
	"inclusion-engine/internal/repository"
	"inclusion-engine/internal/usecase"

	"github.com/google/uuid"
)

type fixture struct {
	jobID           int64
	questionnaireID int64
	sourceQuestion  int64
	gatedQuestion   int64
	candidates      []uuid.UUID
}

func TestIntegration_MatchingAndCascade(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := connectTestDB(t, ctx)
	defer func() { _ = db.Close() }()

	runMigrations(t, ctx, db)
	if err := (seeder.Runner{Seeders: seeder.Defaults()}).Run(ctx, db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	fx := seedFixture(t, ctx, db)
	defer cleanupFixture(t, ctx, db, fx)

	jobs := repository.NewPostgresJobRepository(db)
	candidates := repository.NewPostgresCandidateRepository(db)
	responses := repository.NewPostgresResponseRepository(db)

	matching := usecase.NewMatchingUsecase(jobs, candidates, 4, logger.Nop())
	rep, err := matching.MatchJobToCandidates(ctx, fx.jobID)
	if err != nil {
		t.Fatalf("match job: %v", err)
	}
	if len(rep.Candidates) != len(fx.candidates) {
		t.Fatalf("expected %d ranked candidates, got %d", len(fx.candidates), len(rep.Candidates))
	}
	for i := 1; i < len(rep.Candidates); i++ {
		if rep.Candidates[i-1].Result.MatchingScore < rep.Candidates[i].Result.MatchingScore {
			t.Fatalf("candidates not sorted by score: %+v", rep.Candidates)
		}
	}
	top := rep.Candidates[0].Result.MatchingPercentage
	if rep.MatchingPercentage != top || top < 0 || top > 100 {
		t.Fatalf("matching percentage = %v, top = %v", rep.MatchingPercentage, top)
	}

	writes := usecase.NewResponseUsecase(candidates, responses, logger.Nop())
	cand := fx.candidates[0]
	if _, err := writes.WriteResponse(ctx, cand, fx.sourceQuestion, json.RawMessage(`1`)); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if _, err := writes.WriteResponse(ctx, cand, fx.gatedQuestion, json.RawMessage(`"con apoyo"`)); err != nil {
		t.Fatalf("write gated: %v", err)
	}
	out, err := writes.WriteResponse(ctx, cand, fx.sourceQuestion, json.RawMessage(`2`))
	if err != nil {
		t.Fatalf("rewrite source: %v", err)
	}
	if !slices.Contains(out.Removed, fx.gatedQuestion) {
		t.Fatalf("expected gated question removed, got %v", out.Removed)
	}

	var left int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM responses WHERE candidate_id = $1 AND question_id = $2`,
		cand, fx.gatedQuestion,
	).Scan(&left); err != nil {
		t.Fatalf("count responses: %v", err)
	}
	if left != 0 {
		t.Fatalf("gated response still stored")
	}

	stamps := func() (time.Time, time.Time) {
		t.Helper()
		var resp, status time.Time
		if err := db.QueryRow(ctx,
			`SELECT r.updated_at, s.updated_at
			 FROM responses r
			 JOIN questionnaire_status s ON s.candidate_id = r.candidate_id AND s.questionnaire_id = r.questionnaire_id
			 WHERE r.candidate_id = $1 AND r.question_id = $2`,
			cand, fx.sourceQuestion,
		).Scan(&resp, &status); err != nil {
			t.Fatalf("read timestamps: %v", err)
		}
		return resp, status
	}
	respBefore, statusBefore := stamps()
	again, err := writes.WriteResponse(ctx, cand, fx.sourceQuestion, json.RawMessage(`2`))
	if err != nil {
		t.Fatalf("repeat write: %v", err)
	}
	if again.Status != out.Status || len(again.Removed) != 0 {
		t.Fatalf("repeat write changed state: %+v", again)
	}
	respAfter, statusAfter := stamps()
	if !respAfter.Equal(respBefore) || !statusAfter.Equal(statusBefore) {
		t.Fatalf("repeat write touched updated_at: response %v -> %v, status %v -> %v",
			respBefore, respAfter, statusBefore, statusAfter)
	}
}

func seedFixture(t *testing.T, ctx context.Context, db database.DB) fixture {
	t.Helper()

	skillID := func(name string) int64 {
		var id int64
		if err := db.QueryRow(ctx, `SELECT id FROM skills WHERE name = $1`, name).Scan(&id); err != nil {
			t.Fatalf("lookup skill %q: %v", name, err)
		}
		return id
	}
	packing := skillID("Empaque y etiquetado")
	teamwork := skillID("Trabajo en equipo")

	var fx fixture
	if err := db.QueryRow(ctx,
		`INSERT INTO jobs (title, company) VALUES ('Auxiliar de almacén', 'Integration Co') RETURNING id`,
	).Scan(&fx.jobID); err != nil {
		t.Fatalf("insert job: %v", err)
	}
	mustExec(t, ctx, db,
		`INSERT INTO job_skill_requirements (job_id, skill_id, importance) VALUES ($1, $2, 'essential'), ($1, $3, 'desirable')`,
		fx.jobID, packing, teamwork)

	evals := []map[int64]string{
		{packing: "advanced", teamwork: "basic"},
		{teamwork: "expert"},
	}
	for _, ev := range evals {
		id := uuid.New()
		fx.candidates = append(fx.candidates, id)
		mustExec(t, ctx, db, `INSERT INTO candidates (id, stage, agency_state) VALUES ($1, 'Agencia', 'Bol')`, id)
		for skill, level := range ev {
			mustExec(t, ctx, db,
				`INSERT INTO candidate_skill_evaluations (candidate_id, skill_id, competency) VALUES ($1, $2, $3)`,
				id, skill, level)
		}
	}

	if err := db.QueryRow(ctx,
		`INSERT INTO questionnaires (name) VALUES ('Integration entrevista') RETURNING id`,
	).Scan(&fx.questionnaireID); err != nil {
		t.Fatalf("insert questionnaire: %v", err)
	}
	insertQuestion := func(text, typ string) int64 {
		var id int64
		if err := db.QueryRow(ctx,
			`INSERT INTO questions (questionnaire_id, text, type) VALUES ($1, $2, $3) RETURNING id`,
			fx.questionnaireID, text, typ,
		).Scan(&id); err != nil {
			t.Fatalf("insert question: %v", err)
		}
		return id
	}
	fx.sourceQuestion = insertQuestion("¿Requiere apoyo para trasladarse?", "multiple")
	fx.gatedQuestion = insertQuestion("Describa el apoyo", "open")

	var yes int64
	if err := db.QueryRow(ctx,
		`INSERT INTO question_options (question_id, text, valor) VALUES ($1, 'Sí', 1) RETURNING id`,
		fx.sourceQuestion,
	).Scan(&yes); err != nil {
		t.Fatalf("insert option: %v", err)
	}
	mustExec(t, ctx, db, `INSERT INTO question_options (question_id, text, valor) VALUES ($1, 'No', 2)`, fx.sourceQuestion)
	mustExec(t, ctx, db,
		`INSERT INTO unlock_rules (source_question_id, option_id, unlocked_question_id) VALUES ($1, $2, $3)`,
		fx.sourceQuestion, yes, fx.gatedQuestion)

	return fx
}

func cleanupFixture(t *testing.T, ctx context.Context, db database.DB, fx fixture) {
	t.Helper()

	mustExec(t, ctx, db, `DELETE FROM candidates WHERE id = ANY($1)`, fx.candidates)
	mustExec(t, ctx, db, `DELETE FROM jobs WHERE id = $1`, fx.jobID)
	mustExec(t, ctx, db, `DELETE FROM questionnaires WHERE id = $1`, fx.questionnaireID)
}

func mustExec(t *testing.T, ctx context.Context, db database.Querier, q string, args ...any) {
	t.Helper()
	if _, err := db.Exec(ctx, q, args...); err != nil {
		t.Fatalf("exec %q: %v", q, err)
	}
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	host := os.Getenv("INCLUSION_TEST_DB_HOST")
	port := os.Getenv("INCLUSION_TEST_DB_PORT")
	name := os.Getenv("INCLUSION_TEST_DB_NAME")
	user := os.Getenv("INCLUSION_TEST_DB_USER")
	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set INCLUSION_TEST_DB_HOST/PORT/NAME/USER/PASSWORD")
	}
	ssl := os.Getenv("INCLUSION_TEST_DB_SSL_MODE")
	if ssl == "" {
		ssl = "disable"
	}

	db, err := dbpostgres.Connect(ctx, config.DatabaseConfig{
		DBHost:     host,
		DBPort:     port,
		DBName:     name,
		DBUser:     user,
		DBPassword: os.Getenv("INCLUSION_TEST_DB_PASSWORD"),
		DBSSLMode:  ssl,
	})
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return db
}

func runMigrations(t *testing.T, ctx context.Context, db database.DB) {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("resolve migrations dir: runtime.Caller failed")
	}
	// this file: internal/integration/engine_test.go
	dir := filepath.Join(filepath.Dir(file), "..", "..", "migrations")
	if err := (migration.Runner{Dir: dir}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
}
