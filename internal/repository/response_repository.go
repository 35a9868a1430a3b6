package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inclusion-engine/internal/database"
	"inclusion-engine/internal/domain/assessment"
	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/response"

	"github.com/google/uuid"
)

// ResponseRecord is a stored response joined with its question.
type ResponseRecord struct {
	CandidateID         uuid.UUID
	QuestionnaireID     int64
	BaseQuestionnaireID int64
	Question            assessment.Question
	Payload             json.RawMessage
	UpdatedAt           time.Time
}

type ResponseFilter struct {
	QuestionnaireID int64
	Types           []response.QuestionType
	SectionName     string
}

type WriteRequest struct {
	CandidateID     uuid.UUID
	QuestionnaireID int64
	QuestionID      int64
	// Payload nil removes the response.
	Payload  json.RawMessage
	Selected assessment.OptionSet
	// Empty marks a stored payload that carries no answer; it does not start
	// the questionnaire.
	Empty bool
}

type WriteResult struct {
	Status  assessment.Status
	Removed []int64
}

type FinalizeResult struct {
	Status      assessment.Status
	FinalizedAt time.Time
	Stage       candidate.Stage
	AgencyState candidate.AgencyState
	Advanced    bool
}

type ResponseRepository interface {
	GetResponses(ctx context.Context, candidateID uuid.UUID, f ResponseFilter) ([]ResponseRecord, error)
	GetOptions(ctx context.Context, questionIDs []int64) (map[int64][]response.Option, error)
	GetQuestion(ctx context.Context, questionID int64) (assessment.Question, error)
	GetQuestionnaire(ctx context.Context, questionnaireID int64) (assessment.Questionnaire, error)
	GetStatus(ctx context.Context, candidateID uuid.UUID, questionnaireID int64) (assessment.TrackedStatus, error)
	WriteResponse(ctx context.Context, req WriteRequest) (WriteResult, error)
	Finalize(ctx context.Context, candidateID uuid.UUID, questionnaireID int64, at time.Time) (FinalizeResult, error)
}

type PostgresResponseRepository struct {
	db database.DB
}

func NewPostgresResponseRepository(db database.DB) *PostgresResponseRepository {
	return &PostgresResponseRepository{db: db}
}

func (r *PostgresResponseRepository) GetResponses(ctx context.Context, candidateID uuid.UUID, f ResponseFilter) ([]ResponseRecord, error) {
	types := make([]string, 0, len(f.Types))
	for _, t := range f.Types {
		types = append(types, string(t))
	}

	rows, err := r.db.Query(ctx,
		`SELECT r.candidate_id,
		        r.questionnaire_id,
		        COALESCE(qn.base_questionnaire_id, qn.id),
		        q.id,
		        q.questionnaire_id,
		        q.text,
		        q.type,
		        COALESCE(q.section_name, ''),
		        q.section_index,
		        r.payload,
		        r.updated_at
		 FROM responses r
		 JOIN questions q ON q.id = r.question_id
		 JOIN questionnaires qn ON qn.id = r.questionnaire_id
		 WHERE r.candidate_id = $1
		   AND ($2::bigint = 0 OR r.questionnaire_id = $2)
		   AND (COALESCE(cardinality($3::text[]), 0) = 0 OR q.type = ANY($3::text[]))
		   AND ($4::text = '' OR q.section_name = $4)
		 ORDER BY q.section_index ASC, q.position ASC, q.id ASC`,
		candidateID, f.QuestionnaireID, types, f.SectionName,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ResponseRecord, 0)
	questionIDs := make([]int64, 0)
	for rows.Next() {
		var rec ResponseRecord
		var qt string
		var payload []byte
		if err := rows.Scan(
			&rec.CandidateID,
			&rec.QuestionnaireID,
			&rec.BaseQuestionnaireID,
			&rec.Question.ID,
			&rec.Question.QuestionnaireID,
			&rec.Question.Text,
			&qt,
			&rec.Question.SectionName,
			&rec.Question.SectionIndex,
			&payload,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		rec.Question.Type = response.QuestionType(qt)
		rec.Payload = payload
		out = append(out, rec)
		questionIDs = append(questionIDs, rec.Question.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	rules, err := unlockRulesFrom(ctx, r.db, questionIDs)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Question.UnlockRules = rules[out[i].Question.ID]
	}
	return out, nil
}

func (r *PostgresResponseRepository) GetOptions(ctx context.Context, questionIDs []int64) (map[int64][]response.Option, error) {
	out := make(map[int64][]response.Option, len(questionIDs))
	if len(questionIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT question_id, id, text, valor
		 FROM question_options
		 WHERE question_id = ANY($1)
		 ORDER BY question_id ASC, position ASC, id ASC`,
		questionIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var qid, id int64
		var o response.Option
		if err := rows.Scan(&qid, &id, &o.Text, &o.Valor); err != nil {
			return nil, err
		}
		o.ID = int(id)
		out[qid] = append(out[qid], o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresResponseRepository) GetQuestion(ctx context.Context, questionID int64) (assessment.Question, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, questionnaire_id, text, type, COALESCE(section_name, ''), section_index
		 FROM questions
		 WHERE id = $1`,
		questionID,
	)
	var q assessment.Question
	var qt string
	if err := row.Scan(&q.ID, &q.QuestionnaireID, &q.Text, &qt, &q.SectionName, &q.SectionIndex); err != nil {
		if isNoRows(err) {
			return assessment.Question{}, ErrNotFound
		}
		return assessment.Question{}, err
	}
	q.Type = response.QuestionType(qt)

	rules, err := unlockRulesFrom(ctx, r.db, []int64{q.ID})
	if err != nil {
		return assessment.Question{}, err
	}
	q.UnlockRules = rules[q.ID]
	return q, nil
}

func (r *PostgresResponseRepository) GetQuestionnaire(ctx context.Context, questionnaireID int64) (assessment.Questionnaire, error) {
	return questionnaireFrom(ctx, r.db, questionnaireID)
}

func (r *PostgresResponseRepository) GetStatus(ctx context.Context, candidateID uuid.UUID, questionnaireID int64) (assessment.TrackedStatus, error) {
	row := r.db.QueryRow(ctx,
		`SELECT status, finalized_at, updated_at
		 FROM questionnaire_status
		 WHERE candidate_id = $1 AND questionnaire_id = $2`,
		candidateID, questionnaireID,
	)
	st := assessment.TrackedStatus{CandidateID: candidateID, QuestionnaireID: questionnaireID}
	var status string
	if err := row.Scan(&status, &st.FinalizedAt, &st.UpdatedAt); err != nil {
		if isNoRows(err) {
			st.Status = assessment.StatusInactive
			return st, nil
		}
		return assessment.TrackedStatus{}, err
	}
	st.Status = assessment.Status(status)
	return st, nil
}

// WriteResponse stores or removes one response and, in the same transaction,
// removes every response the change locks out and advances the status of
// each questionnaire it touched.
func (r *PostgresResponseRepository) WriteResponse(ctx context.Context, req WriteRequest) (WriteResult, error) {
	var res WriteResult
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		status, err := lockStatus(ctx, tx, req.CandidateID, req.QuestionnaireID)
		if err != nil {
			return err
		}

		current, err := selectionsFrom(ctx, tx, req.CandidateID)
		if err != nil {
			return err
		}

		next := req.Selected
		if next == nil || req.Payload == nil {
			next = assessment.OptionSet{}
		}

		if req.Payload == nil {
			if _, err := tx.Exec(ctx,
				`DELETE FROM responses WHERE candidate_id = $1 AND questionnaire_id = $2 AND question_id = $3`,
				req.CandidateID, req.QuestionnaireID, req.QuestionID,
			); err != nil {
				return fmt.Errorf("delete response: %w", err)
			}
		} else {
			if _, err := tx.Exec(ctx,
				`INSERT INTO responses (candidate_id, questionnaire_id, question_id, payload, selected_option_ids)
				 VALUES ($1, $2, $3, $4, $5)
				 ON CONFLICT (candidate_id, questionnaire_id, question_id)
				 DO UPDATE SET payload = EXCLUDED.payload,
				               selected_option_ids = EXCLUDED.selected_option_ids,
				               updated_at = now()
				 WHERE responses.payload IS DISTINCT FROM EXCLUDED.payload
				    OR responses.selected_option_ids IS DISTINCT FROM EXCLUDED.selected_option_ids`,
				req.CandidateID, req.QuestionnaireID, req.QuestionID, []byte(req.Payload), next.IDs(),
			); err != nil {
				return fmt.Errorf("upsert response: %w", err)
			}
		}
		prev := status
		if req.Payload != nil && !req.Empty {
			status = assessment.Transition(status, assessment.EventAnswered)
		}

		allRules, err := unlockRulesFrom(ctx, tx, nil)
		if err != nil {
			return err
		}
		flat := make([]assessment.UnlockRule, 0)
		for _, rs := range allRules {
			flat = append(flat, rs...)
		}
		removed := assessment.NewGraph(flat).Cascade(req.QuestionID, next, current)

		touched := map[int64]struct{}{req.QuestionnaireID: {}}
		if len(removed) > 0 {
			rows, err := tx.Query(ctx,
				`DELETE FROM responses
				 WHERE candidate_id = $1 AND question_id = ANY($2)
				 RETURNING questionnaire_id`,
				req.CandidateID, removed,
			)
			if err != nil {
				return fmt.Errorf("cascade delete: %w", err)
			}
			for rows.Next() {
				var qn int64
				if err := rows.Scan(&qn); err != nil {
					rows.Close()
					return err
				}
				touched[qn] = struct{}{}
			}
			rows.Close()
			if err := rows.Err(); err != nil {
				return err
			}
		}

		for qn := range touched {
			st, was := status, prev
			if qn != req.QuestionnaireID {
				if st, err = lockStatus(ctx, tx, req.CandidateID, qn); err != nil {
					return err
				}
				was = st
			}
			var remaining int
			if err := tx.QueryRow(ctx,
				`SELECT count(*) FROM responses WHERE candidate_id = $1 AND questionnaire_id = $2`,
				req.CandidateID, qn,
			).Scan(&remaining); err != nil {
				return err
			}
			if remaining == 0 {
				st = assessment.Transition(st, assessment.EventCleared)
			}
			if st != was {
				if err := saveStatus(ctx, tx, req.CandidateID, qn, st, nil); err != nil {
					return err
				}
			}
			if qn == req.QuestionnaireID {
				res.Status = st
			}
		}

		res.Removed = removed
		return nil
	})
	if err != nil {
		return WriteResult{}, err
	}
	return res, nil
}

// Finalize marks the questionnaire finalized and, when it gates the
// candidate's current stage, moves the candidate to the next one.
func (r *PostgresResponseRepository) Finalize(ctx context.Context, candidateID uuid.UUID, questionnaireID int64, at time.Time) (FinalizeResult, error) {
	var res FinalizeResult
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		q, err := questionnaireFrom(ctx, tx, questionnaireID)
		if err != nil {
			return err
		}

		c, err := candidateForUpdate(ctx, tx, candidateID)
		if err != nil {
			return err
		}

		status, err := lockStatus(ctx, tx, candidateID, questionnaireID)
		if err != nil {
			return err
		}
		status = assessment.Transition(status, assessment.EventFinalized)
		if err := saveStatus(ctx, tx, candidateID, questionnaireID, status, &at); err != nil {
			return err
		}

		if assessment.UnlocksNextStage(q, c.Stage) && c.Advance() {
			if _, err := tx.Exec(ctx,
				`UPDATE candidates SET stage = $2, agency_state = NULLIF($3, ''), updated_at = now() WHERE id = $1`,
				c.ID, string(c.Stage), c.AgencyState.Code(),
			); err != nil {
				return fmt.Errorf("advance candidate: %w", err)
			}
			res.Advanced = true
		}

		res.Status = status
		res.FinalizedAt = at
		res.Stage = c.Stage
		res.AgencyState = c.AgencyState
		return nil
	})
	if err != nil {
		return FinalizeResult{}, err
	}
	return res, nil
}

func questionnaireFrom(ctx context.Context, q database.Querier, id int64) (assessment.Questionnaire, error) {
	row := q.QueryRow(ctx,
		`SELECT id, COALESCE(base_questionnaire_id, id), name, COALESCE(unlock_stage, '')
		 FROM questionnaires
		 WHERE id = $1`,
		id,
	)
	var qn assessment.Questionnaire
	if err := row.Scan(&qn.ID, &qn.BaseQuestionnaireID, &qn.Name, &qn.UnlockStage); err != nil {
		if isNoRows(err) {
			return assessment.Questionnaire{}, ErrNotFound
		}
		return assessment.Questionnaire{}, err
	}
	return qn, nil
}

// unlockRulesFrom loads unlock rules keyed by source question. An empty
// sources slice loads every rule.
func unlockRulesFrom(ctx context.Context, q database.Querier, sources []int64) (map[int64][]assessment.UnlockRule, error) {
	rows, err := q.Query(ctx,
		`SELECT source_question_id, option_id, unlocked_question_id
		 FROM unlock_rules
		 WHERE COALESCE(cardinality($1::bigint[]), 0) = 0 OR source_question_id = ANY($1::bigint[])
		 ORDER BY id ASC`,
		sources,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64][]assessment.UnlockRule{}
	for rows.Next() {
		var ur assessment.UnlockRule
		if err := rows.Scan(&ur.SourceQuestionID, &ur.OptionID, &ur.UnlockedQuestionID); err != nil {
			return nil, err
		}
		out[ur.SourceQuestionID] = append(out[ur.SourceQuestionID], ur)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// selectionsFrom locks and reads the candidate's stored option selections.
func selectionsFrom(ctx context.Context, q database.Querier, candidateID uuid.UUID) (map[int64]assessment.OptionSet, error) {
	rows, err := q.Query(ctx,
		`SELECT question_id, selected_option_ids
		 FROM responses
		 WHERE candidate_id = $1
		 FOR UPDATE`,
		candidateID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[int64]assessment.OptionSet{}
	for rows.Next() {
		var qid int64
		var ids []int64
		if err := rows.Scan(&qid, &ids); err != nil {
			return nil, err
		}
		set := out[qid]
		if set == nil {
			set = assessment.OptionSet{}
			out[qid] = set
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func lockStatus(ctx context.Context, tx database.Tx, candidateID uuid.UUID, questionnaireID int64) (assessment.Status, error) {
	if _, err := tx.Exec(ctx,
		`INSERT INTO questionnaire_status (candidate_id, questionnaire_id)
		 VALUES ($1, $2)
		 ON CONFLICT (candidate_id, questionnaire_id) DO NOTHING`,
		candidateID, questionnaireID,
	); err != nil {
		return "", fmt.Errorf("ensure status: %w", err)
	}
	var status string
	if err := tx.QueryRow(ctx,
		`SELECT status FROM questionnaire_status
		 WHERE candidate_id = $1 AND questionnaire_id = $2
		 FOR UPDATE`,
		candidateID, questionnaireID,
	).Scan(&status); err != nil {
		return "", err
	}
	return assessment.Status(status), nil
}

func saveStatus(ctx context.Context, tx database.Tx, candidateID uuid.UUID, questionnaireID int64, st assessment.Status, finalizedAt *time.Time) error {
	_, err := tx.Exec(ctx,
		`UPDATE questionnaire_status
		 SET status = $3,
		     finalized_at = COALESCE($4, finalized_at),
		     updated_at = now()
		 WHERE candidate_id = $1 AND questionnaire_id = $2`,
		candidateID, questionnaireID, string(st), finalizedAt,
	)
	if err != nil {
		return fmt.Errorf("save status: %w", err)
	}
	return nil
}
