package main

import (
	"errors"
	"fmt"

	"inclusion-engine/internal/domain/candidate"
	"inclusion-engine/internal/domain/sis"
	"inclusion-engine/internal/usecase"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type batchLine struct {
	CandidateID uuid.UUID   `json:"candidate_id"`
	Report      *sis.Report `json:"report,omitempty"`
	Error       string      `json:"error,omitempty"`
}

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compute SIS evaluation reports",
	}

	var (
		state     string
		workers   int
		rateLimit int
	)
	batch := &cobra.Command{
		Use:   "batch [candidate-id...]",
		Short: "Evaluate the given candidates, or every candidate in --state",
		Long: `Evaluates candidates concurrently and prints one JSON document per
candidate. Without arguments the candidates are listed from the database,
optionally restricted to an agency state (Bol, Emp, Des).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseUUIDs(args)
			if err != nil {
				return err
			}
			st, err := candidate.ParseAgencyState(state)
			if err != nil {
				return err
			}

			c, err := opts.session()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx := cmd.Context()
			if len(ids) == 0 {
				if ids, err = c.Candidates.ListCandidateIDs(ctx, st); err != nil {
					return err
				}
			}
			if workers <= 0 {
				workers = c.Config.Engine.BatchWorkers
			}

			failed := 0
			for _, r := range c.Evaluation.EvaluateBatch(ctx, ids, usecase.BatchOptions{Workers: workers, RateLimit: rateLimit}) {
				line := batchLine{CandidateID: r.CandidateID}
				if r.Err != nil {
					line.Error = r.Err.Error()
					failed++
				} else {
					line.Report = &r.Report
				}
				if err := opts.write(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			c.Log.Info("batch evaluation finished", "candidates", len(ids), "failed", failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d evaluations failed", failed, len(ids))
			}
			return nil
		},
	}
	batch.Flags().StringVar(&state, "state", "", "Agency state filter when no ids are given")
	batch.Flags().IntVar(&workers, "workers", 0, "Concurrent evaluations (default BATCH_WORKERS)")
	batch.Flags().IntVar(&rateLimit, "rate", 0, "Evaluations started per second, 0 for unlimited")

	cmd.AddCommand(batch)
	return cmd
}

func parseUUIDs(args []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(args))
	var errs []error
	for _, a := range args {
		id, err := uuid.Parse(a)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid candidate id %q", a))
			continue
		}
		out = append(out, id)
	}
	return out, errors.Join(errs...)
}
