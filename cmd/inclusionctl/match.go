package main

import (
	"fmt"
	"strconv"

	"inclusion-engine/internal/delivery/http/dto"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newMatchCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank candidates for a job or jobs for a candidate",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "job <job-id>",
		Short: "Rank pool candidates against a job's requirements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			c, err := opts.session()
			if err != nil {
				return err
			}
			defer c.Close()

			rep, err := c.Matching.MatchJobToCandidates(cmd.Context(), id)
			if err != nil {
				return err
			}
			return opts.write(cmd.OutOrStdout(), dto.NewJobMatchReport(rep))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "candidate <candidate-id>",
		Short: "Rank jobs against a candidate's evaluated skills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid candidate id %q", args[0])
			}
			c, err := opts.session()
			if err != nil {
				return err
			}
			defer c.Close()

			rep, err := c.Matching.MatchCandidateToJobs(cmd.Context(), id)
			if err != nil {
				return err
			}
			return opts.write(cmd.OutOrStdout(), dto.NewCandidateMatchReport(rep))
		},
	})
	return cmd
}
