package main

import (
	"github.com/spf13/cobra"

	"neeklo-backend/internal/quiz"
)

func newRecommendCmd() *cobra.Command {
	var answers quiz.Answers
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print the quiz recommendation for a set of answers",
		Example: `  neeklo recommend --what site --why sales --when month
  neeklo recommend --what unknown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), quiz.Recommend(answers))
		},
	}
	cmd.Flags().StringVar(&answers.What, "what", "", "step 1 answer")
	cmd.Flags().StringVar(&answers.Why, "why", "", "step 2 answer")
	cmd.Flags().StringVar(&answers.When, "when", "", "step 3 answer (urgency)")
	return cmd
}
