package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/estimate"
)

func newEstimateCmd(opts *rootOptions) *cobra.Command {
	var raw []string
	cmd := &cobra.Command{
		Use:   "estimate <product> <package>",
		Short: "Compute the price and timeline of a package with options",
		Example: `  neeklo estimate website corporate --answer design=custom --answer integrations=crm,payment`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			product, ok := c.Product(args[0])
			if !ok {
				return fmt.Errorf("product %q: %w", args[0], catalog.ErrNotFound)
			}
			answers, err := parseAnswers(product, raw)
			if err != nil {
				return err
			}
			est, err := estimate.NewService(c).Estimate(args[0], args[1], answers)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				estimate.Estimate
				TotalLabel string `json:"totalLabel"`
				DaysLabel  string `json:"daysLabel"`
			}{est, est.TotalLabel(), est.DaysLabel()})
		},
	}
	cmd.Flags().StringArrayVarP(&raw, "answer", "a", nil, "question=option[,option] (repeatable)")
	return cmd
}

// parseAnswers turns question=value flags into an AnswerSet. Multi-choice
// questions split the value on commas; other questions take it verbatim.
func parseAnswers(p catalog.Product, raw []string) (estimate.AnswerSet, error) {
	answers := estimate.AnswerSet{}
	for _, item := range raw {
		id, value, ok := strings.Cut(item, "=")
		id = strings.TrimSpace(id)
		if !ok || id == "" {
			return nil, fmt.Errorf("answer %q: want question=value", item)
		}
		q, found := p.Question(id)
		if !found {
			return nil, fmt.Errorf("answer %q: unknown question for %s", item, p.Slug)
		}
		if q.Type == catalog.QuestionMulti {
			var ids []string
			for _, v := range strings.Split(value, ",") {
				if v = strings.TrimSpace(v); v != "" {
					ids = append(ids, v)
				}
			}
			answers[id] = estimate.Multi(ids...)
			continue
		}
		answers[id] = estimate.Single(strings.TrimSpace(value))
	}
	return answers, nil
}
