package cmd

import (
	"fmt"
	"strings"

	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/prompt"
	"github.com/soraformula/soraformula/internal/usage"
	"github.com/spf13/cobra"
)

func usageCmd(sess *session) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show free tier usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			paid := false
			if sess.api != nil && sess.email != "" {
				status, err := sess.api.SubscriptionStatus(cmd.Context(), sess.email)
				if err == nil {
					paid = status.HasActiveSubscription
				}
			}
			if paid {
				printf(cmd, "plan: paid (no limits)\n")
			} else {
				printf(cmd, "plan: free\n")
			}

			tracker := usage.NewTracker(sess.store, nil, sess.email)
			for _, u := range tracker.Summary() {
				printf(cmd, "%-10s today %d/%d  month %d/%d\n", u.Feature, u.Today.Used, u.Today.Limit, u.Month.Used, u.Month.Limit)
			}
			return nil
		},
	}
}

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories [generator]",
		Short: "List the categories and options of a generator",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			generators := model.GeneratorTypes
			if len(args) == 1 {
				g := model.GeneratorType(args[0])
				if !g.Valid() {
					return fmt.Errorf("unknown generator type: %s", args[0])
				}
				generators = []model.GeneratorType{g}
			}
			for _, g := range generators {
				printf(cmd, "%s\n", g.Label())
				for _, c := range prompt.Categories(g) {
					printf(cmd, "  %-12s %s\n", c.Key, strings.Join(c.Options, ", "))
				}
			}
			return nil
		},
	}
}
