package main

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/lawfinder/internal/risk"
)

func newAssessCmd(a *app) *cobra.Command {
	var (
		policy   risk.UserPolicy
		external bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Score a feature against the obligation catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline()
			if err != nil {
				return err
			}

			req := risk.Request{UserPolicy: &policy}
			if cmd.Flags().Changed("external") {
				req.UseExternalOracle = &external
			}

			report, err := p.Risk.Assess(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}

	cmd.Flags().StringVar(&policy.Topic, "topic", "", "feature topic")
	cmd.Flags().StringVar(&policy.Description, "description", "", "feature description")
	cmd.Flags().StringArrayVar(&policy.DocumentPoints, "point", nil, "additional document point, repeatable")
	cmd.Flags().BoolVar(&external, "external", false, "use the external classifier when one is configured")
	cmd.MarkFlagRequired("topic")
	return cmd
}
