package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"compliance-planner/internal/seed"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load organizations, people, structures and templates from YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			loader := seed.NewLoader(a.orgs, a.directory, a.templateSvc)
			sum, err := loader.LoadFile(cmd.Context(), file)
			if err != nil {
				return fmt.Errorf("seed %s: %w", file, err)
			}
			a.log.WithFields(logrus.Fields{
				"organizations": sum.Organizations,
				"people":        sum.People,
				"structures":    sum.Structures,
				"templates":     sum.Templates,
				"skipped":       sum.Skipped,
			}).Info("seed loaded")
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "seed file to load")
	return cmd
}
