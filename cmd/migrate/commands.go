package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
}

type opener func(dsn string) (migrator, func(), error)

func newRootCmd(open opener) *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the lawfinder prompt and run schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "postgres URL (defaults to LAWFINDER_DB_* settings)")

	// with opens the migrator for one command and reports ErrNoChange as
	// success.
	with := func(fn func(cmd *cobra.Command, m migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			target := dsn
			if target == "" {
				target = resolveDSN(os.Getenv)
			}
			m, closeFn, err := open(target)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := fn(cmd, m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
				return err
			}
			return nil
		}
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: with(func(cmd *cobra.Command, m migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			return report(cmd, m)
		}),
	}

	var confirm bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert every migration, dropping prompts and runs",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if !confirm {
				return fmt.Errorf("down drops every table; rerun with --yes")
			}
			return nil
		},
		RunE: with(func(cmd *cobra.Command, m migrator) error {
			if err := m.Down(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "all migrations reverted")
			return nil
		}),
	}
	down.Flags().BoolVar(&confirm, "yes", false, "confirm reverting every migration")

	steps := &cobra.Command{
		Use:   "steps N",
		Short: "Apply N migrations, or revert when N is negative",
		Args:  cobra.ExactArgs(1),
	}
	steps.RunE = func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil || n == 0 {
			return fmt.Errorf("steps: want a non-zero integer, got %q", args[0])
		}
		return with(func(cmd *cobra.Command, m migrator) error {
			if err := m.Steps(n); err != nil {
				return err
			}
			return report(cmd, m)
		})(cmd, args)
	}

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE:  with(report),
	}

	force := &cobra.Command{
		Use:   "force VERSION",
		Short: "Mark VERSION as applied and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
	}
	force.RunE = func(cmd *cobra.Command, args []string) error {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < -1 {
			return fmt.Errorf("force: want a version or -1, got %q", args[0])
		}
		return with(func(cmd *cobra.Command, m migrator) error {
			if err := m.Force(v); err != nil {
				return err
			}
			return report(cmd, m)
		})(cmd, args)
	}

	root.AddCommand(up, down, steps, version, force)
	return root
}

func report(cmd *cobra.Command, m migrator) error {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "version: none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", v, dirty)
	return nil
}
