package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pintureria-api/internal/infrastructure/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema PostgreSQL",
	}

	withMigrator := func(fn func(cmd *cobra.Command, m *postgres.Migrator) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			// Sin bootstrap: DB_AUTO_MIGRATE no debe adelantarse a un down.
			pool, err := postgres.NewPool(cmd.Context(), a.cfg.DB)
			if err != nil {
				return fmt.Errorf("conexión a PostgreSQL: %w", err)
			}
			defer pool.Close()
			return fn(cmd, postgres.NewMigrator(pool, a.log))
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Aplica las migraciones pendientes",
			RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
				return m.Up(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revierte la última migración aplicada",
			RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
				return m.Down(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Muestra el estado de cada migración",
			RunE: withMigrator(func(cmd *cobra.Command, m *postgres.Migrator) error {
				list, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "VERSIÓN\tARCHIVO\tAPLICADA")
				for _, s := range list {
					fmt.Fprintf(w, "%d\t%s\t%t\n", s.Version, s.File, s.Applied)
				}
				return w.Flush()
			}),
		},
	)
	return cmd
}
