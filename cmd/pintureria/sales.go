package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pintureria-api/internal/bootstrap"
)

func newSalesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Mantenimiento de ventas",
	}

	var days int
	markOverdue := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Marca como vencidas las ventas a crédito sin pagar",
		Example: `  pintureria sales mark-overdue
  pintureria sales mark-overdue --days 45 --env-file .env.prod`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.storage(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			svc := bootstrap.NewServices(st, a.cfg, a.log)

			olderThan := svc.OverdueAfter()
			if days > 0 {
				olderThan = time.Duration(days) * 24 * time.Hour
			}
			out, err := svc.Settlement.MarkOverdue(cmd.Context(), olderThan)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ventas marcadas como vencidas: %d (creadas antes de %s)\n",
				len(out.Updated), out.Cutoff.Format("2006-01-02"))
			for _, id := range out.Updated {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+id)
			}
			return nil
		},
	}
	markOverdue.Flags().IntVar(&days, "days", 0, "antigüedad en días (por defecto SALES_OVERDUE_AFTER_DAYS)")

	cmd.AddCommand(markOverdue)
	return cmd
}
