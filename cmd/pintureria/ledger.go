package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jhoicas/pintureria-api/internal/application/dto"
	"github.com/jhoicas/pintureria-api/internal/bootstrap"
)

func newLedgerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Historial de deuda de clientes",
	}

	var limit int
	show := &cobra.Command{
		Use:   "show <customer-id>",
		Short: "Lista los movimientos de deuda de un cliente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.storage(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			svc := bootstrap.NewServices(st, a.cfg, a.log)

			list, err := svc.CustomerLedger.Transactions(cmd.Context(), args[0], dto.PageRequest{Limit: limit})
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FECHA\tMOTIVO\tDELTA\tSALDO\tVENTA")
			for _, t := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.CreatedAt.Format("2006-01-02 15:04"), t.Reason,
					t.Delta.StringFixed(2), t.BalanceAfter.StringFixed(2), t.SaleID)
			}
			return w.Flush()
		},
	}
	show.Flags().IntVar(&limit, "limit", 50, "cantidad máxima de movimientos")

	var fix bool
	reconcile := &cobra.Command{
		Use:   "reconcile <customer-id>",
		Short: "Compara la deuda almacenada con la suma del historial",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.storage(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			svc := bootstrap.NewServices(st, a.cfg, a.log)

			out, err := svc.CustomerLedger.Reconcile(cmd.Context(), args[0], fix)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "almacenada: %s\nhistorial:  %s\ndiferencia: %s\ncorregida:  %t\n",
				out.Cached.StringFixed(2), out.Derived.StringFixed(2), out.Drift.StringFixed(2), out.Fixed)
			if !out.Drift.IsZero() {
				a.log.Warn().
					Str("customer_id", out.CustomerID).
					Str("drift", out.Drift.String()).
					Bool("fixed", out.Fixed).
					Msg("deuda descuadrada")
			}
			return nil
		},
	}
	reconcile.Flags().BoolVar(&fix, "fix", false, "fija la deuda al valor reconstruido")

	cmd.AddCommand(show, reconcile)
	return cmd
}
