package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"plenapos/internal/report"
)

func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	var start, end, preset string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise sales for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.open(rootOpts.config())
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			sum, err := svc.Reports.Summary(cmd.Context(), preset, start, end)
			if err != nil {
				return WrapExitError(ExitCommandError, "report", err)
			}
			return rootOpts.formatter(cmd).Success(sum, formatSummary(sum))
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "last day (YYYY-MM-DD, default start)")
	cmd.Flags().StringVar(&preset, "preset", "", "today|yesterday|last7|month")
	return cmd
}

func formatSummary(s report.Summary) string {
	var b strings.Builder
	period := s.Start
	if s.End != s.Start {
		period += " até " + s.End
	}
	fmt.Fprintf(&b, "Relatório Plena Bebidas\nPeríodo: %s\n\n", period)
	fmt.Fprintf(&b, "Faturamento: R$ %.2f\n", s.Revenue)
	fmt.Fprintf(&b, "Vendas: %d\n", s.Count)
	fmt.Fprintf(&b, "Margem bruta: R$ %.2f\n", s.GrossMargin)

	tops := make([]string, 0, len(s.TopItems))
	for _, it := range s.TopItems {
		tops = append(tops, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
	}
	if len(tops) == 0 {
		tops = append(tops, "Nenhum item")
	}
	fmt.Fprintf(&b, "Destaques: %s\n", strings.Join(tops, ", "))
	for _, p := range s.ByPayment {
		if p.Count > 0 {
			fmt.Fprintf(&b, "  %s: %d venda(s), R$ %.2f\n", p.Method, p.Count, p.Revenue)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
