package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	applog "plenapos/internal/log"
	"plenapos/internal/repos"
)

func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Re-apply stock for sales recorded after the last stock marker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.open(rootOpts.config())
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			res, err := svc.Reconciler.Run(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "reconcile", err)
			}
			text := fmt.Sprintf("applied %d sale(s); marker at %q (%d)", res.Applied, res.Marker.LastSaleID, res.Marker.Count)
			if res.Adopted {
				text = fmt.Sprintf("marker adopted at %q (%d); stock untouched", res.Marker.LastSaleID, res.Marker.Count)
			}
			return rootOpts.formatter(cmd).Success(res, text)
		},
	}
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default catalog when the catalog is nearly empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.open(rootOpts.config())
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			n, err := repos.SeedIfNeeded(cmd.Context(), svc.Catalog)
			if err != nil {
				return WrapExitError(ExitFailure, "seed", err)
			}
			if n > 0 {
				applog.Audit(nil, "catalog.seed", map[string]any{"added": n})
			}
			return rootOpts.formatter(cmd).Success(map[string]any{"added": n}, fmt.Sprintf("added %d product(s)", n))
		},
	}
}
