package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plenapos/internal/domain"
	applog "plenapos/internal/log"
)

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a backup document of the catalog and ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := rootOpts.open(rootOpts.config())
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			doc, err := svc.Backup.Export(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "export", err)
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(append(doc, '\n'))
				return err
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "write "+out, err)
			}
			applog.Audit(nil, "backup.export", map[string]any{"file": out, "bytes": len(doc)})
			return rootOpts.formatter(cmd).Success(map[string]any{"file": out, "bytes": len(doc)}, "backup written to "+out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace catalog and ledger from a backup document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "read "+args[0], err)
			}
			cfg := rootOpts.config()
			if strict {
				cfg.ImportStrict = true
			}
			svc, err := rootOpts.open(cfg)
			if err != nil {
				return err
			}
			defer svc.Store.Close()

			f := rootOpts.formatter(cmd)
			rep, err := svc.Backup.Import(cmd.Context(), data)
			switch {
			case errors.Is(err, domain.ErrImportParse), errors.Is(err, domain.ErrValidation):
				return f.Fail(ExitFailure, "import rejected", err)
			case err != nil:
				return f.Fail(ExitFailure, "import", err)
			}
			applog.Audit(nil, "backup.import", map[string]any{"file": args[0], "products": rep.Products, "sales": rep.Sales, "skipped": len(rep.Skipped)})
			text := fmt.Sprintf("imported %d products, %d sales (%d skipped)", rep.Products, rep.Sales, len(rep.Skipped))
			for _, s := range rep.Skipped {
				text += fmt.Sprintf("\n  skipped %s[%d]: %s", s.Collection, s.Index, s.Reason)
			}
			return f.Success(rep, text)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "abort on the first malformed record")
	return cmd
}
