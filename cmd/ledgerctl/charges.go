package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MrJamesThe3rd/rentledger/internal/app"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
	"github.com/MrJamesThe3rd/rentledger/internal/importer"
)

func importCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Apply a charge sheet to bills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withLedger(cmd.Context(), func(e *env, ledger *app.App) error {
				if dryRun {
					sheet, err := ledger.Importer.Parse(f)
					if err != nil {
						return err
					}

					printSheet(cmd.OutOrStdout(), sheet)

					return nil
				}

				report, err := ledger.Importer.Import(cmd.Context(), f)
				if err != nil {
					return err
				}

				e.log.Info("import finished",
					zap.String("profile", report.Profile),
					zap.Int("rows", report.Rows),
					zap.Int("bills_updated", len(report.Updated)),
					zap.Int("errors", len(report.Errors)),
				)

				printRowErrors(cmd.OutOrStdout(), report.Errors)

				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse the sheet and print its rows without applying them")

	return cmd
}

func printSheet(w io.Writer, sheet *importer.Sheet) {
	fmt.Fprintf(w, "format: %s (%s ids)\n", sheet.Profile, sheet.Target)

	t := table.New().Headers("Line", "Target", "Charge", "Amount", "Note")
	for _, r := range sheet.Rows {
		t.Row(strconv.Itoa(r.Line), r.Target.String(), r.Charge, r.Amount.String(), r.Note)
	}

	fmt.Fprintln(w, t.Render())
	printRowErrors(w, sheet.Errors)
}

func printRowErrors(w io.Writer, errs []importer.RowError) {
	for _, e := range errs {
		fmt.Fprintln(w, e.Error())
	}
}

// billFilter binds the bill filter flags shared by remind and export.
type billFilter struct {
	owner  string
	renter string
	status string
	from   string
	to     string
}

func (f *billFilter) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.owner, "owner", "", "Only bills of this owner")
	cmd.Flags().StringVar(&f.renter, "renter", "", "Only bills of this renter")
	cmd.Flags().StringVar(&f.status, "status", "", "Only bills in this status (unpaid, partial, paid)")
	cmd.Flags().StringVar(&f.from, "from", "", "Only bills whose period starts on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "Only bills whose period starts before this date (YYYY-MM-DD)")
}

func (f *billFilter) build() (bill.ListFilter, error) {
	var filter bill.ListFilter

	if f.owner != "" {
		filter.OwnerID = new(f.owner)
	}

	if f.renter != "" {
		filter.RenterID = new(f.renter)
	}

	if f.status != "" {
		status := bill.Status(f.status)
		switch status {
		case bill.StatusUnpaid, bill.StatusPartial, bill.StatusPaid:
		default:
			return filter, fmt.Errorf("unknown bill status %q", f.status)
		}

		filter.Status = &status
	}

	for _, d := range []struct {
		raw  string
		dest **time.Time
	}{{f.from, &filter.From}, {f.to, &filter.To}} {
		if d.raw == "" {
			continue
		}

		t, err := time.Parse(time.DateOnly, d.raw)
		if err != nil {
			return filter, fmt.Errorf("invalid date %q: %w", d.raw, err)
		}

		*d.dest = &t
	}

	return filter, nil
}

func remindCmd() *cobra.Command {
	var flags billFilter

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Notify renters of their outstanding bills",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.build()
			if err != nil {
				return err
			}

			return withLedger(cmd.Context(), func(e *env, ledger *app.App) error {
				sent, err := ledger.Bills.SendReminders(cmd.Context(), filter)
				if err != nil {
					return err
				}

				e.log.Info("reminders queued", zap.Int("sent", sent))

				return nil
			})
		},
	}

	flags.register(cmd)

	return cmd
}

func exportCmd() *cobra.Command {
	var (
		flags billFilter
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a PDF statement per bill and print a summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.build()
			if err != nil {
				return err
			}

			return withLedger(cmd.Context(), func(e *env, ledger *app.App) error {
				out := dir
				if out == "" {
					out = e.cfg.Export.Dir
				}

				items, err := ledger.Export.Export(cmd.Context(), filter, out)
				if err != nil {
					return err
				}

				summary := ledger.Export.GenerateSummary(items)
				if err := os.WriteFile(filepath.Join(out, "summary.txt"), []byte(summary), 0o644); err != nil {
					return fmt.Errorf("writing summary: %w", err)
				}

				fmt.Fprint(cmd.OutOrStdout(), summary)
				e.log.Info("export finished", zap.Int("statements", len(items)), zap.String("dir", out))

				return nil
			})
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (defaults to EXPORT_DIR)")

	return cmd
}
