package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/diewo77/go-ledger/internal/db"
	"github.com/diewo77/go-ledger/internal/models"
	"github.com/diewo77/go-ledger/internal/services"
	"github.com/spf13/cobra"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Provision the schema and exit",
		Long: `Provision the schema of the configured store.

With MIGRATIONS=1 on postgres the versioned SQL files in ./migrations are
applied; otherwise the tables are created from the models. Running it
again changes nothing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := db.Migrate(cmd.Context(), a.db, a.cfg.Database, a.cfg.App.Migrations, a.log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the operator account and sample customers if absent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := db.LoadSeed(a.cfg.App)
			if err != nil {
				return err
			}
			if err := db.Seed(cmd.Context(), a.db, data, a.log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "seed applied")
			return nil
		},
	}
}

func (a *app) accountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the operator account",
	}

	var in services.RotateInput
	set := &cobra.Command{
		Use:   "set",
		Short: "Replace the operator username and password",
		Example: `  ledgerctl account set --username dayou --password 'n3w-secret'
  ledgerctl account set --username ops --password x --current-password 'Dayou123?'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := services.NewIdentityService(a.db, a.policy())
			id, err := svc.RotateCredentials(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "account %d is now %q\n", id.ID, id.Username)
			return nil
		},
	}
	set.Flags().StringVar(&in.Username, "username", "", "new username")
	set.Flags().StringVar(&in.NewPassword, "password", "", "new password")
	set.Flags().StringVar(&in.CurrentPassword, "current-password", "", "current password, checked when POLICY_REQUIRE_CURRENT_PASSWORD is on")
	_ = set.MarkFlagRequired("username")
	_ = set.MarkFlagRequired("password")

	cmd.AddCommand(set)
	return cmd
}

func (a *app) paymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Inspect and reconcile payments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print the ledger, most recent date first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payments, err := services.NewPaymentService(a.db, a.policy()).List(cmd.Context())
			if err != nil {
				return err
			}
			return writePayments(cmd, payments)
		},
	}

	var verify services.VerifyInput
	var remarks string
	verifyCmd := &cobra.Command{
		Use:   "verify ID...",
		Short: "Mark payments verified in one transaction",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			verify.IDs = args
			if cmd.Flags().Changed("remarks") {
				verify.Remarks = &remarks
			}
			res, err := services.NewPaymentService(a.db, a.policy()).VerifyBatch(cmd.Context(), verify)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "verified %d of %d payments\n", res.Verified, res.Requested)
			return nil
		},
	}
	verifyCmd.Flags().StringVar(&verify.BusinessDate, "business-date", "", "business date recorded on the payments")
	verifyCmd.Flags().StringVar(&remarks, "remarks", "", "remarks recorded on the payments")
	_ = verifyCmd.MarkFlagRequired("business-date")

	undo := &cobra.Command{
		Use:   "undo ID",
		Short: "Move a payment back to unverified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := services.NewPaymentService(a.db, a.policy()).UndoVerification(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no payment %s\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "payment %s is unverified\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, verifyCmd, undo)
	return cmd
}

func (a *app) sheetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Access the stored spreadsheet snapshot",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print the stored sheet JSON, or null",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := services.NewSheetService(a.db, a.log).Load(cmd.Context())
			if err != nil {
				return err
			}
			if doc == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "null")
				return nil
			}
			var buf bytes.Buffer
			if err := json.Indent(&buf, doc, "", "  "); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), buf.String())
			return nil
		},
	})
	return cmd
}

func writePayments(cmd *cobra.Command, payments []models.Payment) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 1, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCUSTOMER\tAMOUNT\tSTATUS\tBUSINESS DATE\tREMARKS")
	for _, p := range payments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Date, p.CustomerName, p.Amount.String(), p.Status, deref(p.BusinessDate), deref(p.Remarks))
	}
	return tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
