package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAccountsCommand(root *rootOptions) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List the owner's accounts with their latest balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root)
			if err != nil {
				return err
			}
			if owner == "" {
				owner = p.cfg.Import.Owner
			}
			return runAccounts(cmd.Context(), p, owner, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "ledger owner id")

	return cmd
}

func runAccounts(ctx context.Context, p *project, owner string, out io.Writer) error {
	if err := requireOwner(owner); err != nil {
		return err
	}
	ctx, err := p.context(ctx)
	if err != nil {
		return err
	}

	repo, closeDB, err := p.openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	accounts, err := repo.GetAccountRepository().ListByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}
	if len(accounts) == 0 {
		fmt.Fprintf(out, "No accounts for owner %s.\n", owner)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tCURRENCY\tBALANCE\tAS OF\tSNAPSHOTS\tCLIENT")
	for _, a := range accounts {
		snapshots, err := repo.GetBalanceRepository().ListByAccount(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("listing balances for %s: %w", a.Number, err)
		}
		balance := "-"
		if a.CurrentBalance.Valid {
			balance = a.CurrentBalance.Decimal.StringFixed(2)
		}
		asOf := "-"
		if a.LastStatementDate != nil {
			asOf = a.LastStatementDate.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n", a.Number, a.Currency, balance, asOf, len(snapshots), a.ClientName)
	}
	return tw.Flush()
}
