package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ig-gor95/finsplit-sub001/internal/export"
	"github.com/ig-gor95/finsplit-sub001/internal/logger"
)

func newExportCommand(root *rootOptions) *cobra.Command {
	var owner string
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the owner's ledger as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root)
			if err != nil {
				return err
			}
			if owner == "" {
				owner = p.cfg.Import.Owner
			}
			return runExport(cmd.Context(), p, owner, outPath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "ledger owner id")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(ctx context.Context, p *project, owner, outPath string, stdout io.Writer) error {
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

	txns, err := repo.GetTransactionRepository().ListByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}

	w := stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteTransactions(w, txns); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().Str("owner", owner).Int("transactions", len(txns)).Msg("ledger exported")
	return nil
}
