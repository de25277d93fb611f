package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ig-gor95/finsplit-sub001/internal/config"
	"github.com/ig-gor95/finsplit-sub001/internal/store/sqlite"
)

func newInitCommand() *cobra.Command {
	var owner string
	var bank string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finsplit project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), absDir, owner, bank)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "default owner for imports")
	cmd.Flags().StringVar(&bank, "bank", "", "default bank type (one_c, raiffeisen)")

	return cmd
}

func runInit(ctx context.Context, dir, owner, bank string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Default()
	cfg.Import.Owner = owner
	if bank != "" {
		bt, err := parseBank(bank)
		if err != nil {
			return err
		}
		cfg.Import.Bank = string(bt)
	}

	// Create directory structure.
	dirs := []string{
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	gitignore := "finsplit.db*\n.env\nimport/processed/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	db, err := sqlite.Open(ctx, cfg.DatabasePath(dir))
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("closing database: %w", err)
	}

	fmt.Printf("Initialized finsplit project at %s\n", dir)
	return nil
}
