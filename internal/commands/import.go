package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ig-gor95/finsplit-sub001/internal/importer"
	"github.com/ig-gor95/finsplit-sub001/internal/importlog"
	"github.com/ig-gor95/finsplit-sub001/internal/ledger"
	"github.com/ig-gor95/finsplit-sub001/internal/logger"
	"github.com/ig-gor95/finsplit-sub001/internal/model"
)

type importOptions struct {
	bank     string
	owner    string
	parallel int
	asJSON   bool
}

func newImportCommand(root *rootOptions) *cobra.Command {
	opts := importOptions{}

	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import bank statements into the ledger",
		Long: "Import the given statement files. Without arguments, every .txt, .xlsx and .xls\n" +
			"file in <dir>/import/ is imported and moved to import/processed/ on success.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root)
			if err != nil {
				return err
			}
			if opts.bank == "" {
				opts.bank = p.cfg.Import.Bank
			}
			if opts.owner == "" {
				opts.owner = p.cfg.Import.Owner
			}
			if !cmd.Flags().Changed("parallel") {
				opts.parallel = p.cfg.Import.Parallel
			}
			return runImport(cmd.Context(), p, args, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.bank, "bank", "", "bank type (one_c, raiffeisen)")
	cmd.Flags().StringVar(&opts.owner, "owner", "", "ledger owner id")
	cmd.Flags().IntVar(&opts.parallel, "parallel", 1, "number of files imported concurrently")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")

	return cmd
}

// importJob is one file to import; inbox files are moved when done.
type importJob struct {
	name  string
	path  string
	inbox bool
}

func runImport(ctx context.Context, p *project, paths []string, opts importOptions, out io.Writer) error {
	bank, err := parseBank(opts.bank)
	if err != nil {
		return err
	}
	if err := requireOwner(opts.owner); err != nil {
		return err
	}
	if opts.parallel < 1 {
		opts.parallel = 1
	}

	ctx, err = p.context(ctx)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)

	jobs, err := importJobs(p.dir, paths)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		fmt.Fprintln(out, "No statement files to import.")
		return nil
	}

	repo, closeDB, err := p.openLedger(ctx)
	if err != nil {
		return err
	}
	defer closeDB()
	registry := p.registry()
	engine := ledger.NewEngine(registry, repo.Stores())

	var (
		mu      sync.Mutex
		merr    *multierror.Error
		results = make([]*model.ImportResult, len(jobs))
		g       errgroup.Group
	)
	g.SetLimit(opts.parallel)

	for i, job := range jobs {
		g.Go(func() error {
			res, err := importFile(ctx, engine, bank, opts.owner, job)
			if errors.Is(err, importer.ErrNoParser) {
				err = fmt.Errorf("%w (supported: %s)", err, strings.Join(registry.Supported(), ", "))
			}
			if err == nil && job.inbox {
				err = importer.MarkProcessed(p.dir, job.name)
			}
			mu.Lock()
			defer mu.Unlock()
			results[i] = res
			if err != nil {
				merr = multierror.Append(merr, fmt.Errorf("%s: %w", job.name, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	var entries []importlog.Entry
	var done []*model.ImportResult
	now := time.Now()
	for _, res := range results {
		if res == nil {
			continue
		}
		done = append(done, res)
		entries = append(entries, importlog.FromResult(now, opts.owner, bank, res))
	}
	if len(entries) > 0 {
		if err := importlog.Append(p.dir, entries); err != nil {
			log.Warn().Err(err).Msg("import log not written")
		}
	}

	if err := printResults(out, done, opts.asJSON); err != nil {
		return err
	}
	return merr.ErrorOrNil()
}

func importJobs(dir string, paths []string) ([]importJob, error) {
	if len(paths) == 0 {
		files, err := importer.Scan(dir)
		if err != nil {
			return nil, err
		}
		jobs := make([]importJob, len(files))
		for i, f := range files {
			jobs[i] = importJob{name: f.Name, path: f.Path, inbox: true}
		}
		return jobs, nil
	}

	jobs := make([]importJob, len(paths))
	for i, path := range paths {
		jobs[i] = importJob{name: filepath.Base(path), path: path}
	}
	return jobs, nil
}

func importFile(ctx context.Context, engine *ledger.Engine, bank model.BankType, owner string, job importJob) (*model.ImportResult, error) {
	f, err := os.Open(job.path)
	if err != nil {
		return nil, fmt.Errorf("opening statement: %w", err)
	}
	defer f.Close()

	return engine.Import(ctx, ledger.Request{
		OwnerID:  owner,
		Bank:     bank,
		FileName: job.name,
		Body:     f,
	})
}

func printResults(out io.Writer, results []*model.ImportResult, asJSON bool) error {
	if asJSON {
		if results == nil {
			results = []*model.ImportResult{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return fmt.Errorf("encoding results: %w", err)
		}
		return nil
	}

	for _, res := range results {
		fmt.Fprintf(out, "%s: %d transactions, %d imported, %d updated, %d skipped, %d errors\n",
			res.FileName,
			res.TotalTransactions,
			res.ImportedTransactions,
			res.UpdatedTransactions,
			res.SkippedTransactions,
			len(res.Errors),
		)
		for _, msg := range res.Errors {
			fmt.Fprintf(out, "  %s\n", msg)
		}
	}
	return nil
}
