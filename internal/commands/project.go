package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ig-gor95/finsplit-sub001/internal/config"
	"github.com/ig-gor95/finsplit-sub001/internal/importer"
	"github.com/ig-gor95/finsplit-sub001/internal/logger"
	"github.com/ig-gor95/finsplit-sub001/internal/store/sqlite"
)

// project is a finsplit working directory and its effective configuration.
type project struct {
	dir string
	cfg *config.Config
}

// loadProject reads <dir>/.env and <dir>/finsplit.yaml. A missing config
// file falls back to the defaults.
func loadProject(opts *rootOptions) (*project, error) {
	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if err := config.LoadDotEnv(dir); err != nil {
		return nil, err
	}

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default()
		cfg.ApplyEnv(os.LookupEnv)
		err = cfg.Validate()
	}
	if err != nil {
		return nil, err
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	return &project{dir: dir, cfg: cfg}, nil
}

// context attaches the configured logger to ctx.
func (p *project) context(ctx context.Context) (context.Context, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	log, err := logger.New(p.cfg.Log.Format, p.cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logger.WithContext(ctx, log.With().Str("project", p.dir).Logger()), nil
}

func (p *project) openLedger(ctx context.Context) (*sqlite.Repository, func() error, error) {
	db, err := sqlite.Open(ctx, p.cfg.DatabasePath(p.dir))
	if err != nil {
		return nil, nil, err
	}
	return sqlite.NewSQLRepository(db), db.Close, nil
}

func (p *project) registry() *importer.Registry {
	return importer.DefaultRegistryWithOptions(importer.Options{
		MetadataRows:    p.cfg.Parser.MetadataRows,
		DefaultCurrency: p.cfg.Parser.DefaultCurrency,
	})
}
