package cmd

import (
	"context"

	"github.com/gnames/gn"
	"github.com/gnames/sp2tax/internal/iopostgres"
	"github.com/gnames/sp2tax/internal/iosqlite"
	"github.com/gnames/sp2tax/internal/iotaxdump"
	"github.com/gnames/sp2tax/pkg/config"
	"github.com/gnames/sp2tax/pkg/sp2tax"
)

// newResolver creates the taxonomy store selected by cfg.Backend.
func newResolver(ctx context.Context, cfg *config.Config) (sp2tax.Resolver, error) {
	switch cfg.Backend {
	case "sqlite":
		return iosqlite.New(cfg)
	case "postgres":
		return iopostgres.New(ctx, cfg)
	case "dump":
		return iotaxdump.New(cfg), nil
	default:
		return nil, UnknownBackendError(cfg.Backend)
	}
}

func refresh(ctx context.Context, res sp2tax.Resolver) error {
	gn.Info(
		"Updating <em>%s</em> backend from <em>%s</em>",
		cfg.Backend, cfg.TaxdumpURL,
	)
	if err := res.Refresh(ctx); err != nil {
		return err
	}
	gn.Info("Taxonomy data is up to date")
	return nil
}

func ensureData(ctx context.Context, res sp2tax.Resolver) error {
	ok, err := res.HasData(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return BackendEmptyError(cfg.Backend)
	}
	return nil
}

// checkFlags makes sure the conversion has its input and output.
func checkFlags(cfg *config.Config) error {
	if cfg.InputFile == "" {
		return MissingFlagError("-i, --input")
	}
	if cfg.OutputFile == "" {
		return MissingFlagError("-o, --output")
	}
	return nil
}
