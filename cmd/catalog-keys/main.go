// Command catalog-keys generates the key schema of a product catalog so code
// that references catalog keys can be checked at build time.
//
//	catalog-keys -stage PROD -in prod.json -format go -package catalogkeys -out keys_gen.go
//	catalog-keys -stage CODE -source s3 -format yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/flexprice/productcatalog/internal/config"
	"github.com/flexprice/productcatalog/internal/domain/catalog"
	ierr "github.com/flexprice/productcatalog/internal/errors"
	"github.com/flexprice/productcatalog/internal/logger"
	"github.com/flexprice/productcatalog/internal/source"
	"github.com/flexprice/productcatalog/internal/types"
	"github.com/spf13/afero"
)

type options struct {
	stage   string
	source  string
	in      string
	out     string
	pkg     string
	format  string
	retries uint64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, afero.NewOsFs(), logger.L); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-keys: %v\n", err)
		if hints := ierr.Hints(err); hints != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", hints)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("catalog-keys", flag.ContinueOnError)
	fs.StringVar(&opts.stage, "stage", string(types.StageCODE), "Catalog stage: CODE or PROD")
	fs.StringVar(&opts.source, "source", "", "Raw catalog source: s3, file or api (default from config)")
	fs.StringVar(&opts.in, "in", "", "Read the raw catalog from this file instead of a source")
	fs.StringVar(&opts.out, "out", "", "Write the schema to this file (default stdout)")
	fs.StringVar(&opts.pkg, "package", "catalogkeys", "Package name of generated Go source")
	fs.StringVar(&opts.format, "format", "go", "Output format: go, json or yaml")
	fs.Uint64Var(&opts.retries, "retries", 3, "Retries for a failing source fetch")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer, fs afero.Fs, log *logger.Logger) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	stage, ok := types.ParseStage(opts.stage)
	if !ok {
		return ierr.NewErrorf("unknown stage %q", opts.stage).
			WithHint("Stage must be CODE or PROD").
			Mark(ierr.ErrValidation)
	}

	data, err := readCatalog(ctx, opts, stage, fs, log)
	if err != nil {
		return err
	}

	c, err := catalog.Build(data)
	if err != nil {
		return err
	}
	schema := catalog.Generate(c)

	var out []byte
	switch opts.format {
	case "go":
		out, err = schema.RenderGo(opts.pkg)
	case "json":
		out, err = schema.RenderJSON()
	case "yaml":
		out, err = schema.RenderYAML()
	default:
		return ierr.NewErrorf("unknown format %q", opts.format).
			WithHint("Format must be go, json or yaml").
			Mark(ierr.ErrValidation)
	}
	if err != nil {
		return err
	}

	log.Infow("generated key schema",
		"stage", stage,
		"format", opts.format,
		"products", c.ProductCount(),
	)

	if opts.out == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := afero.WriteFile(fs, opts.out, out, 0o644); err != nil {
		return ierr.WithError(err).
			WithHintf("Failed to write %s", opts.out).
			Mark(ierr.ErrSystem)
	}
	return nil
}

func readCatalog(ctx context.Context, opts *options, stage types.Stage, fs afero.Fs, log *logger.Logger) ([]byte, error) {
	if opts.in != "" {
		data, err := afero.ReadFile(fs, opts.in)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Failed to read %s", opts.in).
				Mark(ierr.ErrFetch)
		}
		return data, nil
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load configuration").
			Mark(ierr.ErrValidation)
	}
	cfg.Deployment.Stage = stage
	if opts.source != "" {
		cfg.Catalog.Source = types.SourceKind(opts.source)
	}

	base, err := source.NewBase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	return source.NewRetrying(base, opts.retries, log).Fetch(ctx, stage)
}
