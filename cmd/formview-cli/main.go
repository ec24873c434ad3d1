// Command formview-cli interprets a form schema from a file or URL and runs
// it through a renderer. Environment variables (FORMVIEW_*) configure the
// runtime; flags select the schema and renderer per invocation.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	formview "github.com/goliatone/go-formview"
	"github.com/goliatone/go-formview/pkg/diag"
	"github.com/goliatone/go-formview/pkg/form"
	"github.com/goliatone/go-formview/pkg/loader"
	"github.com/goliatone/go-formview/pkg/render"
	"github.com/goliatone/go-formview/pkg/renderers/tui"
	"github.com/goliatone/go-formview/pkg/submit"
)

type config struct {
	Env     string        `env:"FORMVIEW_ENV" envDefault:"development"`
	BaseURL string        `env:"FORMVIEW_BASE_URL"`
	Timeout time.Duration `env:"FORMVIEW_TIMEOUT" envDefault:"15s"`
}

func (c config) production() bool {
	return strings.EqualFold(c.Env, "production")
}

func main() {
	schemaRef := flag.String("schema", "", "schema file path or URL")
	rendererName := flag.String("renderer", "tui", "renderer to use")
	format := flag.String("format", "json", "tui output format: json or message")
	valuesJSON := flag.String("values", "", "JSON object of prefill values")
	output := flag.String("output", "", "output file (stdout if empty)")
	deliver := flag.Bool("deliver", false, "deliver the submission message to stdout")
	flag.Parse()

	cfg, err := env.ParseAs[config]()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *schemaRef == "" {
		logger.Error("missing -schema flag")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, options{
		schemaRef: *schemaRef,
		renderer:  *rendererName,
		format:    *format,
		values:    *valuesJSON,
		output:    *output,
		deliver:   *deliver,
	}); err != nil {
		reportError(cfg, logger, err)
		os.Exit(1)
	}
}

type options struct {
	schemaRef string
	renderer  string
	format    string
	values    string
	output    string
	deliver   bool
}

func run(ctx context.Context, cfg config, logger *zap.Logger, opts options) error {
	sink := diag.NewZapSink(logger)
	interp := formview.New(formview.WithDiagnostics(sink))

	session, report, err := interpret(ctx, cfg, sink, interp, opts.schemaRef)
	if err != nil {
		return err
	}
	if report.Advisory != "" {
		logger.Warn("schema advisory", zap.String("advisory", report.Advisory))
	}

	values, err := parseValues(opts.values)
	if err != nil {
		return err
	}

	tuiOptions := []tui.Option{
		tui.WithOutputFormat(tui.OutputFormat(opts.format)),
		tui.WithDiagnostics(sink),
	}
	if opts.deliver {
		tuiOptions = append(tuiOptions, tui.WithMessageSink(submit.WriterSink{W: os.Stdout}))
	}
	registry, err := formview.DefaultRegistry(tuiOptions...)
	if err != nil {
		return err
	}

	renderer, err := registry.Get(opts.renderer)
	if err != nil {
		return fmt.Errorf("unknown renderer %q (available: %s)", opts.renderer, strings.Join(registry.List(), ", "))
	}

	out, err := renderer.Render(ctx, session, render.Options{
		Values:   values,
		Advisory: report.Advisory,
	})
	if err != nil {
		return err
	}

	return write(opts.output, out)
}

func interpret(ctx context.Context, cfg config, sink diag.Sink, interp *formview.Interpreter, ref string) (*form.Form, formview.Report, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "/") {
		remote := loader.New(
			loader.WithBaseURL(cfg.BaseURL),
			loader.WithTimeout(cfg.Timeout),
			loader.WithDiagnostics(sink),
		)
		doc, err := remote.Load(ctx, ref)
		if err != nil {
			return nil, formview.Report{}, err
		}
		return interp.Session(doc)
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, formview.Report{}, fmt.Errorf("read schema: %w", err)
	}
	return interp.Interpret(data)
}

func parseValues(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var values map[string]any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("parse -values: %w", err)
	}
	return values, nil
}

func write(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func buildLogger(cfg config) (*zap.Logger, error) {
	if cfg.production() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// reportError keeps production output to headlines; raw diagnostics only
// surface in development.
func reportError(cfg config, logger *zap.Logger, err error) {
	var loadErr *loader.Error
	if errors.As(err, &loadErr) {
		if cfg.production() {
			logger.Error(loadErr.Headline())
		} else {
			logger.Error(loadErr.Headline(), zap.String("detail", loadErr.Detail))
		}
		return
	}

	var validationErr *formview.ValidationError
	if errors.As(err, &validationErr) {
		if cfg.production() {
			logger.Error("The schema failed validation.")
		} else {
			logger.Error("schema validation failed", zap.String("issues", validationErr.Result.Summary()))
		}
		return
	}

	if errors.Is(err, tui.ErrAborted) {
		logger.Warn("cancelled")
		return
	}

	logger.Error(err.Error())
}
