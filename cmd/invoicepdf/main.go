// Command invoicepdf renders an invoice JSON document to a PDF file without
// starting the HTTP server. It reads the same configuration as the server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	invoiceapp "github.com/invoicegen/backend/internal/application/invoice"
	"github.com/invoicegen/backend/internal/infrastructure/config"
	"github.com/invoicegen/backend/internal/infrastructure/logger"
	infraprinting "github.com/invoicegen/backend/internal/infrastructure/printing"
	"github.com/invoicegen/backend/internal/infrastructure/printing/layout"
	"go.uber.org/zap"
)

// stdio is "-" for -in and -out
const stdio = "-"

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, "invoicepdf:", err)
		}
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for usage errors, 3 for invalid invoices and 1 otherwise
func exitCode(err error) int {
	var validationErr *invoiceapp.ValidationError
	switch {
	case errors.Is(err, flag.ErrHelp), errors.Is(err, errUsage):
		return 2
	case errors.As(err, &validationErr):
		return 3
	default:
		return 1
	}
}

var errUsage = errors.New("usage error")

type options struct {
	in           string
	out          string
	logLevel     string
	validateOnly bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("invoicepdf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", stdio, "Invoice JSON file, - for stdin")
	fs.StringVar(&opts.out, "out", layout.DefaultFilename, "Output PDF file, - for stdout")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.validateOnly, "validate", false, "Validate the invoice and print field errors without rendering")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, err
		}
		return opts, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	log, err := logger.New(&logger.Config{
		Level:      opts.logLevel,
		Format:     "console",
		TimeFormat: "2006-01-02 15:04:05",
		Writer:     stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = log.Sync()
	}()
	log = log.With(zap.String("render_id", uuid.NewString()))

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	req, err := readRequest(opts.in, stdin)
	if err != nil {
		return err
	}

	service, err := newService(cfg, log)
	if err != nil {
		return err
	}

	if opts.validateOnly {
		return validate(ctx, service, req, stdout)
	}

	doc, err := service.Generate(ctx, req)
	if err != nil {
		var validationErr *invoiceapp.ValidationError
		if errors.As(err, &validationErr) {
			printFieldErrors(stderr, validationErr.Fields, validationErr.FieldNames())
		}
		return err
	}

	if err := writeOutput(opts.out, stdout, doc.Data); err != nil {
		return err
	}
	log.Info("Invoice written",
		zap.String("out", opts.out),
		zap.Int("size_bytes", doc.Size),
		zap.String("subtotal", doc.Subtotal),
	)
	return nil
}

func newService(cfg *config.Config, log *zap.Logger) (*invoiceapp.Service, error) {
	pageLayout, err := layout.FromConfig(&cfg.Printing)
	if err != nil {
		return nil, err
	}
	renderer, err := layout.NewEngine(pageLayout,
		layout.WithCanvasFactory(layout.PDFCanvasFactory(infraprinting.PDFCanvasConfig{
			FontFamily: cfg.Printing.FontFamily,
			Creator:    cfg.Printing.Creator,
			Timestamp:  cfg.Printing.DocumentTimestamp,
			Compress:   cfg.Printing.Compress,
			Logger:     log,
		})),
		layout.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return invoiceapp.NewService(renderer, invoiceapp.WithLogger(log)), nil
}

func readRequest(path string, stdin io.Reader) (*invoiceapp.GenerateRequest, error) {
	r := stdin
	if path != stdio {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open invoice: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req invoiceapp.GenerateRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("failed to decode invoice JSON: %w", err)
	}
	return &req, nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == stdio {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func validate(ctx context.Context, service *invoiceapp.Service, req *invoiceapp.GenerateRequest, stdout io.Writer) error {
	resp, err := service.Validate(ctx, req)
	if err != nil {
		return err
	}
	if resp.Valid {
		fmt.Fprintf(stdout, "valid, subtotal %s\n", resp.Subtotal)
		return nil
	}

	validationErr := &invoiceapp.ValidationError{Fields: resp.Errors}
	printFieldErrors(stdout, validationErr.Fields, validationErr.FieldNames())
	return validationErr
}

func printFieldErrors(w io.Writer, fields map[string]string, names []string) {
	for _, name := range names {
		fmt.Fprintf(w, "%s: %s\n", name, fields[name])
	}
}
