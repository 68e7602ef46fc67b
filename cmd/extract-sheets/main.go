package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a3tai/pdf-sheet-extractor/internal/config"
	"github.com/a3tai/pdf-sheet-extractor/internal/pdf"
)

// Exit codes
const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitNoMatches = 3
)

var errNoMatches = errors.New("no identifier matched any page")

// usageError marks errors caused by how the command was invoked
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

type options struct {
	identifiers string
	month       string
	outputDir   string
	format      string
	maxFileSize int64
	verbose     bool
}

func newRootCmd(stdin io.Reader) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "extract-sheets --identifiers <file> --month <label> <pdf_file>",
		Short: "Split per-person sheets out of a combined PDF",
		Long: `extract-sheets looks up each identifier in page order (case-insensitive) and
saves its first matching page as <identifier>_<month>.pdf in the output
directory.

Identifiers come from a text file with one per line, from the first column of
an .xlsx workbook, or from stdin when the file is '-'.

Exit codes: 0 at least one extract written, 1 the batch failed,
2 invalid usage, 3 no identifier matched any page.`,
		Example: `  extract-sheets -i empleados.txt -m Enero nomina.pdf
  extract-sheets -i empleados.xlsx -m Febrero -o out nomina.pdf
  cat ids.txt | extract-sheets -i - -m Marzo --format json certificados.pdf`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageErrorf("exactly one PDF file path required")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, stdin, opts, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.identifiers, "identifiers", "i", "", "file with one identifier per line, an .xlsx workbook, or '-' for stdin")
	flags.StringVarP(&opts.month, "month", "m", "", "month label appended to every extract filename")
	flags.StringVarP(&opts.outputDir, "output", "o", config.DefaultOutputDirectory, "directory the extracts are written to")
	flags.StringVar(&opts.format, "format", "text", "output format: text, json")
	flags.Int64Var(&opts.maxFileSize, "maxfilesize", config.DefaultMaxFileSize, "maximum PDF file size in bytes")
	flags.BoolVarP(&opts.verbose, "verbose", "V", false, "log each identifier as it is processed")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	return cmd
}

func runExtract(cmd *cobra.Command, stdin io.Reader, opts *options, pdfPath string) error {
	if opts.identifiers == "" || opts.month == "" {
		return usageErrorf("--identifiers and --month are required")
	}
	if opts.format != "text" && opts.format != "json" {
		return usageErrorf("unknown format %q", opts.format)
	}

	identifiers, err := loadIdentifiers(opts.identifiers, stdin)
	if err != nil {
		return fmt.Errorf("reading identifiers: %w", err)
	}

	logger := zap.NewNop()
	if opts.verbose {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.OutputPaths = []string{"stderr"}
		if logger, err = zcfg.Build(); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}

	service, err := pdf.NewService(opts.maxFileSize, opts.outputDir, logger)
	if err != nil {
		return err
	}

	result, err := service.ExtractSheetsFromFile(cmd.Context(), pdfPath, &identifiers, &opts.month)
	if err != nil {
		return fmt.Errorf("extracting sheets: %w", err)
	}

	if err := outputResults(cmd.OutOrStdout(), opts.format, result); err != nil {
		return fmt.Errorf("outputting results: %w", err)
	}

	if len(result.Files) == 0 {
		return errNoMatches
	}
	return nil
}

func loadIdentifiers(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		return pdf.ReadIdentifiers(stdin)
	}
	return pdf.ReadIdentifiersFile(path)
}

func outputResults(w io.Writer, format string, result *pdf.ExtractSheetsResult) error {
	if format == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Pages scanned: %d\n", result.Pages)
	fmt.Fprintf(&sb, "Output directory: %s\n", result.OutputDirectory)
	fmt.Fprintf(&sb, "Extracts written: %d\n", len(result.Files))
	for _, name := range result.Files {
		fmt.Fprintf(&sb, "  %s\n", name)
	}
	if len(result.Unmatched) > 0 {
		fmt.Fprintf(&sb, "Unmatched: %d\n", len(result.Unmatched))
		for _, id := range result.Unmatched {
			fmt.Fprintf(&sb, "  %s\n", id)
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// execute runs the command and maps its outcome to an exit code
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)

	var usageErr usageError
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errNoMatches):
		return exitNoMatches
	case errors.As(err, &usageErr):
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		fmt.Fprint(stderr, cmd.UsageString())
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
