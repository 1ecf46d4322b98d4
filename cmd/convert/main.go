// Command convert normalizes a bank statement file from disk and prints
// the result as JSON or CSV.
//
//	convert -bank hdfc statement.xlsx
//	convert -bank bob -format csv -o out.csv statement.xls
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/export"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/processor"
	"github.com/FACorreiaa/statement-processor/pkg/money"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
)

type options struct {
	bank             string
	format           string
	output           string
	skipContentCheck bool
	path             string
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		logger.Error("invalid arguments", slog.Any("error", err))
		os.Exit(2)
	}

	if err := run(opts, os.Stdout, logger); err != nil {
		logger.Error("conversion failed", slog.String("file", opts.path), slog.Any("error", err))
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.StringVar(&o.bank, "bank", "", "bank selector (hdfc, bob, iob)")
	fs.StringVar(&o.format, "format", formatJSON, "output format: json or csv")
	fs.StringVar(&o.output, "o", "", "write output to file instead of stdout")
	fs.BoolVar(&o.skipContentCheck, "skip-content-check", false, "do not require the bank name inside the file")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if fs.NArg() != 1 {
		return o, errors.New("expected exactly one statement file")
	}
	o.path = fs.Arg(0)

	if o.bank == "" {
		return o, errors.New("-bank is required")
	}
	if o.format != formatJSON && o.format != formatCSV {
		return o, fmt.Errorf("unknown format %q", o.format)
	}
	return o, nil
}

func run(o options, stdout io.Writer, logger *slog.Logger) error {
	f, err := os.Open(o.path)
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := parser.ReadGrid(f, o.path)
	if err != nil {
		return err
	}

	var popts []processor.Option
	if o.skipContentCheck {
		popts = append(popts, processor.WithoutContentCheck())
	}
	result, err := processor.Process(o.bank, g, popts...)
	if err != nil {
		return err
	}

	out := stdout
	if o.output != "" {
		file, err := os.Create(o.output)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	if err := write(out, o.format, result); err != nil {
		return err
	}

	logSummary(logger, result)
	return nil
}

func write(w io.Writer, format string, result *model.Result) error {
	if format == formatCSV {
		return export.WriteCSV(w, result.Transactions)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func logSummary(logger *slog.Logger, result *model.Result) {
	s := result.Summary()
	logger.Info("statement converted",
		slog.String("bank", result.Meta.BankName),
		slog.String("account", result.Meta.AccountNumber),
		slog.Int("transactions", s.Count),
		slog.Int("rows_dropped", result.Diagnostics.DroppedTotal()),
		slog.String("withdrawn", money.NewFromDecimal(s.TotalWithdrawn, money.INR).Display()),
		slog.String("deposited", money.NewFromDecimal(s.TotalDeposited, money.INR).Display()),
		slog.String("net", money.NewFromDecimal(s.Net(), money.INR).Display()),
		slog.String("closing_balance", money.NewFromDecimal(s.ClosingBalance, money.INR).Display()),
	)
}
