// Package processor is the statement normalization engine: it takes a bank
// selector and a decoded grid and returns the normalized statement.
// It performs no I/O and holds no state between calls.
package processor

import (
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/bank"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/builder"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/grid"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/sniffer"
)

type options struct {
	skipContentCheck bool
}

// Option adjusts a single Process call
type Option func(*options)

// WithoutContentCheck disables the check that the grid mentions the selected bank
func WithoutContentCheck() Option {
	return func(o *options) { o.skipContentCheck = true }
}

// Process validates the selector and normalizes the grid.
//
// Errors wrap bank.ErrUnsupportedBank, bank.ErrBankMismatch,
// sniffer.ErrHeaderNotFound or sniffer.ErrDateColumnMissing. Row level
// defects are never errors; they are counted in the result diagnostics.
func Process(selector string, g grid.Grid, opts ...Option) (*model.Result, error) {
	sel, err := bank.Parse(selector)
	if err != nil {
		return nil, err
	}
	return ProcessSelection(sel, g, opts...)
}

// ProcessSelection normalizes the grid for an already validated bank
func ProcessSelection(sel bank.Selection, g grid.Grid, opts ...Option) (*model.Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cleaned := grid.Clean(g)

	if !o.skipContentCheck {
		if err := bank.CheckContent(sel.ID, cleaned); err != nil {
			return nil, err
		}
	}

	frame, err := sniffer.Sniff(cleaned)
	if err != nil {
		return nil, err
	}

	meta := bank.ExtractMetadata(sel, cleaned[:frame.HeaderRow])
	txs, diag := builder.Build(cleaned, frame.HeaderRow, frame.Columns)

	return &model.Result{
		Meta:         meta,
		Transactions: txs,
		Diagnostics:  diag,
	}, nil
}
