// Package service orchestrates statement conversion: selector validation,
// unsupported bank reporting, resource retrieval, decoding, normalization
// and run bookkeeping.
package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/blake2b"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/bank"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/notifier"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/processor"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/repository"
	"github.com/FACorreiaa/statement-processor/pkg/metrics"
	"github.com/FACorreiaa/statement-processor/pkg/storage"
)

var (
	ErrMissingInput        = errors.New("missing input")
	ErrFetchFailed         = errors.New("failed to fetch resource")
	ErrResourceTooLarge    = errors.New("resource exceeds size limit")
	ErrPersistenceDisabled = errors.New("run persistence is not enabled")
)

const (
	defaultFetchTimeout = 30 * time.Second
	defaultMaxBytes     = 5 << 20
	notifyTimeout       = 10 * time.Second
)

// ConvertRequest names the bank and where the statement comes from.
// Data takes precedence over ResourceURL when both are set.
type ConvertRequest struct {
	Bank        string
	ResourceURL string
	Filename    string
	ContentType string
	Data        []byte
}

// StatementService converts bank statements
type StatementService struct {
	notifier     notifier.Notifier
	repo         repository.Repository // optional
	store        storage.Storage       // optional
	client       *http.Client
	fetchTimeout time.Duration
	maxBytes     int64
	tracer       trace.Tracer
	logger       *slog.Logger
	now          func() time.Time

	notifyWG sync.WaitGroup
}

// NewStatementService creates a service that reports unsupported banks to n
func NewStatementService(n notifier.Notifier, logger *slog.Logger) *StatementService {
	return &StatementService{
		notifier:     n,
		client:       &http.Client{},
		fetchTimeout: defaultFetchTimeout,
		maxBytes:     defaultMaxBytes,
		tracer:       otel.Tracer("statement.service"),
		logger:       logger,
		now:          time.Now,
	}
}

// WithRepository enables run persistence
func (s *StatementService) WithRepository(repo repository.Repository) *StatementService {
	s.repo = repo
	return s
}

// WithStorage keeps a copy of every uploaded file
func (s *StatementService) WithStorage(store storage.Storage) *StatementService {
	s.store = store
	return s
}

func (s *StatementService) WithHTTPClient(client *http.Client) *StatementService {
	s.client = client
	return s
}

func (s *StatementService) WithFetchTimeout(d time.Duration) *StatementService {
	if d > 0 {
		s.fetchTimeout = d
	}
	return s
}

func (s *StatementService) WithMaxBytes(n int64) *StatementService {
	if n > 0 {
		s.maxBytes = n
	}
	return s
}

// Convert runs one statement through the engine.
//
// An unsupported selector is reported to the notifier in the background
// and returned as an error wrapping bank.ErrUnsupportedBank.
func (s *StatementService) Convert(ctx context.Context, req ConvertRequest) (*model.Result, error) {
	ctx, span := s.tracer.Start(ctx, "Convert")
	defer span.End()

	start := s.now()
	selector := strings.TrimSpace(req.Bank)
	span.SetAttributes(attribute.String("bank.selector", selector))

	if selector == "" {
		return nil, s.fail(span, metrics.BankUnknown, start, fmt.Errorf("%w: bank name is required", ErrMissingInput))
	}

	sel, err := bank.Parse(selector)
	if err != nil {
		if errors.Is(err, bank.ErrUnsupportedBank) {
			s.notifyUnsupported(selector, req.ResourceURL)
		}
		// the selector is client input; it stays out of metric labels
		return nil, s.fail(span, metrics.BankUnknown, start, err)
	}
	label := string(sel.ID)

	if len(req.Data) == 0 && strings.TrimSpace(req.ResourceURL) == "" {
		return nil, s.fail(span, label, start, fmt.Errorf("%w: resource url is required", ErrMissingInput))
	}

	data, name, source, err := s.load(ctx, req)
	if err != nil {
		return nil, s.fail(span, label, start, err)
	}
	fp := Fingerprint(data)
	span.SetAttributes(
		attribute.String("statement.source", source),
		attribute.Int("statement.bytes", len(data)),
		attribute.String("statement.fingerprint", fp),
	)

	if cached := s.previousResult(ctx, label, fp); cached != nil {
		metrics.ObserveStatement(label, metrics.OutcomeSuccess, s.now().Sub(start))
		s.logger.Info("statement served from run history",
			slog.String("bank", label),
			slog.String("fingerprint", fp),
		)
		return cached, nil
	}

	run := runInfo{bank: label, source: source, fingerprint: fp}

	g, err := parser.Decode(data, name)
	if err != nil {
		s.recordRun(ctx, run, nil, err)
		return nil, s.fail(span, label, start, fmt.Errorf("failed to read statement: %w", err))
	}

	result, err := processor.ProcessSelection(sel, g)
	if err != nil {
		s.recordRun(ctx, run, nil, err)
		return nil, s.fail(span, label, start, err)
	}

	diag := result.Diagnostics
	span.SetAttributes(
		attribute.Int("statement.rows_scanned", diag.RowsScanned),
		attribute.Int("statement.transactions", diag.Kept),
		attribute.Int("statement.rows_dropped", diag.DroppedTotal()),
	)
	metrics.ObserveStatement(label, metrics.OutcomeSuccess, s.now().Sub(start))
	metrics.ObserveRows(label, diag.Kept, droppedByReason(diag))

	s.logger.Info("statement processed",
		slog.String("bank", label),
		slog.String("source", source),
		slog.Int("rows_scanned", diag.RowsScanned),
		slog.Int("transactions", diag.Kept),
		slog.Int("rows_dropped", diag.DroppedTotal()),
	)
	for reason, n := range diag.Dropped {
		s.logger.Debug("rows dropped",
			slog.String("bank", label),
			slog.String("reason", string(reason)),
			slog.Int("count", n),
		)
	}

	s.recordRun(ctx, run, result, nil)
	return result, nil
}

// GetRun loads a stored run
func (s *StatementService) GetRun(ctx context.Context, id uuid.UUID) (*repository.Run, error) {
	if s.repo == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.repo.GetRun(ctx, id)
}

// ListRuns returns the newest stored runs, at most limit of them
func (s *StatementService) ListRuns(ctx context.Context, limit int) ([]repository.Run, error) {
	if s.repo == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.repo.ListRecentRuns(ctx, limit)
}

// Wait blocks until pending unsupported bank notifications finish
func (s *StatementService) Wait() {
	s.notifyWG.Wait()
}

func (s *StatementService) notifyUnsupported(selector, resourceURL string) {
	event := notifier.NewEvent(selector, resourceURL, s.now())

	s.notifyWG.Add(1)
	go func() {
		defer s.notifyWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		err := s.notifier.Notify(ctx, event)
		metrics.ObserveNotification(err)
		if err != nil {
			s.logger.Error("failed to report unsupported bank",
				slog.String("bank", event.Bank),
				slog.Any("error", err),
			)
		}
	}()
}

// load returns the statement bytes, a name for format detection and a
// source label for logs and runs
func (s *StatementService) load(ctx context.Context, req ConvertRequest) ([]byte, string, string, error) {
	if len(req.Data) > 0 {
		if int64(len(req.Data)) > s.maxBytes {
			return nil, "", "", ErrResourceTooLarge
		}
		source := req.Filename
		if s.store != nil {
			info, err := s.store.Save(ctx, req.Filename, req.ContentType, bytes.NewReader(req.Data))
			if err != nil {
				return nil, "", "", fmt.Errorf("failed to store upload: %w", err)
			}
			source = info.Path
		}
		return req.Data, req.Filename, source, nil
	}

	data, err := s.fetch(ctx, req.ResourceURL)
	if err != nil {
		return nil, "", "", err
	}
	return data, resourceName(req.ResourceURL), req.ResourceURL, nil
}

func (s *StatementService) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, span := s.tracer.Start(ctx, "FetchResource")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrResourceTooLarge
	}
	return data, nil
}

type runInfo struct {
	bank        string
	source      string
	fingerprint string
}

// Fingerprint identifies statement content independent of its file name
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// previousResult returns the stored result of an identical statement
// already converted for the same bank, or nil
func (s *StatementService) previousResult(ctx context.Context, label, fp string) *model.Result {
	if s.repo == nil {
		return nil
	}
	run, err := s.repo.FindSucceededRun(ctx, label, fp)
	if err != nil {
		if !errors.Is(err, repository.ErrRunNotFound) {
			s.logger.Warn("failed to look up run history", slog.Any("error", err))
		}
		return nil
	}
	if len(run.Result) == 0 {
		return nil
	}

	var result model.Result
	if err := json.Unmarshal(run.Result, &result); err != nil {
		s.logger.Warn("stored run result is unreadable",
			slog.String("run_id", run.ID.String()),
			slog.Any("error", err),
		)
		return nil
	}
	return &result
}

// recordRun persists the outcome when a repository is configured. Storage
// failures are logged and never fail the conversion.
func (s *StatementService) recordRun(ctx context.Context, info runInfo, result *model.Result, procErr error) {
	if s.repo == nil {
		return
	}

	run := repository.Run{
		Bank:        info.bank,
		Source:      info.source,
		Fingerprint: info.fingerprint,
		Status:      repository.StatusSucceeded,
	}
	if procErr != nil {
		msg := procErr.Error()
		run.Status = repository.StatusFailed
		run.Error = &msg
	}
	if result != nil {
		run.Transactions = len(result.Transactions)
		run.RowsDropped = result.Diagnostics.DroppedTotal()
		payload, err := json.Marshal(result)
		if err != nil {
			s.logger.Error("failed to encode run result", slog.Any("error", err))
		} else {
			run.Result = payload
		}
	}

	if _, err := s.repo.CreateRun(ctx, run); err != nil {
		s.logger.Error("failed to record statement run",
			slog.String("bank", info.bank),
			slog.Any("error", err),
		)
	}
}

func (s *StatementService) fail(span trace.Span, label string, start time.Time, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	metrics.ObserveStatement(label, Outcome(err), s.now().Sub(start))
	s.logger.Warn("statement rejected",
		slog.String("bank", label),
		slog.Any("error", err),
	)
	return err
}

// Outcome classifies a conversion error for metrics
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, bank.ErrUnsupportedBank):
		return metrics.OutcomeUnsupported
	case errors.Is(err, bank.ErrBankMismatch):
		return metrics.OutcomeMismatch
	case errors.Is(err, ErrMissingInput), errors.Is(err, ErrResourceTooLarge), errors.Is(err, parser.ErrUnknownFormat):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

func droppedByReason(d model.Diagnostics) map[string]int {
	out := make(map[string]int, len(d.Dropped))
	for reason, n := range d.Dropped {
		out[string(reason)] = n
	}
	return out
}

// resourceName is the last path segment of a URL, used to detect csv files
func resourceName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return path.Base(u.Path)
}
