package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ledgerbook/backend/internal/domain/finance"
	"github.com/ledgerbook/backend/internal/domain/report"
	"github.com/ledgerbook/backend/internal/domain/shared"
	"github.com/ledgerbook/backend/internal/infrastructure/logger"
	"github.com/ledgerbook/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ReportCache stores rendered reports per user.
// InvalidateUser drops every report of a user at once and moves the user to a
// new generation. Get returns the generation it read from; a report built after
// a miss is stored with that generation so it is never served once a later
// invalidation has happened.
type ReportCache interface {
	Get(ctx context.Context, userID uuid.UUID, key string, dest any) (gen int64, hit bool, err error)
	Set(ctx context.Context, userID uuid.UUID, gen int64, key string, value any) error
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}

// CashFlowResult is the cash-flow report with its metadata
type CashFlowResult struct {
	Meta report.Meta `json:"meta"`
	report.CashFlowReport
}

// IncomeResult is the income report with its metadata
type IncomeResult struct {
	Meta report.Meta `json:"meta"`
	report.IncomeReport
}

// ExpenseResult is the expense report with its metadata
type ExpenseResult struct {
	Meta report.Meta `json:"meta"`
	report.ExpenseReport
}

// ReportService resolves the reporting window, reads the ledger and runs the report engines
type ReportService struct {
	ledger  report.LedgerReader
	cache   ReportCache
	metrics *telemetry.LedgerMetrics
}

// NewReportService creates a new ReportService
func NewReportService(ledger report.LedgerReader) *ReportService {
	return &ReportService{ledger: ledger}
}

// SetCache sets the cache reports are served from
func (s *ReportService) SetCache(cache ReportCache) {
	s.cache = cache
}

// SetMetrics sets the instruments report durations are recorded on
func (s *ReportService) SetMetrics(metrics *telemetry.LedgerMetrics) {
	s.metrics = metrics
}

// CashFlow classifies payments, asset movements and (for companies) owner equity
// inside the window into operating, investing and financing flows.
func (s *ReportService) CashFlow(ctx context.Context, caller shared.Caller, q report.RangeQuery, now time.Time) (*CashFlowResult, error) {
	return generate(ctx, s, report.TypeCashFlow, caller, q, now,
		func(ctx context.Context, r report.DateRange) (*CashFlowResult, error) {
			entries, err := s.ledger.PaymentsInRange(ctx, caller.UserID, r)
			if err != nil {
				return nil, err
			}
			acquisitions, err := s.ledger.AssetsAcquiredInRange(ctx, caller.UserID, r)
			if err != nil {
				return nil, err
			}
			disposals, err := s.ledger.AssetsDisposedInRange(ctx, caller.UserID, r)
			if err != nil {
				return nil, err
			}
			var equity []finance.OwnerEquity
			if caller.IncludesOwnerEquity() {
				if equity, err = s.ledger.OwnerEquityInRange(ctx, caller.UserID, r); err != nil {
					return nil, err
				}
			}

			body := report.BuildCashFlowReport(report.CashFlowInput{
				Range:               r,
				Entries:             entries,
				Acquisitions:        acquisitions,
				Disposals:           disposals,
				Equity:              equity,
				IncludesOwnerEquity: caller.IncludesOwnerEquity(),
			})
			return &CashFlowResult{
				Meta:           report.NewMeta(report.TypeCashFlow, caller, r, len(body.Data), now),
				CashFlowReport: body,
			}, nil
		})
}

// Income reports earned revenue from sales, accepted quotations and other income
func (s *ReportService) Income(ctx context.Context, caller shared.Caller, q report.RangeQuery, now time.Time) (*IncomeResult, error) {
	return generate(ctx, s, report.TypeIncome, caller, q, now,
		func(ctx context.Context, r report.DateRange) (*IncomeResult, error) {
			sales, err := s.ledger.SalesInRange(ctx, caller.UserID, r, finance.IncomeStatuses)
			if err != nil {
				return nil, err
			}
			quotations, err := s.ledger.QuotationsInRange(ctx, caller.UserID, r, finance.IncomeStatuses)
			if err != nil {
				return nil, err
			}
			incomes, err := s.ledger.IncomeRecordsInRange(ctx, caller.UserID, r)
			if err != nil {
				return nil, err
			}

			body := report.BuildIncomeReport(report.IncomeInput{
				Range:      r,
				Sales:      sales,
				Quotations: quotations,
				Incomes:    incomes,
			})
			return &IncomeResult{
				Meta:         report.NewMeta(report.TypeIncome, caller, r, len(body.Data), now),
				IncomeReport: body,
			}, nil
		})
}

// Expense reports purchases and other-expense payments with their deductible split
func (s *ReportService) Expense(ctx context.Context, caller shared.Caller, q report.RangeQuery, now time.Time) (*ExpenseResult, error) {
	return generate(ctx, s, report.TypeExpense, caller, q, now,
		func(ctx context.Context, r report.DateRange) (*ExpenseResult, error) {
			purchases, err := s.ledger.PurchasesInRange(ctx, caller.UserID, r)
			if err != nil {
				return nil, err
			}
			expenses, err := s.ledger.ExpensePaymentsInRange(ctx, caller.UserID, r)
			if err != nil {
				return nil, err
			}

			body := report.BuildExpenseReport(report.ExpenseInput{
				Range:     r,
				Purchases: purchases,
				Expenses:  expenses,
			})
			return &ExpenseResult{
				Meta:          report.NewMeta(report.TypeExpense, caller, r, len(body.Data), now),
				ExpenseReport: body,
			}, nil
		})
}

// generate wraps a report build with range resolution, caching, tracing and metrics
func generate[T any](
	ctx context.Context,
	s *ReportService,
	reportType report.Type,
	caller shared.Caller,
	q report.RangeQuery,
	now time.Time,
	build func(context.Context, report.DateRange) (*T, error),
) (*T, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", string(reportType),
		telemetry.AttrUserID, caller.UserID.String(),
		telemetry.AttrReportType, string(reportType),
	)
	defer span.End()
	started := time.Now()

	if err := caller.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	r, err := report.ResolveDateRange(q, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.AttrRange, string(r.Name))

	log := logger.L(ctx).With(zap.String("report", string(reportType)), zap.String("range", string(r.Name)))
	key := cacheKey(reportType, caller, r)

	// The generation is taken before the ledger is read so a payment committed
	// during the build leaves this result under a generation nobody reads.
	var (
		gen      int64
		cachable bool
	)
	if s.cache != nil {
		var cached T
		g, hit, err := s.cache.Get(ctx, caller.UserID, key, &cached)
		if err != nil {
			log.Warn("report cache read failed", zap.Error(err))
		}
		gen, cachable = g, err == nil
		if hit {
			telemetry.SetAttributes(span, telemetry.AttrCacheHit, true)
			s.metrics.ReportGenerated(ctx, string(reportType), true, time.Since(started))
			return &cached, nil
		}
	}

	result, err := build(ctx, r)
	if err != nil {
		telemetry.RecordError(span, err)
		log.Error("report generation failed", zap.Error(err))
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.AttrCacheHit, false)
	s.metrics.ReportGenerated(ctx, string(reportType), false, time.Since(started))

	if cachable {
		if err := s.cache.Set(ctx, caller.UserID, gen, key, result); err != nil {
			log.Warn("report cache write failed", zap.Error(err))
		}
	}
	log.Debug("report generated", zap.Duration("took", time.Since(started)))
	return result, nil
}

func cacheKey(reportType report.Type, caller shared.Caller, r report.DateRange) string {
	return fmt.Sprintf("%s:%s:%s:%d:%d",
		reportType, caller.RegistrationType, r.Name, r.Start.Unix(), r.End.Unix())
}
