package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cryptobud/cryptobud/internal/domain"
	"github.com/cryptobud/cryptobud/internal/infrastructure/metrics"
	"github.com/cryptobud/cryptobud/internal/tax"
)

// ReportUseCase computes tax reports over a user's stored transactions.
// The computation itself is pure; this layer adds storage access and
// per-user result caching.
type ReportUseCase struct {
	transactionRepo TransactionRepository
	cache           Cache
	metrics         *metrics.Metrics
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(transactionRepo TransactionRepository, cache Cache, metrics *metrics.Metrics) *ReportUseCase {
	return &ReportUseCase{
		transactionRepo: transactionRepo,
		cache:           cache,
		metrics:         metrics,
	}
}

// YearlyReport computes the user's tax report for one calendar year.
// Results are cached; any import or delete invalidates the cache.
func (uc *ReportUseCase) YearlyReport(ctx context.Context, userID string, year int) (*domain.YearlyTaxReport, error) {
	if err := domain.ValidateYear(year); err != nil {
		return nil, err
	}

	key := reportCacheKey(userID, year)
	if cached, err := uc.cache.Get(ctx, key); err == nil && cached != nil {
		var report domain.YearlyTaxReport
		if err := json.Unmarshal(cached, &report); err == nil {
			if uc.metrics != nil {
				uc.metrics.ReportCacheHits.Inc()
			}
			return &report, nil
		}
		// Undecodable cache entries are dropped and recomputed.
		_ = uc.cache.Delete(ctx, key)
	}
	if uc.metrics != nil {
		uc.metrics.ReportCacheMiss.Inc()
	}

	start := time.Now()

	transactions, err := uc.transactionRepo.AllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report, err := tax.ComputeYearlyReport(transactions, year)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ReportsComputed.Inc()
		uc.metrics.ReportDuration.Observe(time.Since(start).Seconds())
	}

	if encoded, err := json.Marshal(report); err == nil {
		if err := uc.cache.Set(ctx, key, encoded, ReportCacheTTL); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Int("year", year).
				Msg("failed to cache report")
		}
	}

	return report, nil
}

// UpcomingExemptions projects the user's still-open lots onto their
// holding-period threshold dates. Never cached: the result depends on asOf.
func (uc *ReportUseCase) UpcomingExemptions(ctx context.Context, userID string, asOf time.Time) ([]domain.Exemption, error) {
	transactions, err := uc.transactionRepo.AllByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExemptionsListed.Inc()
	}

	return tax.ProjectUpcomingExemptions(transactions, asOf)
}

func reportCachePrefix(userID string) string {
	return "report:" + userID + ":"
}

func reportCacheKey(userID string, year int) string {
	return fmt.Sprintf("%s%d", reportCachePrefix(userID), year)
}
