package usecase

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/domain"
	internal_error "github.com/aria3ppp/delivery-areas-seeder/internal/areas/error"

	"github.com/samber/lo"
)

const alreadyExistsMarker = "already exists"

type usecase struct {
	api                  AdminAPI
	pacer                Pacer
	retrier              Retrier
	reporter             Reporter
	defaultEstimatedTime int
	logger               *slog.Logger
}

var _ UseCase = (*usecase)(nil)

func NewUseCase(
	api AdminAPI,
	pacer Pacer,
	retrier Retrier,
	reporter Reporter,
	defaultEstimatedTime int,
	logger *slog.Logger,
) *usecase {
	if reporter == nil {
		reporter = nopReporter{}
	}
	return &usecase{
		api:                  api,
		pacer:                pacer,
		retrier:              retrier,
		reporter:             reporter,
		defaultEstimatedTime: defaultEstimatedTime,
		logger:               logger,
	}
}

// CreateArea issues one create call and classifies its result. It never
// returns an error: transport and API failures become Failed outcomes and
// conflicts become AlreadyExists.
func (u *usecase) CreateArea(ctx context.Context, seed domain.AreaSeed) domain.CreateOutcome {
	seed = seed.WithDefaults(u.defaultEstimatedTime)
	logger := u.logger.With(slog.String("usecase", "create_area"), slog.String("name", seed.Name))

	if err := seed.Validate(); err != nil {
		logger.Warn("sending seed that fails local validation", slog.Any("error", err))
	}

	var result *domain.CreateDeliveryAreaResult
	err := u.retrier.Do(ctx, func() error {
		var err error
		result, err = u.api.CreateDeliveryArea(ctx, &domain.CreateDeliveryAreaInput{
			Name:          seed.Name,
			DeliveryFee:   seed.DeliveryFee,
			EstimatedTime: seed.EstimatedTime,
		})
		return err
	})
	if err == nil {
		logger.Debug("delivery area created", slog.String("id", result.ID))
		return domain.Created(seed, result.ID)
	}

	var apiErr *internal_error.APIError
	if errors.As(err, &apiErr) && strings.Contains(apiErr.Message, alreadyExistsMarker) {
		logger.Debug("delivery area already exists", slog.String("message", apiErr.Message))
		return domain.AlreadyExists(seed, apiErr.Message)
	}

	logger.Error("failed to create delivery area", slog.Any("error", err))
	return domain.Failed(seed, err)
}

// CreateAll creates the seeds in order, pacing between attempts. Only context
// cancellation stops it early; the summary built so far is returned with the
// error.
func (u *usecase) CreateAll(ctx context.Context, seeds []domain.AreaSeed) (*domain.CreateSummary, error) {
	logger := u.logger.With(slog.String("usecase", "create_all"))
	logger.Info("creating delivery areas", slog.Int("total", len(seeds)))

	summary := &domain.CreateSummary{}
	for i, seed := range seeds {
		if err := ctx.Err(); err != nil {
			logger.Error("create stage interrupted", slog.Int("done", i), slog.Any("error", err))
			return summary, err
		}

		u.reporter.CreateStarted(i, len(seeds), seed)
		outcome := u.CreateArea(ctx, seed)
		summary.Add(outcome)
		u.reporter.CreateFinished(i, len(seeds), outcome)

		if i < len(seeds)-1 {
			if err := u.pacer.Wait(ctx); err != nil {
				logger.Error("create stage interrupted", slog.Int("done", i+1), slog.Any("error", err))
				return summary, err
			}
		}
	}

	logger.Info("create stage finished",
		slog.Int("created", len(summary.Success)),
		slog.Int("skipped", len(summary.Skipped)),
		slog.Int("failed", len(summary.Failed)),
	)

	return summary, nil
}

// Verify matches every seed against the remote collection by normalized name.
// The first remote area with a matching name wins.
func (u *usecase) Verify(ctx context.Context, seeds []domain.AreaSeed) (*domain.VerifyReport, error) {
	logger := u.logger.With(slog.String("usecase", "verify"))

	remote, err := u.api.ListDeliveryAreas(ctx)
	if err != nil {
		logger.Error("failed to fetch delivery areas", slog.Any("error", err))
		return nil, err
	}

	report := &domain.VerifyReport{
		SeedTotal:   len(seeds),
		RemoteTotal: len(remote),
	}

	for _, seed := range seeds {
		key := seed.Key()
		found, ok := lo.Find(remote, func(area domain.RemoteArea) bool {
			return area.Key() == key
		})
		if !ok {
			report.Missing = append(report.Missing, seed)
			continue
		}

		match := domain.FoundArea{Seed: seed, Remote: found}
		if match.FeeMismatch() {
			logger.Warn("delivery fee mismatch",
				slog.String("name", seed.Name),
				slog.Float64("expected", seed.DeliveryFee),
				slog.Float64("actual", found.DeliveryFee),
			)
		}
		report.Found = append(report.Found, match)
	}

	logger.Info("verification finished",
		slog.Int("found", len(report.Found)),
		slog.Int("missing", len(report.Missing)),
		slog.Int("remote_total", report.RemoteTotal),
	)

	return report, nil
}

// ListByFee fetches the remote collection and sorts it by fee ascending. Areas
// with equal fees keep the server's order.
func (u *usecase) ListByFee(ctx context.Context) ([]domain.RemoteArea, error) {
	logger := u.logger.With(slog.String("usecase", "list_by_fee"))

	areas, err := u.api.ListDeliveryAreas(ctx)
	if err != nil {
		logger.Error("failed to fetch delivery areas", slog.Any("error", err))
		return nil, err
	}

	slices.SortStableFunc(areas, func(a, b domain.RemoteArea) int {
		return cmp.Compare(a.DeliveryFee, b.DeliveryFee)
	})

	return areas, nil
}

// Inspect issues one GET per credential combination. Requests that got no
// answer are recorded on their Inspection; only context cancellation stops it.
func (u *usecase) Inspect(ctx context.Context) ([]domain.Inspection, error) {
	logger := u.logger.With(slog.String("usecase", "inspect"))

	var inspections []domain.Inspection
	for _, mode := range domain.AuthModes() {
		if err := ctx.Err(); err != nil {
			return inspections, err
		}

		response, err := u.api.Inspect(ctx, mode)
		if err != nil {
			logger.Warn("no answer from admin api", slog.String("auth", mode.String()), slog.Any("error", err))
		}
		inspections = append(inspections, domain.Inspection{Mode: mode, Response: response, Err: err})
	}

	return inspections, nil
}

type nopReporter struct{}

func (nopReporter) CreateStarted(int, int, domain.AreaSeed) {}
func (nopReporter) CreateFinished(int, int, domain.CreateOutcome) {}
