package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/app/config"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/domain"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/infras/adminapi"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/infras/pacer"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/report"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/seed"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/usecase"
)

type app struct {
	logger  *slog.Logger
	config  *config.Config
	seeds   []domain.AreaSeed
	printer *report.Printer

	usecase usecase.UseCase
}

// New wires the admin API client, pacing and report printer around seeds.
// A nil httpClient builds one from the configured timeout.
func New(
	config *config.Config,
	seeds []domain.AreaSeed,
	httpClient *http.Client,
	out io.Writer,
	logger *slog.Logger,
) *app {
	printer := report.NewPrinter(out, config.RunConfig.Currency)

	api := adminapi.NewAdminAPI(&config.APIConfig, httpClient, logger)
	fixedDelay := pacer.NewFixedDelay(config.RunConfig.RequestDelay, logger)
	retrier := pacer.NewRetrier(config.RetryConfig.MaxTries, config.RetryConfig.InitialInterval, logger)

	usecase := usecase.NewUseCase(api, fixedDelay, retrier, printer, config.RunConfig.DefaultEstimatedTime, logger)

	return &app{
		logger:  logger,
		config:  config,
		seeds:   seed.WithDefaults(seeds, config.RunConfig.DefaultEstimatedTime),
		printer: printer,
		usecase: usecase,
	}
}

// Run creates every seed, verifies them and lists the remote collection. It
// only fails on context cancellation or when the report cannot be written;
// failed creates and missing areas are reported, not returned.
func (a *app) Run(ctx context.Context) error {
	logger := a.logger.With(slog.String("stage", "run"))

	if err := seed.Validate(a.seeds); err != nil {
		logger.Warn("seed list has invalid entries", slog.Any("error", err))
	}
	if duplicates := seed.Duplicates(a.seeds); len(duplicates) > 0 {
		logger.Warn("seed list has duplicate names", slog.Any("names", duplicates))
	}

	a.printer.Header(a.config.APIConfig.Endpoint(), a.config.APIConfig.APIKey, len(a.seeds))
	a.printer.CreateStageStarted(len(a.seeds))

	summary, err := a.usecase.CreateAll(ctx, a.seeds)
	if err != nil {
		return fmt.Errorf("creating delivery areas: %w", err)
	}

	a.printer.CreateSummary(summary)
	if err := summary.Err(); err != nil {
		logger.Warn("some delivery areas failed to be created", slog.Int("failed", len(summary.Failed)), slog.Any("error", err))
	}

	allAdded := a.VerifyAllAdded(ctx)
	a.DisplayAllAreas(ctx)

	a.printer.Final(allAdded)
	if !allAdded {
		logger.Warn("some delivery areas may be missing")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := a.printer.Err(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

// VerifyAllAdded reports which seeds exist remotely and returns true only when
// the fetch succeeded and none is missing.
func (a *app) VerifyAllAdded(ctx context.Context) bool {
	a.printer.VerifyStageStarted()

	verifyReport, err := a.usecase.Verify(ctx, a.seeds)
	if err != nil {
		a.printer.FetchFailed(err)
		return false
	}

	a.printer.Verification(verifyReport)
	return verifyReport.AllFound()
}

// DisplayAllAreas prints every remote area sorted by fee. It is informational
// and never fails the run.
func (a *app) DisplayAllAreas(ctx context.Context) {
	a.printer.ListStageStarted()

	areas, err := a.usecase.ListByFee(ctx)
	if err != nil {
		a.printer.FetchFailed(err)
		return
	}

	a.printer.Table(areas)
}

// Inspect prints the raw answers of the collection endpoint under each
// credential combination. Unanswered requests are reported, not returned.
func (a *app) Inspect(ctx context.Context) error {
	a.printer.InspectStageStarted(a.config.APIConfig.Endpoint())

	inspections, err := a.usecase.Inspect(ctx)
	for i, inspection := range inspections {
		a.printer.Inspection(i, inspection)
	}
	if err != nil {
		return fmt.Errorf("inspecting endpoint: %w", err)
	}

	return a.printer.Err()
}

// Err returns the first error met while writing the report.
func (a *app) Err() error {
	return a.printer.Err()
}
