package usecase

import (
	"context"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/domain"
)

type (
	AdminAPI interface {
		CreateDeliveryArea(ctx context.Context, input *domain.CreateDeliveryAreaInput) (*domain.CreateDeliveryAreaResult, error)
		ListDeliveryAreas(ctx context.Context) ([]domain.RemoteArea, error)
		Inspect(ctx context.Context, mode domain.AuthMode) (*domain.RawResponse, error)
	}

	Pacer interface {
		Wait(ctx context.Context) error
	}

	Retrier interface {
		Do(ctx context.Context, op func() error) error
	}

	Reporter interface {
		CreateStarted(index, total int, seed domain.AreaSeed)
		CreateFinished(index, total int, outcome domain.CreateOutcome)
	}

	UseCase interface {
		CreateArea(ctx context.Context, seed domain.AreaSeed) domain.CreateOutcome
		CreateAll(ctx context.Context, seeds []domain.AreaSeed) (*domain.CreateSummary, error)
		Verify(ctx context.Context, seeds []domain.AreaSeed) (*domain.VerifyReport, error)
		ListByFee(ctx context.Context) ([]domain.RemoteArea, error)
		Inspect(ctx context.Context) ([]domain.Inspection, error)
	}
)
