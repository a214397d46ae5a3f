package get_digest

import (
	"context"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

type DigestUseCase interface {
	ListDigest(ctx context.Context) ([]domain.PartyDigest, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
