package reopen_booking

import (
	"context"

	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

type ReopenUseCase interface {
	Reopen(ctx context.Context, req *lifecycle.ReopenRequest) (*lifecycle.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
