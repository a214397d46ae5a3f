package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

type CancelUseCase interface {
	Cancel(ctx context.Context, req *lifecycle.CancelRequest) (*lifecycle.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
