package decide_booking

import (
	"context"

	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

type DecideUseCase interface {
	Decide(ctx context.Context, req *lifecycle.DecideRequest) (*lifecycle.DecideResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
