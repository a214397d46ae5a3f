package update_booking

import (
	"context"

	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

type EditUseCase interface {
	Edit(ctx context.Context, req *lifecycle.EditRequest) (*lifecycle.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
