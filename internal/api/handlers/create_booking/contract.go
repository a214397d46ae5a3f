package create_booking

import (
	"context"

	"github.com/m04kA/SMC-HouseBooking/internal/usecase/lifecycle"
)

type SubmitUseCase interface {
	Submit(ctx context.Context, req *lifecycle.SubmitRequest) (*lifecycle.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
