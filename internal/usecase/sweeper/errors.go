package sweeper

import "errors"

var (
	// ErrSweep возвращается, когда проход завершился с ошибками
	ErrSweep = errors.New("sweeper: sweep failed")
)
