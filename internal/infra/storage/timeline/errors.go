package timeline

import "errors"

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("timeline.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("timeline.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("timeline.repository: failed to scan row")

	// ErrPayload возвращается при ошибке (де)сериализации payload
	ErrPayload = errors.New("timeline.repository: invalid payload")
)
