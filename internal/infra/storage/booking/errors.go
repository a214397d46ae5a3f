package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-HouseBooking/pkg/txmanager"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrVersionConflict возвращается, когда версия строки изменилась после чтения
	// Оборачивает txmanager.ErrConcurrentUpdate, поэтому транзакция будет повторена
	ErrVersionConflict = fmt.Errorf("booking.repository: version conflict: %w", txmanager.ErrConcurrentUpdate)

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrIncompleteQuorum возвращается, если у бронирования не три строки согласования
	ErrIncompleteQuorum = errors.New("booking.repository: booking must have exactly three approvals")
)
