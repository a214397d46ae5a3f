package handlers

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HouseBooking/internal/domain"
)

const (
	msgValidation        = "некорректные данные запроса"
	msgConflict          = "даты уже заняты другим бронированием"
	msgPastItem          = "бронирование уже в прошлом"
	msgNotFound          = "бронирование не найдено"
	msgForbidden         = "доступ запрещен"
	msgInvalidTransition = "операция недопустима в текущем статусе"
)

// ValidationDetails поле и причина ошибки валидации
type ValidationDetails struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ConflictDetails кто держит пересекающиеся даты
type ConflictDetails struct {
	BookingID string `json:"bookingId"`
	FirstName string `json:"firstName"`
	Status    string `json:"status"`
}

// RespondDomainError переводит типизированную ошибку домена в HTTP ответ
// Возвращает статус, чтобы вызывающий мог выбрать уровень логирования
func RespondDomainError(w http.ResponseWriter, err error) int {
	var (
		validationErr *domain.ValidationError
		conflictErr   *domain.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		RespondErrorDetails(w, http.StatusBadRequest, msgValidation,
			ValidationDetails{Field: validationErr.Field, Reason: validationErr.Reason})
		return http.StatusBadRequest

	case errors.As(err, &conflictErr):
		RespondErrorDetails(w, http.StatusConflict, msgConflict, ConflictDetails{
			BookingID: conflictErr.BookingID.String(),
			FirstName: conflictErr.FirstName,
			Status:    string(conflictErr.Status),
		})
		return http.StatusConflict

	case errors.Is(err, domain.ErrPastItem):
		RespondError(w, http.StatusUnprocessableEntity, msgPastItem)
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrNotFound):
		RespondNotFound(w, msgNotFound)
		return http.StatusNotFound

	case errors.Is(err, domain.ErrForbidden):
		RespondForbidden(w, msgForbidden)
		return http.StatusForbidden

	case errors.Is(err, domain.ErrInvalidTransition):
		RespondError(w, http.StatusConflict, msgInvalidTransition)
		return http.StatusConflict

	default:
		RespondInternalError(w)
		return http.StatusInternalServerError
	}
}
