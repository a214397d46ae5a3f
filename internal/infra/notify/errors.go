package notify

import "errors"

var (
	// ErrMarshal возвращается при ошибке сериализации сообщения
	ErrMarshal = errors.New("notify: failed to marshal message")

	// ErrPublish возвращается, если Redis не принял сообщение
	ErrPublish = errors.New("notify: failed to publish message")
)
