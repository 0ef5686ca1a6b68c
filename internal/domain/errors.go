package domain

import (
	"errors"
	"strings"
)

// Тексты ошибок валидации входят в контракт API и возвращаются клиенту
// в массиве errors как есть.
var (
	// Ошибка отсутствующего блока customer в запросе.
	ErrCustomerRequired = errors.New("Customer info is required.")
	// Ошибка пустого (после трима) имени клиента.
	ErrCustomerNameRequired = errors.New("Customer name is required.")
	// Ошибка синтаксически некорректного email.
	ErrCustomerEmailInvalid = errors.New("Invalid customer email.")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("At least one order item is required.")
	// Ошибка при некорректном количестве в позиции (<= 0).
	ErrItemQuantityInvalid = errors.New("Quantity must be > 0")
	// Ошибка при некорректной цене позиции (<= 0).
	ErrItemPriceInvalid = errors.New("UnitPrice must be > 0")

	// ErrDuplicateRequest возвращается, когда request_id уже был обработан.
	ErrDuplicateRequest = errors.New("duplicate order request")
)

// ValidationError агрегирует все нарушения правил валидации одного запроса.
type ValidationError struct {
	Violations []error
}

func (e *ValidationError) Error() string {
	msgs := e.Messages()
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages возвращает тексты нарушений в порядке проверок.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Violations))
	for _, violation := range e.Violations {
		msgs = append(msgs, violation.Error())
	}
	return msgs
}

// IsDuplicateRequest проверяет, является ли ошибка нарушением идемпотентности.
func IsDuplicateRequest(err error) bool {
	return errors.Is(err, ErrDuplicateRequest)
}
