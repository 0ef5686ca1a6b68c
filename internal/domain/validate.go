package domain

import (
	"net/mail"
	"strings"
)

// Validate проверяет корректность запроса и возвращает список всех
// нарушений (пустой список означает валидный запрос). Проверки не
// останавливаются на первой ошибке; позиции проверяются поштучно, но
// только если список позиций вообще присутствует.
//
// Отсутствующий блок customer намеренно проваливает и проверки имени и
// email: так вёл себя исходный сервис, и клиенты полагаются на полный
// список ошибок в ответе.
func (r *OrderRequest) Validate() []error {
	var errs []error

	var name, email string
	if r.Customer == nil {
		errs = append(errs, ErrCustomerRequired)
	} else {
		name = r.Customer.Name
		email = r.Customer.Email
	}

	if strings.TrimSpace(name) == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if !validEmail(email) {
		errs = append(errs, ErrCustomerEmailInvalid)
	}

	if len(r.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	} else {
		for _, item := range r.Items {
			if item.Quantity <= 0 {
				errs = append(errs, ErrItemQuantityInvalid)
			}
			if item.UnitPrice <= 0 {
				errs = append(errs, ErrItemPriceInvalid)
			}
		}
	}

	return errs
}

// validEmail разбирает адрес и требует, чтобы разобранная форма совпадала
// со входной строкой: display name, угловые скобки и прочие украшения
// RFC 5322 не принимаются.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
