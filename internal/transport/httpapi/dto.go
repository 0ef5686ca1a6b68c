package httpapi

import "github.com/vladislavdragonenkov/order-intake/internal/domain"

// Коды ошибок публичного контракта.
const (
	errorCodeInternal   = 1000
	errorCodeValidation = 1001
	errorCodeDuplicate  = 1002
)

// CreateOrderRequest — тело POST /api/v1/orders.
// RequestId принимается строкой и парсится вручную: невалидный UUID должен
// давать ошибку валидации, а не голую ошибку декодера JSON.
type CreateOrderRequest struct {
	RequestID string           `json:"requestId"`
	Customer  *CustomerPayload `json:"customer"`
	Items     []ItemPayload    `json:"items"`
}

type CustomerPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ItemPayload struct {
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

// CreateOrderResponse — успешный ответ (200 OK).
type CreateOrderResponse struct {
	OrderID int64  `json:"orderId"`
	Message string `json:"message"`
}

// ValidationErrorResponse — ответ 400 с накопленным списком нарушений.
type ValidationErrorResponse struct {
	ErrorCode int      `json:"errorCode"`
	Errors    []string `json:"errors"`
}

// ErrorResponse — ответ 409/500 с одним сообщением.
type ErrorResponse struct {
	ErrorCode int    `json:"errorCode"`
	Message   string `json:"message"`
}

func (r *CreateOrderRequest) toDomain() domain.OrderRequest {
	req := domain.OrderRequest{
		Items: make([]domain.LineItem, len(r.Items)),
	}
	if r.Customer != nil {
		req.Customer = &domain.CustomerInfo{
			Name:  r.Customer.Name,
			Email: r.Customer.Email,
		}
	}
	for i, item := range r.Items {
		req.Items[i] = domain.LineItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return req
}
