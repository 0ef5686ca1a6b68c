package domain

import "github.com/google/uuid"

// CustomerInfo — данные клиента из входящего запроса.
// Email служит естественным ключом дедупликации клиентов.
type CustomerInfo struct {
	Name  string
	Email string
}

// LineItem представляет одну позицию входящего заказа.
type LineItem struct {
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// OrderRequest — транзиентный запрос на создание заказа.
// RequestID — клиентский ключ идемпотентности, уникальный среди всех заказов.
type OrderRequest struct {
	RequestID uuid.UUID
	Customer  *CustomerInfo
	Items     []LineItem
}

// TotalAmount считает сумму заказа как Σ quantity × unitPrice.
// Сумма фиксируется до записи строк и позже не пересчитывается.
func (r *OrderRequest) TotalAmount() float64 {
	var total float64
	for _, item := range r.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total
}

// Customer — сохранённая запись клиента. Создаётся лениво при первом
// заказе с новым email и после этого не обновляется и не удаляется.
type Customer struct {
	CustomerID int64
	Name       string
	Email      string
}

// Order — сохранённый заказ с суррогатным идентификатором.
type Order struct {
	OrderID     int64
	CustomerID  int64
	RequestID   uuid.UUID
	TotalAmount float64
}

// OrderItem принадлежит ровно одному заказу; отдельного жизненного цикла
// у позиции нет, удаление возможно только каскадом вместе с заказом.
type OrderItem struct {
	OrderID     int64
	ProductName string
	Quantity    int
	UnitPrice   float64
}

// NewOrder — провалидированный вход гейтвея персистентности.
// TotalAmount уже вычислен вызывающей стороной.
type NewOrder struct {
	RequestID   uuid.UUID
	Customer    CustomerInfo
	Items       []LineItem
	TotalAmount float64
}

// CreatedOrder — результат успешной записи заказа.
type CreatedOrder struct {
	OrderID     int64
	CustomerID  int64
	TotalAmount float64
}
