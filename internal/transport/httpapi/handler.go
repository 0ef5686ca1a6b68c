package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/order-intake/internal/domain"
)

// OrderCreator — вход обработчика приёма; реализуется intake.Service.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.CreatedOrder, error)
}

// Handler принимает HTTP-запросы на создание заказа и переводит результаты
// доменного слоя в коды и тела публичного контракта.
type Handler struct {
	intake OrderCreator
	logger *log.Entry
}

func NewHandler(intake OrderCreator, logger *log.Entry) *Handler {
	if logger == nil {
		logger = log.WithField("component", "httpapi")
	}
	return &Handler{intake: intake, logger: logger}
}

// CreateOrder — POST /api/v1/orders.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var body CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			ErrorCode: errorCodeValidation,
			Errors:    []string{"Invalid request body."},
		})
		return
	}

	requestID, err := uuid.Parse(body.RequestID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			ErrorCode: errorCodeValidation,
			Errors:    []string{"RequestId must be a valid UUID."},
		})
		return
	}

	req := body.toDomain()
	req.RequestID = requestID

	created, err := h.intake.CreateOrder(r.Context(), req)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CreateOrderResponse{
		OrderID: created.OrderID,
		Message: "Order created successfully.",
	})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, ValidationErrorResponse{
			ErrorCode: errorCodeValidation,
			Errors:    vErr.Messages(),
		})
	case domain.IsDuplicateRequest(err):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			ErrorCode: errorCodeDuplicate,
			Message:   "Duplicate order detected.",
		})
	default:
		// Детали внутренней ошибки остаются в логе, наружу уходит
		// обезличенный ответ.
		h.logger.WithError(err).Error("order intake failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			ErrorCode: errorCodeInternal,
			Message:   "Internal server error.",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
