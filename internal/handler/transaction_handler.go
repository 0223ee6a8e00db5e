package handler

import (
	"net/http"

	"github.com/blues/aidlink/internal/logic"
	"github.com/gin-gonic/gin"
)

type TransactionHandler struct {
	api *logic.Facade
}

func NewTransactionHandler(api *logic.Facade) *TransactionHandler {
	return &TransactionHandler{api: api}
}

// GetSupplierTransactions 获取供应商可见的交易
func (h *TransactionHandler) GetSupplierTransactions(c *gin.Context) {
	transactions, err := h.api.GetSupplierTransactions(c.Request.Context())
	if err != nil {
		errorFromLogic(c, err, "Failed to load transactions. Please try again.")
		return
	}
	SuccessResponse(c, http.StatusOK, "", transactions)
}

// ConfirmDelivery 确认交付
func (h *TransactionHandler) ConfirmDelivery(c *gin.Context) {
	tx, err := h.api.ConfirmDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorFromLogic(c, err, "Failed to confirm delivery. Please try again.")
		return
	}
	SuccessResponse(c, http.StatusOK, "Delivery confirmed", tx)
}
