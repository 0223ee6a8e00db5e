package handler

import (
	"net/http"

	"github.com/blues/aidlink/internal/logic"
	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	api *logic.Facade
}

func NewRequestHandler(api *logic.Facade) *RequestHandler {
	return &RequestHandler{api: api}
}

// GetOpenRequests 获取募集中的求助
func (h *RequestHandler) GetOpenRequests(c *gin.Context) {
	requests, err := h.api.GetOpenRequests(c.Request.Context())
	if err != nil {
		errorFromLogic(c, err, "Failed to load requests. Please try again.")
		return
	}
	SuccessResponse(c, http.StatusOK, "", requests)
}

// Donate 向求助捐赠
func (h *RequestHandler) Donate(c *gin.Context) {
	var req DonateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.api.Donate(c.Request.Context(), c.Param("id"), req.Amount)
	if err != nil {
		errorFromLogic(c, err, "Failed to make donation. Please try again.")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Donation submitted", tx)
}

// GetDonorDashboard 获取捐赠者面板数据
func (h *RequestHandler) GetDonorDashboard(c *gin.Context) {
	dashboard, err := h.api.GetDonorDashboard(c.Request.Context())
	if err != nil {
		errorFromLogic(c, err, "Failed to load dashboard data. Please try again.")
		return
	}
	SuccessResponse(c, http.StatusOK, "", dashboard)
}

// CreateRequest 机构新建求助
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	request, err := h.api.CreateRequest(c.Request.Context(), logic.CreateRequestInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
	})
	if err != nil {
		errorFromLogic(c, err, "Failed to create request. Please try again.")
		return
	}
	SuccessResponse(c, http.StatusCreated, "Request created successfully!", request)
}

// GetInstitutionRequests 获取本机构的求助
func (h *RequestHandler) GetInstitutionRequests(c *gin.Context) {
	requests, err := h.api.GetInstitutionRequests(c.Request.Context())
	if err != nil {
		errorFromLogic(c, err, "Failed to load requests. Please try again.")
		return
	}
	SuccessResponse(c, http.StatusOK, "", requests)
}
