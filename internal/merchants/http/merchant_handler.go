package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orderdesk/etransfer/internal/httputil"
	"github.com/orderdesk/etransfer/internal/merchants/http/dto"
	merchantsUseCase "github.com/orderdesk/etransfer/internal/merchants/usecase"
	customValidation "github.com/orderdesk/etransfer/internal/validation"
)

// MerchantHandler handles HTTP requests for merchant management operations.
type MerchantHandler struct {
	merchantUseCase merchantsUseCase.UseCase
	logger          *slog.Logger
}

// NewMerchantHandler creates a new merchant handler with required dependencies.
func NewMerchantHandler(
	merchantUseCase merchantsUseCase.UseCase,
	logger *slog.Logger,
) *MerchantHandler {
	return &MerchantHandler{
		merchantUseCase: merchantUseCase,
		logger:          logger,
	}
}

// RegisterHandler registers a new merchant.
// POST /v1/merchants
// Returns 201 Created with the merchant and the plaintext license key.
// The key is shown exactly once; only its hash is stored.
func (h *MerchantHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterMerchantRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	merchant, licenseKey, err := h.merchantUseCase.Register(
		c.Request.Context(),
		merchantsUseCase.RegisterMerchantInput{
			Name:  req.Name,
			Email: req.Email,
		},
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.RegisterMerchantResponse{
		MerchantResponse: dto.MapMerchantToResponse(merchant),
		LicenseKey:       licenseKey,
	}
	c.JSON(http.StatusCreated, response)
}

// GetHandler retrieves a merchant by ID.
// GET /v1/merchants/:id
// Returns 200 OK with the merchant.
func (h *MerchantHandler) GetHandler(c *gin.Context) {
	id, err := parseMerchantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	merchant, err := h.merchantUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMerchantToResponse(merchant))
}

// ListHandler lists merchants, most recent first.
// GET /v1/merchants?offset=&limit=
// Returns 200 OK with a list of merchants.
func (h *MerchantHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	merchants, err := h.merchantUseCase.List(c.Request.Context(), limit, offset)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMerchantsToListResponse(merchants))
}

// SetActiveHandler enables or disables a merchant account.
// PATCH /v1/merchants/:id/active
// Returns 200 OK with the updated merchant.
func (h *MerchantHandler) SetActiveHandler(c *gin.Context) {
	id, err := parseMerchantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.SetMerchantActiveRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	merchant, err := h.merchantUseCase.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapMerchantToResponse(merchant))
}

// RotateLicenseKeyHandler replaces a merchant's license key.
// POST /v1/merchants/:id/rotate-key
// Returns 200 OK with the new plaintext license key. The previous key stops
// working immediately.
func (h *MerchantHandler) RotateLicenseKeyHandler(c *gin.Context) {
	id, err := parseMerchantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	licenseKey, err := h.merchantUseCase.RotateLicenseKey(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.RotateLicenseKeyResponse{LicenseKey: licenseKey})
}

// DeleteHandler removes a merchant by ID.
// DELETE /v1/merchants/:id
// Returns 204 No Content.
func (h *MerchantHandler) DeleteHandler(c *gin.Context) {
	id, err := parseMerchantID(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.merchantUseCase.Delete(c.Request.Context(), id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseMerchantID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid merchant id: must be a UUID")
	}
	return id, nil
}
