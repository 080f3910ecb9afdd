package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	apperrors "github.com/orderdesk/etransfer/internal/errors"
	"github.com/orderdesk/etransfer/internal/httputil"
	merchantsUseCase "github.com/orderdesk/etransfer/internal/merchants/usecase"
)

// Header names used by the storefront plugin to authenticate API calls.
const (
	MerchantEmailHeader = "X-Merchant-Email"
	LicenseKeyHeader    = "X-License-Key"
)

// LicenseAuthMiddleware authenticates storefront plugin requests by merchant
// email and license key headers.
//
// Error handling:
//   - Missing headers → 401 Unauthorized
//   - Unknown merchant or wrong key → 401 Unauthorized
//   - Deactivated merchant → 403 Forbidden
//
// On success the merchant is stored in the request context and available to
// downstream handlers via GetMerchant().
func LicenseAuthMiddleware(
	merchantUseCase merchantsUseCase.UseCase,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader(MerchantEmailHeader)
		licenseKey := c.GetHeader(LicenseKeyHeader)
		if email == "" || licenseKey == "" {
			logger.Debug("license authentication failed: missing credentials headers")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		merchant, err := merchantUseCase.ValidateLicense(c.Request.Context(), email, licenseKey)
		if err != nil {
			logger.Debug("license authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithMerchant(c.Request.Context(), merchant)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("license authentication successful",
			slog.String("merchant_id", merchant.ID.String()),
			slog.String("merchant_name", merchant.Name))

		c.Next()
	}
}
