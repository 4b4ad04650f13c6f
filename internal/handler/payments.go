package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ironhold/internal/apperr"
	"ironhold/internal/middleware"
	"ironhold/internal/model"
)

const maxWebhookBody = 1 << 16

type checkoutRequest struct {
	Plan      model.Plan `json:"plan"`
	OriginURL string     `json:"origin_url"`
}

func (h *Handler) CreateCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperr.Wrap(apperr.InvalidInput, "Invalid request body", err))
		return
	}

	res, err := h.checkout.Create(c.Request.Context(), middleware.CurrentUser(c), req.Plan, req.OriginURL)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) PaymentStatus(c *gin.Context) {
	res, err := h.payments.Status(c.Request.Context(), middleware.CurrentUser(c), c.Param("session_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// StripeWebhook never leaks error details. A 5xx asks the provider to retry.
func (h *Handler) StripeWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.log.Warn("read webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	err = h.payments.HandleWebhook(c.Request.Context(), body, c.GetHeader("Stripe-Signature"))
	switch kind := apperr.KindOf(err); {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case kind == apperr.InvalidInput:
		h.log.Warn("webhook rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
	default:
		h.log.Error("webhook processing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
	}
}
