// Subscription and quota HTTP handlers.
//
// This file exposes the requester-facing account endpoints:
//   - GET /me/subscription  (current tier)
//   - PUT /me/subscription  (change tier)
//   - GET /me/quota         (monthly allowance standing)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/n0social/verbshift-api/internal/services"
)

// UpdateSubscriptionRequest is the JSON payload for a tier change.
type UpdateSubscriptionRequest struct {
	// Tier is one of FREE, BASIC, PREMIUM (case-insensitive).
	Tier string `json:"tier" binding:"required" example:"BASIC"`
}

// GetSubscription godoc
// @ID          getSubscription
// @Summary     Get the requester's subscription
// @Description Users without a stored subscription are reported as FREE.
// @Tags        Account
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} domain.Subscription
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /me/subscription [get]
func (h *Handlers) GetSubscription(c *gin.Context) {
	sub, err := h.subSvc.Get(c.Request.Context(), userID(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, sub)
}

// UpdateSubscription godoc
// @ID          updateSubscription
// @Summary     Change the requester's subscription tier
// @Tags        Account
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.UpdateSubscriptionRequest  true  "Tier payload"
//
// @Success     200  {object} domain.Subscription
// @Failure     400  {object} handlers.ErrorResponse "Unknown tier"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /me/subscription [put]
func (h *Handlers) UpdateSubscription(c *gin.Context) {
	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sub, err := h.subSvc.SetTier(c.Request.Context(), userID(c), req.Tier)
	if err != nil {
		if err == services.ErrInvalidTier {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, sub)
}

// GetQuota godoc
// @ID          getQuota
// @Summary     Get the requester's monthly quota standing
// @Description Reports tier, limit, posts used this calendar month (UTC), and the remaining allowance. Exempt roles report an unlimited allowance.
// @Tags        Account
// @Produce     json
//
// @Param       X-User-ID    header  string  false "User ID (demo header)"  example(user123)
// @Param       X-User-Role  header  string  false "User role"              example(user)
//
// @Success     200  {object} services.QuotaStatus
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /me/quota [get]
func (h *Handlers) GetQuota(c *gin.Context) {
	st, err := h.quotaSvc.Status(c.Request.Context(), userID(c), userRole(c))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, st)
}
