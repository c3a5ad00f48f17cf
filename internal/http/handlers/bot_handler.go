// Bot HTTP handler.
//
// The automated guide generator is admin-only; the role gate lives here
// because it is the single privileged endpoint.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/n0social/verbshift-api/internal/genai"
)

// RunBot godoc
// @ID          runBot
// @Summary     Run one automated guide generation cycle
// @Description Picks a topic, generates a guide, and publishes it when it clears the content gates. Skipped runs return 200 with created=false and the reason.
// @Tags        Admin
// @Produce     json
//
// @Param       X-User-ID    header  string  false "User ID (demo header)"  example(admin1)
// @Param       X-User-Role  header  string  true  "Must be admin"          example(admin)
//
// @Success     200  {object} services.BotRunResult
// @Failure     403  {object} handlers.ErrorResponse "Requester is not an admin"
// @Failure     502  {object} handlers.ErrorResponse "Generation backend failed"
// @Failure     503  {object} handlers.ErrorResponse "Generation backend unavailable"
// @Failure     504  {object} handlers.ErrorResponse "Generation backend timed out"
// @Router      /admin/bot/run [post]
func (h *Handlers) RunBot(c *gin.Context) {
	if !strings.EqualFold(userRole(c), "admin") {
		fail(c, http.StatusForbidden, ErrCodeForbidden, "admin role required")
		return
	}

	res, err := h.botSvc.Run(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, genai.ErrUnavailable):
			fail(c, http.StatusServiceUnavailable, ErrCodeGenUnavailable, err.Error())
		case errors.Is(err, genai.ErrTimeout):
			fail(c, http.StatusGatewayTimeout, ErrCodeGenTimeout, err.Error())
		case errors.Is(err, genai.ErrRequestFailed), errors.Is(err, genai.ErrEmptyResult):
			logBackendFailure(c, err)
			fail(c, http.StatusBadGateway, ErrCodeGenFailed, genai.ErrRequestFailed.Error())
		default:
			logBackendFailure(c, err)
			fail(c, http.StatusInternalServerError, ErrCodeBotFailed, "bot run failed")
		}
		return
	}
	ok(c, http.StatusOK, res)
}
