// Category HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCategories godoc
// @ID          listCategories
// @Summary     List categories with content counts
// @Description Returns all categories ordered by name, each with its published guide and blog counts.
// @Tags        Categories
// @Produce     json
//
// @Success     200  {array}  repo.CategoryWithCounts
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	items, err := h.catSvc.ListWithCounts(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, items)
}
