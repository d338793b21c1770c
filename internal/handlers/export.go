package handlers

import (
	"errors"
	"net/http"

	"kickoffkart/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeJSON = "application/json"
	contentTypeXML  = "application/xml"
)

// @Summary      Export own products as JSON
// @Tags         export
// @Produce      json
// @Success      200  {array}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /products/json/ [get]
// @Security     BearerAuth
func (h *Handler) exportListJSON(c *gin.Context) {
	h.exportList(c, service.FormatJSON, contentTypeJSON)
}

// @Summary      Export own products as XML
// @Tags         export
// @Produce      xml
// @Success      200  {string}  string
// @Failure      401  {object}  map[string]interface{}
// @Router       /products/xml/ [get]
// @Security     BearerAuth
func (h *Handler) exportListXML(c *gin.Context) {
	h.exportList(c, service.FormatXML, contentTypeXML)
}

func (h *Handler) exportList(c *gin.Context, format, contentType string) {
	data, err := h.services.Export.Collection(c.Request.Context(), c.GetInt(ctxUserIDKey), format)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "export failed", "export_list_failed", err, "format", format)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

// @Summary      Export one product as JSON
// @Tags         export
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /products/json/{id}/ [get]
// @Security     BearerAuth
func (h *Handler) exportOneJSON(c *gin.Context) {
	h.exportOne(c, service.FormatJSON, contentTypeJSON)
}

// @Summary      Export one product as XML
// @Tags         export
// @Produce      xml
// @Param        id  path  string  true  "Product ID"
// @Success      200  {string}  string
// @Failure      404  {object}  map[string]interface{}
// @Router       /products/xml/{id}/ [get]
// @Security     BearerAuth
func (h *Handler) exportOneXML(c *gin.Context) {
	h.exportOne(c, service.FormatXML, contentTypeXML)
}

func (h *Handler) exportOne(c *gin.Context, format, contentType string) {
	data, err := h.services.Export.One(c.Request.Context(), c.Param("id"), c.GetInt(ctxUserIDKey), format)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "export failed", "export_one_failed", err, "format", format)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}
