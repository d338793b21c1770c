package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kickoffkart/internal/models"
	"kickoffkart/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errListProducts = "failed to load products"
	errSaveProduct  = "failed to save product"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"ok": false, "error": userMsg})
}

func (h *Handler) logAndPageError(c *gin.Context, httpCode int, userMsg, logKey string, err error) {
	if h.log != nil && err != nil {
		h.log.Errorw(logKey, "err", err)
	}
	c.String(httpCode, userMsg)
}

// productJSON is the unified product shape returned by AJAX and API flows.
type productJSON struct {
	ID          string `json:"pk"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Category    string `json:"category"`
	IsFeatured  bool   `json:"is_featured"`
	DetailURL   string `json:"detail_url"`
}

func toProductJSON(p models.Product) productJSON {
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Thumbnail:   p.Thumbnail,
		Category:    p.Category,
		IsFeatured:  p.IsFeatured,
		DetailURL:   "/products/" + p.ID + "/",
	}
}

func toProductJSONList(products []models.Product) []productJSON {
	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toProductJSON(p))
	}
	return out
}

// parseProductForm reads the form-encoded product payload. Non-numeric price
// is a transport-level failure; everything else is validated by the service.
func parseProductForm(c *gin.Context) (service.ProductFields, map[string][]string) {
	f := service.ProductFields{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Thumbnail:   strings.TrimSpace(c.PostForm("thumbnail")),
		Category:    strings.TrimSpace(c.PostForm("category")),
	}
	switch c.PostForm("is_featured") {
	case "on", "true", "1":
		f.IsFeatured = true
	}

	priceRaw := strings.TrimSpace(c.PostForm("price"))
	if priceRaw == "" {
		return f, map[string][]string{"price": {"This field is required."}}
	}
	price, err := strconv.Atoi(priceRaw)
	if err != nil {
		return f, map[string][]string{"price": {"Enter a whole number."}}
	}
	f.Price = price
	return f, nil
}

// writeProductError translates service errors on JSON paths.
func (h *Handler) writeProductError(c *gin.Context, err error, logKey string) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errors": ve.Fields})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errSaveProduct, logKey, err)
	}
}

// ---- Browser pages ----

func (h *Handler) showMain(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(ctxUserIDKey)
	category := c.Query("category")

	products, err := h.services.Products.List(ctx, userID, category)
	if err != nil {
		if isAJAX(c) {
			h.logAndJSONError(c, http.StatusInternalServerError, errListProducts, "product_list_failed", err)
		} else {
			h.logAndPageError(c, http.StatusInternalServerError, errListProducts, "product_list_failed", err)
		}
		return
	}

	if isAJAX(c) {
		data := toProductJSONList(products)
		c.JSON(http.StatusOK, gin.H{"count": len(data), "category": category, "products": data})
		return
	}

	categories, err := h.services.Products.Categories(ctx, userID)
	if err != nil {
		// Navigation only; the page still renders without it.
		if h.log != nil {
			h.log.Errorw("product_categories_failed", "err", err)
		}
	}
	lastLogin, _ := c.Cookie(lastLoginCookieName)
	level, flash := popFlash(c)
	c.HTML(http.StatusOK, "main.html", gin.H{
		"AppName":        "KickoffKart",
		"Username":       c.GetString(ctxUsernameKey),
		"Products":       products,
		"TotalProducts":  len(products),
		"ActiveCategory": category,
		"NavCategories":  categories,
		"LastLogin":      lastLogin,
		"FlashLevel":     level,
		"Flash":          flash,
	})
}

func (h *Handler) addProductForm(c *gin.Context) {
	c.HTML(http.StatusOK, "product_form.html", gin.H{
		"Username": c.GetString(ctxUsernameKey),
		"Fields":   service.ProductFields{},
	})
}

func (h *Handler) addProduct(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetInt(ctxUserIDKey)

	fields, formErrs := parseProductForm(c)
	if formErrs != nil {
		if isAJAX(c) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errors": formErrs})
			return
		}
		c.HTML(http.StatusOK, "product_form.html", gin.H{
			"Username": c.GetString(ctxUsernameKey),
			"Errors":   formErrs,
			"Fields":   fields,
		})
		return
	}

	p, err := h.services.Products.Create(ctx, userID, fields)
	if err != nil {
		if isAJAX(c) {
			h.writeProductError(c, err, "product_create_failed")
			return
		}
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.HTML(http.StatusOK, "product_form.html", gin.H{
				"Username": c.GetString(ctxUsernameKey),
				"Errors":   ve.Fields,
				"Fields":   fields,
			})
			return
		}
		h.logAndPageError(c, http.StatusInternalServerError, errSaveProduct, "product_create_failed", err)
		return
	}

	if isAJAX(c) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "product": toProductJSON(p)})
		return
	}
	setFlash(c, "success", "Product created.")
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) productDetail(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.services.Products.Get(ctx, id, c.GetInt(ctxUserIDKey))
	if err != nil {
		// Detail reads hide foreign rows entirely.
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrForbidden) {
			c.String(http.StatusNotFound, "Product not found")
			return
		}
		h.logAndPageError(c, http.StatusInternalServerError, errListProducts, "product_detail_failed", err)
		return
	}

	level, flash := popFlash(c)
	c.HTML(http.StatusOK, "product_detail.html", gin.H{
		"Username":   c.GetString(ctxUsernameKey),
		"Product":    p,
		"FlashLevel": level,
		"Flash":      flash,
	})
}

func (h *Handler) productEditForm(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	p, err := h.services.Products.Get(ctx, id, c.GetInt(ctxUserIDKey))
	if err != nil {
		h.editPageError(c, err, "product_edit_form_failed")
		return
	}
	c.HTML(http.StatusOK, "product_edit.html", gin.H{
		"Username": c.GetString(ctxUsernameKey),
		"Product":  p,
	})
}

func (h *Handler) productEdit(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	userID := c.GetInt(ctxUserIDKey)

	fields, formErrs := parseProductForm(c)
	if formErrs != nil {
		if isAJAX(c) {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errors": formErrs})
			return
		}
		p, gerr := h.services.Products.Get(ctx, id, userID)
		if gerr != nil {
			h.editPageError(c, gerr, "product_edit_failed")
			return
		}
		c.HTML(http.StatusOK, "product_edit.html", gin.H{
			"Username": c.GetString(ctxUsernameKey),
			"Product":  p,
			"Errors":   formErrs,
		})
		return
	}

	p, err := h.services.Products.Update(ctx, id, userID, fields)
	if err != nil {
		if isAJAX(c) {
			h.writeProductError(c, err, "product_update_failed")
			return
		}
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			orig, gerr := h.services.Products.Get(ctx, id, userID)
			if gerr != nil {
				h.editPageError(c, gerr, "product_edit_failed")
				return
			}
			c.HTML(http.StatusOK, "product_edit.html", gin.H{
				"Username": c.GetString(ctxUsernameKey),
				"Product":  orig,
				"Errors":   ve.Fields,
			})
			return
		}
		h.editPageError(c, err, "product_update_failed")
		return
	}

	if isAJAX(c) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "product": toProductJSON(p)})
		return
	}
	setFlash(c, "success", "Product updated successfully.")
	c.Redirect(http.StatusFound, "/products/"+id+"/")
}

// editPageError maps edit/delete flow errors for page responses. Unlike the
// detail page, non-owners get an explicit 403 here.
func (h *Handler) editPageError(c *gin.Context, err error, logKey string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.String(http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrForbidden):
		c.String(http.StatusForbidden, "Forbidden")
	default:
		h.logAndPageError(c, http.StatusInternalServerError, errSaveProduct, logKey, err)
	}
}

// productDeleteGuard handles GET on the delete endpoint: never deletes,
// warns and redirects back to the detail page.
func (h *Handler) productDeleteGuard(c *gin.Context) {
	id := c.Param("id")
	setFlash(c, "warning", "Delete must be submitted as POST.")
	c.Redirect(http.StatusFound, "/products/"+id+"/")
}

func (h *Handler) productDelete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	userID := c.GetInt(ctxUserIDKey)

	if err := h.services.Products.Delete(ctx, id, userID); err != nil {
		if isAJAX(c) {
			h.writeProductError(c, err, "product_delete_failed")
			return
		}
		h.editPageError(c, err, "product_delete_failed")
		return
	}

	if isAJAX(c) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": id})
		return
	}
	setFlash(c, "success", "Product deleted successfully.")
	c.Redirect(http.StatusFound, "/")
}

// ---- JSON API ----

// @Summary      List own products
// @Tags         products
// @Produce      json
// @Param        category  query  string  false  "Exact category filter"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/products/ [get]
// @Security     BearerAuth
func (h *Handler) apiProductList(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := h.services.Products.List(ctx, c.GetInt(ctxUserIDKey), c.Query("category"))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListProducts, "api_product_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": toProductJSONList(products)})
}

// @Summary      Get one product
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/products/{id}/ [get]
// @Security     BearerAuth
func (h *Handler) apiProductDetail(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.services.Products.Get(ctx, c.Param("id"), c.GetInt(ctxUserIDKey))
	if err != nil {
		// Reads hide foreign rows entirely.
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrForbidden) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errListProducts, "api_product_detail_failed", err)
		return
	}
	c.JSON(http.StatusOK, toProductJSON(p))
}

// @Summary      Create product
// @Tags         products
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /api/products/create/ [post]
// @Security     BearerAuth
func (h *Handler) apiProductCreate(c *gin.Context) {
	ctx := c.Request.Context()

	fields, formErrs := parseProductForm(c)
	if formErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errors": formErrs})
		return
	}
	p, err := h.services.Products.Create(ctx, c.GetInt(ctxUserIDKey), fields)
	if err != nil {
		h.writeProductError(c, err, "api_product_create_failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "product": toProductJSON(p)})
}

// @Summary      Update product
// @Tags         products
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/products/{id}/update/ [post]
// @Security     BearerAuth
func (h *Handler) apiProductUpdate(c *gin.Context) {
	ctx := c.Request.Context()

	fields, formErrs := parseProductForm(c)
	if formErrs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "errors": formErrs})
		return
	}
	p, err := h.services.Products.Update(ctx, c.Param("id"), c.GetInt(ctxUserIDKey), fields)
	if err != nil {
		h.writeProductError(c, err, "api_product_update_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "product": toProductJSON(p)})
}

// @Summary      Delete product
// @Tags         products
// @Produce      json
// @Param        id  path  string  true  "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /api/products/{id}/delete/ [post]
// @Security     BearerAuth
func (h *Handler) apiProductDelete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	if err := h.services.Products.Delete(ctx, id, c.GetInt(ctxUserIDKey)); err != nil {
		h.writeProductError(c, err, "api_product_delete_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "deleted": id})
}
