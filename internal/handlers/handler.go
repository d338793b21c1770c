package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"kickoffkart/internal/logger"
	"kickoffkart/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Browser pages
	h.registerAuthPages(router)
	h.registerProductPages(router)

	// Data-delivery endpoints (JSON/XML)
	h.registerExportRoutes(router)

	// JSON API endpoints
	h.registerAPIRoutes(router)

	return router
}

func (h *Handler) registerAuthPages(r *gin.Engine) {
	r.GET("/register/", h.registerPage)
	r.POST("/register/", h.registerSubmit)
	r.GET("/login/", h.loginPage)
	r.POST("/login/", h.loginSubmit)
	r.GET("/logout/", h.logoutUser)
	r.POST("/logout/", h.logoutUser)
}

func (h *Handler) registerProductPages(r *gin.Engine) {
	pages := r.Group("/", h.pageAuthMiddleware)
	{
		pages.GET("/", h.showMain)
		pages.GET("/products/add/", h.addProductForm)
		pages.POST("/products/add/", h.addProduct)
		pages.GET("/products/:id/", h.productDetail)
		pages.GET("/products/:id/edit/", h.productEditForm)
		pages.POST("/products/:id/edit/", h.productEdit)
		// GET on the delete path must not delete anything
		pages.GET("/products/:id/delete/", h.productDeleteGuard)
		pages.POST("/products/:id/delete/", h.productDelete)
	}
}

func (h *Handler) registerExportRoutes(r *gin.Engine) {
	data := r.Group("/products", h.apiAuthMiddleware)
	{
		data.GET("/json/", h.exportListJSON)
		data.GET("/xml/", h.exportListXML)
		data.GET("/json/:id/", h.exportOneJSON)
		data.GET("/xml/:id/", h.exportOneXML)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/login/", h.apiLogin)
		auth.POST("/logout/", h.apiLogout)
		auth.POST("/register/", h.apiRegister)
	}

	products := api.Group("/products", h.apiAuthMiddleware)
	{
		products.GET("/", h.apiProductList)
		products.GET("/:id/", h.apiProductDetail)
		products.POST("/create/", h.apiProductCreate)
		products.POST("/:id/update/", h.apiProductUpdate)
		products.POST("/:id/delete/", h.apiProductDelete)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
