package httpserver

import (
	"log"
	"net/http"
	"strconv"

	categorysvc "shopstack/internal/service/category"
	productsvc "shopstack/internal/service/product"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// NewProductRouter wires the product service routes: product CRUD with the
// catalog queries, plus category CRUD.
func NewProductRouter(logger *log.Logger, db *pgxpool.Pool, products *productsvc.Service, categories *categorysvc.Service) *gin.Engine {
	router := newEngine(logger, db)
	api := router.Group("/api")

	api.GET("/products", func(c *gin.Context) {
		list, err := products.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/products/available", func(c *gin.Context) {
		list, err := products.ListAvailable(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/products/search", func(c *gin.Context) {
		list, err := products.Search(c.Request.Context(), c.Query("name"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/products/price-range", func(c *gin.Context) {
		min, err := decimal.NewFromString(c.DefaultQuery("minPrice", "0"))
		if err != nil {
			writeBindError(c, err)
			return
		}
		max, err := decimal.NewFromString(c.Query("maxPrice"))
		if err != nil {
			writeBindError(c, err)
			return
		}
		list, err := products.ListByPriceRange(c.Request.Context(), min, max)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/products/category/:categoryId", func(c *gin.Context) {
		categoryID, ok := pathID(c, "categoryId")
		if !ok {
			return
		}
		list, err := products.ListByCategory(c.Request.Context(), categoryID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/products/:productId", func(c *gin.Context) {
		id, ok := pathID(c, "productId")
		if !ok {
			return
		}
		p, err := products.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	api.POST("/products", func(c *gin.Context) {
		var in productsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		p, err := products.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	})

	api.PUT("/products/:productId", func(c *gin.Context) {
		id, ok := pathID(c, "productId")
		if !ok {
			return
		}
		var in productsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		p, err := products.Update(c.Request.Context(), id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	api.DELETE("/products/:productId", func(c *gin.Context) {
		id, ok := pathID(c, "productId")
		if !ok {
			return
		}
		if err := products.Deactivate(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.PATCH("/products/:productId/stock", func(c *gin.Context) {
		id, ok := pathID(c, "productId")
		if !ok {
			return
		}
		quantity, err := strconv.Atoi(c.Query("quantity"))
		if err != nil {
			writeBindError(c, err)
			return
		}
		p, err := products.UpdateStock(c.Request.Context(), id, quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	})

	api.GET("/categories", func(c *gin.Context) {
		list, err := categories.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/categories/:categoryId", func(c *gin.Context) {
		id, ok := pathID(c, "categoryId")
		if !ok {
			return
		}
		cat, err := categories.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	})

	api.POST("/categories", func(c *gin.Context) {
		var in categorysvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		cat, err := categories.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, cat)
	})

	api.PUT("/categories/:categoryId", func(c *gin.Context) {
		id, ok := pathID(c, "categoryId")
		if !ok {
			return
		}
		var in categorysvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		cat, err := categories.Update(c.Request.Context(), id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cat)
	})

	api.DELETE("/categories/:categoryId", func(c *gin.Context) {
		id, ok := pathID(c, "categoryId")
		if !ok {
			return
		}
		if err := categories.Deactivate(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	return router
}
