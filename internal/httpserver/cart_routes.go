package httpserver

import (
	"log"
	"net/http"

	cartsvc "shopstack/internal/service/cart"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewCartRouter wires the cart service routes. The cart is addressed per
// user; lines are addressed by id within that user's cart.
func NewCartRouter(logger *log.Logger, db *pgxpool.Pool, carts *cartsvc.Service) *gin.Engine {
	router := newEngine(logger, db)
	api := router.Group("/api")

	api.GET("/users/:userId/cart", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		view, err := carts.Get(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	})

	api.POST("/users/:userId/cart", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		var in cartsvc.AddInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		line, err := carts.AddItem(c.Request.Context(), userID, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, line)
	})

	api.GET("/users/:userId/cart/count", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		count, err := carts.Count(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID, "count": count})
	})

	api.PUT("/users/:userId/cart/:cartId", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		lineID, ok := pathID(c, "cartId")
		if !ok {
			return
		}
		var in cartsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		line, err := carts.UpdateItem(c.Request.Context(), userID, lineID, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	})

	api.DELETE("/users/:userId/cart/:cartId", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		lineID, ok := pathID(c, "cartId")
		if !ok {
			return
		}
		if err := carts.RemoveItem(c.Request.Context(), userID, lineID); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.DELETE("/users/:userId/cart", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		if err := carts.Clear(c.Request.Context(), userID); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	return router
}
