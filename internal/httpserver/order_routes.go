package httpserver

import (
	"log"
	"net/http"
	"strconv"

	ordersvc "shopstack/internal/service/order"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewOrderRouter wires the order service routes. User-facing operations are
// scoped under /users/:userId/orders; lookups by number, status and item id
// are top-level.
func NewOrderRouter(logger *log.Logger, db *pgxpool.Pool, orders *ordersvc.Service) *gin.Engine {
	router := newEngine(logger, db)
	api := router.Group("/api")

	api.POST("/users/:userId/orders", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		var in ordersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		in.UserID = userID
		o, err := orders.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	})

	api.GET("/users/:userId/orders", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		list, err := orders.ListForUser(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/users/:userId/orders/:orderId", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		orderID, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		if _, err := orders.GetForUser(c.Request.Context(), orderID, userID); err != nil {
			writeError(c, err)
			return
		}
		view, err := orders.GetView(c.Request.Context(), orderID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	})

	api.PATCH("/users/:userId/orders/:orderId/status", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		orderID, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		if _, err := orders.GetForUser(c.Request.Context(), orderID, userID); err != nil {
			writeError(c, err)
			return
		}
		o, err := orders.UpdateStatus(c.Request.Context(), orderID, c.Query("status"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	api.PATCH("/users/:userId/orders/:orderId/payment-status", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		orderID, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		if _, err := orders.GetForUser(c.Request.Context(), orderID, userID); err != nil {
			writeError(c, err)
			return
		}
		o, err := orders.UpdatePaymentStatus(c.Request.Context(), orderID, c.Query("paymentStatus"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	api.DELETE("/users/:userId/orders/:orderId", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		orderID, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		if _, err := orders.GetForUser(c.Request.Context(), orderID, userID); err != nil {
			writeError(c, err)
			return
		}
		o, err := orders.Cancel(c.Request.Context(), orderID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	api.GET("/orders/status/:status", func(c *gin.Context) {
		list, err := orders.ListByStatus(c.Request.Context(), c.Param("status"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/orders/number/:orderNumber", func(c *gin.Context) {
		o, err := orders.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	api.GET("/orders/:orderId/items", func(c *gin.Context) {
		orderID, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		items, err := orders.ListItems(c.Request.Context(), orderID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, items)
	})

	api.POST("/orders/:orderId/items", func(c *gin.Context) {
		orderID, ok := pathID(c, "orderId")
		if !ok {
			return
		}
		var in ordersvc.ItemInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		item, err := orders.AddItem(c.Request.Context(), orderID, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	})

	api.PATCH("/orders/items/:itemId", func(c *gin.Context) {
		itemID, ok := pathID(c, "itemId")
		if !ok {
			return
		}
		quantity, err := strconv.Atoi(c.Query("quantity"))
		if err != nil {
			writeBindError(c, err)
			return
		}
		item, err := orders.UpdateItemQuantity(c.Request.Context(), itemID, quantity)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	})

	api.DELETE("/orders/items/:itemId", func(c *gin.Context) {
		itemID, ok := pathID(c, "itemId")
		if !ok {
			return
		}
		if err := orders.RemoveItem(c.Request.Context(), itemID); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	return router
}
