package httpserver

import (
	"log"
	"net/http"

	addresssvc "shopstack/internal/service/address"
	usersvc "shopstack/internal/service/user"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewUserRouter wires the user service routes: user CRUD plus the nested
// address book.
func NewUserRouter(logger *log.Logger, db *pgxpool.Pool, users *usersvc.Service, addresses *addresssvc.Service) *gin.Engine {
	router := newEngine(logger, db)
	api := router.Group("/api")

	api.POST("/users", func(c *gin.Context) {
		var in usersvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		u, err := users.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, u)
	})

	api.GET("/users", func(c *gin.Context) {
		var (
			err  error
			list interface{}
		)
		if c.Query("includeAddresses") == "true" {
			list, err = users.ListWithAddresses(c.Request.Context())
		} else {
			list, err = users.List(c.Request.Context())
		}
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/users/username/:username", func(c *gin.Context) {
		u, err := users.GetByUsername(c.Request.Context(), c.Param("username"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	})

	api.GET("/users/:userId", func(c *gin.Context) {
		id, ok := pathID(c, "userId")
		if !ok {
			return
		}
		u, err := users.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	})

	api.PUT("/users/:userId", func(c *gin.Context) {
		id, ok := pathID(c, "userId")
		if !ok {
			return
		}
		var in usersvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		u, err := users.Update(c.Request.Context(), id, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, u)
	})

	api.DELETE("/users/:userId", func(c *gin.Context) {
		id, ok := pathID(c, "userId")
		if !ok {
			return
		}
		if err := users.Deactivate(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.GET("/users/:userId/addresses", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		list, err := addresses.ListForUser(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.POST("/users/:userId/addresses", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		var in addresssvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		a, err := addresses.Create(c.Request.Context(), userID, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	})

	api.GET("/users/:userId/addresses/:addressId", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		addressID, ok := pathID(c, "addressId")
		if !ok {
			return
		}
		a, err := addresses.Get(c.Request.Context(), userID, addressID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	})

	api.PUT("/users/:userId/addresses/:addressId", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		addressID, ok := pathID(c, "addressId")
		if !ok {
			return
		}
		var in addresssvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		a, err := addresses.Update(c.Request.Context(), userID, addressID, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	})

	api.DELETE("/users/:userId/addresses/:addressId", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		addressID, ok := pathID(c, "addressId")
		if !ok {
			return
		}
		if err := addresses.Delete(c.Request.Context(), userID, addressID); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	return router
}
