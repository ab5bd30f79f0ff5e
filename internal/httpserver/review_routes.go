package httpserver

import (
	"log"
	"net/http"
	"strconv"

	"shopstack/internal/domain"
	reviewsvc "shopstack/internal/service/review"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewReviewRouter wires the review service routes: a user's reviews under
// /users/:userId/reviews, a product's reviews and aggregates under
// /products/:productId/reviews.
func NewReviewRouter(logger *log.Logger, db *pgxpool.Pool, reviews *reviewsvc.Service) *gin.Engine {
	router := newEngine(logger, db)
	api := router.Group("/api")

	api.GET("/users/:userId/reviews", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		list, err := reviews.ListByUser(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.POST("/users/:userId/reviews", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		var in reviewsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		in.UserID = userID
		rv, err := reviews.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, rv)
	})

	api.PUT("/users/:userId/reviews/:reviewId", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		reviewID, ok := pathID(c, "reviewId")
		if !ok {
			return
		}
		if ok := ownedByUser(c, reviews, reviewID, userID); !ok {
			return
		}
		var in reviewsvc.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeBindError(c, err)
			return
		}
		rv, err := reviews.Update(c.Request.Context(), reviewID, in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rv)
	})

	api.DELETE("/users/:userId/reviews/:reviewId", func(c *gin.Context) {
		userID, ok := pathID(c, "userId")
		if !ok {
			return
		}
		reviewID, ok := pathID(c, "reviewId")
		if !ok {
			return
		}
		if ok := ownedByUser(c, reviews, reviewID, userID); !ok {
			return
		}
		if err := reviews.Delete(c.Request.Context(), reviewID); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})

	api.GET("/products/:productId/reviews", func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		list, err := reviews.ListByProduct(c.Request.Context(), productID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/products/:productId/reviews/average-rating", func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		avg, err := reviews.AverageRating(c.Request.Context(), productID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"productId": productID, "averageRating": avg})
	})

	api.GET("/products/:productId/reviews/count", func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		count, err := reviews.CountByProduct(c.Request.Context(), productID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"productId": productID, "reviewCount": count})
	})

	api.GET("/products/:productId/reviews/high-rated", func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		minRating, err := strconv.Atoi(c.DefaultQuery("minRating", "4"))
		if err != nil {
			writeBindError(c, err)
			return
		}
		list, err := reviews.ListHighRated(c.Request.Context(), productID, minRating)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	api.GET("/products/:productId/reviews/stats", func(c *gin.Context) {
		productID, ok := pathID(c, "productId")
		if !ok {
			return
		}
		stats, err := reviews.ProductStats(c.Request.Context(), productID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	return router
}

// ownedByUser rejects access to a review that does not belong to the path
// user. The mismatch is reported as not-found, never as forbidden.
func ownedByUser(c *gin.Context, reviews *reviewsvc.Service, reviewID, userID int64) bool {
	rv, err := reviews.Get(c.Request.Context(), reviewID)
	if err != nil {
		writeError(c, err)
		return false
	}
	if rv.UserID != userID {
		writeError(c, domain.NotFound("Review", "id", reviewID))
		return false
	}
	return true
}
