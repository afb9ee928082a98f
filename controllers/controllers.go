package controllers

import (
	"database/sql"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-service/config"
	"shop-service/models"
	"shop-service/rabbitmq"
	"shop-service/repositories"
	"shop-service/services"
)

// Handlers carries every dependency the HTTP layer needs. Wired once in
// main and shared by all requests.
type Handlers struct {
	DB         *sql.DB
	Cfg        *config.Config
	Users      *repositories.UserRepository
	Posts      *repositories.PostRepository
	Categories *repositories.CategoryRepository
	Products   *repositories.ProductRepository
	Orders     *services.OrderService
	RMQ        *rabbitmq.RabbitMQ
}

// respondError maps service error kinds onto HTTP statuses. Constraint
// and infrastructure failures get generic messages; details stay in the
// logs.
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var constraintErr *models.ConstraintError

	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &constraintErr):
		log.Printf("Constraint violation: %v", constraintErr.Err)
		c.JSON(http.StatusConflict, gin.H{"error": "The operation violates a uniqueness constraint"})
	default:
		log.Printf("Unhandled error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error has occurred"})
	}
}
