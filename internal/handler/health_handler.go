package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Healthz reports liveness only; it does not touch Postgres or Mongo.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
