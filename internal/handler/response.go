package handler

import (
	"github.com/gin-gonic/gin"

	apperrors "rvpark-listings/internal/errors"
)

func respondError(c *gin.Context, err error) {
	se := apperrors.AsStandard(err)
	c.AbortWithStatusJSON(apperrors.HTTPStatus(se), gin.H{"error": se.Code, "message": se.Message})
}
