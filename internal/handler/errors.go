package handler

import (
	"errors"
	"net/http"

	"shopledger/internal/service"
	"shopledger/pkg/response"

	"github.com/gin-gonic/gin"
)

// abortWithError maps service errors onto HTTP statuses.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}
	_ = c.Error(err)
	c.JSON(status, response.Error(status, err.Error()))
}

func badPayload(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}
