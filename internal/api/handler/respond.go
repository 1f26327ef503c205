package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fashionhub-backend/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Anything
// unrecognized is an internal error; its message is surfaced to the caller.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrPaymentVerification):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUserExists):
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}
