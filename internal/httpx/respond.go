// Package httpx holds the gin middleware and the error rendering shared by the
// HTTP handlers.
package httpx

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/MikeMC777/customer-orders/internal/apperr"
)

// HTTPError represents a standard error in JSON.
// swagger:model
type HTTPError struct {
	// Error message
	// example: Couldn't find customer with matching ID
	Error string `json:"error"`
	// Offending fields, validation failures only
	Fields []apperr.FieldError `json:"fields,omitempty"`
}

// Error writes err as a JSON error with the status its type maps to.
// Unexpected errors are logged and answered with a bare 500.
func Error(c *gin.Context, err error) {
	var (
		verr *apperr.ValidationError
		nerr *apperr.NotFoundError
		cerr *apperr.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, HTTPError{Error: "validation failed", Fields: verr.Fields})
	case errors.As(err, &nerr):
		c.JSON(http.StatusNotFound, HTTPError{Error: nerr.Error()})
	case errors.As(err, &cerr):
		c.JSON(http.StatusConflict, HTTPError{Error: cerr.Reason})
	default:
		log.WithFields(log.Fields{"rid": c.GetString(ridKey), "err": err.Error()}).Error("[http] unexpected error")
		c.JSON(http.StatusInternalServerError, HTTPError{Error: "internal server error"})
	}
}

// IDParam parses the integer path parameter name. A value that is not an
// integer is invalid input; a non-positive one cannot name a row and yields the
// entity's not-found error.
func IDParam(c *gin.Context, name string, notFound func(id int64) error) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Invalid(name, "type", name+" must be of type integer")
	}
	if id <= 0 {
		return 0, notFound(id)
	}
	return id, nil
}
