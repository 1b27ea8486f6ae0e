package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fabric-ledger/internal/apperr"
)

type errorBody struct {
	Status  int                 `json:"status"`
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Errors  []apperr.FieldError `json:"errors"`
}

func renderError(c *gin.Context, logger *zap.Logger, err error) {
	if appErr, ok := apperr.As(err); ok {
		details := appErr.Details
		if details == nil {
			details = []apperr.FieldError{}
		}
		c.JSON(appErr.HTTPStatus, errorBody{Status: appErr.HTTPStatus, Code: appErr.Code, Message: appErr.Message, Errors: details})
		return
	}

	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, errorBody{
		Status:  http.StatusInternalServerError,
		Code:    apperr.CodeInternal,
		Message: "internal server error",
		Errors:  []apperr.FieldError{},
	})
}

func bindJSON(c *gin.Context, logger *zap.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody{
			Status:  http.StatusBadRequest,
			Message: "Invalid JSON body",
			Errors:  []apperr.FieldError{},
		})
		return false
	}
	return true
}
