package handlers

import (
	"net/http"

	"github.com/geocoder89/tickethub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Every response uses the {success, data?, message?} envelope. Validation
// failures additionally carry an errors list with one entry per violated
// field.

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get(middlewares.CtxRequestID)

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func RespondData(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func RespondMessage(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{
		"success": true,
		"message": message,
	})
}

func RespondError(ctx *gin.Context, status int, message string, fields []FieldError) {
	body := gin.H{
		"success":    false,
		"message":    message,
		"request_id": requestIDFrom(ctx),
	}

	if len(fields) > 0 {
		body["errors"] = fields
	}

	ctx.JSON(status, body)
}

func RespondValidation(ctx *gin.Context, message string, fields []FieldError) {
	RespondError(ctx, http.StatusBadRequest, message, fields)
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message, nil)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil)
}

func RespondForbidden(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusForbidden, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message, nil)
}
