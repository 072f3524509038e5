package httpapi

import (
	"errors"
	"net/http"

	"ymate/internal/core/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var statusByKind = map[errs.Kind]int{
	errs.KindInsufficientData:   http.StatusBadRequest,
	errs.KindNotFound:           http.StatusNotFound,
	errs.KindMemberNotFound:     http.StatusNotFound,
	errs.KindNoAuth:             http.StatusForbidden,
	errs.KindConflict:           http.StatusConflict,
	errs.KindDuplicate:          http.StatusConflict,
	errs.KindInvalidCredentials: http.StatusUnauthorized,
	errs.KindInternal:           http.StatusInternalServerError,
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	if s, ok := statusByKind[errs.KindOf(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"error": kind, "message": msg}. Causes of
// internal errors stay in the log.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	kind := errs.KindOf(err)
	msg := "internal server error"
	var e *errs.Error
	if kind != errs.KindInternal && errors.As(err, &e) {
		msg = e.Msg
	}
	if kind == errs.KindInternal {
		logger.Error("❌ request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(StatusOf(err), gin.H{"error": string(kind), "message": msg})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": string(errs.KindInsufficientData), "message": "invalid input"})
}
