package httpapi

import (
	"net/http"

	"ymate/internal/adapters/httpapi/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type NotificationController struct {
	uc     NotificationUseCase
	logger *zap.Logger
}

func NewNotificationController(uc NotificationUseCase, logger *zap.Logger) *NotificationController {
	return &NotificationController{uc: uc, logger: logger}
}

func (ctl *NotificationController) History(c *gin.Context) {
	studentID, _ := middleware.StudentID(c)
	records, err := ctl.uc.History(c.Request.Context(), studentID)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
