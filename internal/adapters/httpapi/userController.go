package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserController struct {
	uc     UserUseCase
	logger *zap.Logger
}

func NewUserController(uc UserUseCase, logger *zap.Logger) *UserController {
	return &UserController{uc: uc, logger: logger}
}

func (ctl *UserController) LoginUser(c *gin.Context) {
	var req struct {
		StudentID int64  `json:"studentId" binding:"required"`
		Password  string `json:"password" binding:"required"`
		PushToken string `json:"pushToken"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	res, err := ctl.uc.LoginUser(c.Request.Context(), req.StudentID, req.Password, req.PushToken)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *UserController) RegisterUser(c *gin.Context) {
	var req struct {
		StudentID int64  `json:"studentId" binding:"required"`
		Nickname  string `json:"nickname" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	u, err := ctl.uc.RegisterUser(c.Request.Context(), req.StudentID, req.Nickname, req.Password)
	if err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (ctl *UserController) CheckNickname(c *gin.Context) {
	if err := ctl.uc.CheckNickname(c.Request.Context(), c.Param("nickname")); err != nil {
		writeError(c, ctl.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": true})
}
