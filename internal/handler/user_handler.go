package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"truetimer/backend/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

type createUserRequest struct {
	Timezone string `json:"timezone" binding:"required,min=3,max=35"`
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	user, apiErr := h.userService.CreateUser(c.Request.Context(), req.Timezone)
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, apiErr := h.userService.GetUser(c.Request.Context(), c.Param("user_id"))
	if apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if apiErr := h.userService.DeleteUser(c.Request.Context(), c.Param("user_id")); apiErr != nil {
		writeError(c, apiErr)
		return
	}
	c.Status(http.StatusNoContent)
}
