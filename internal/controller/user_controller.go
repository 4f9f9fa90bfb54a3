package controller

import (
	"minoj/internal/model"
	"minoj/internal/service"
	"minoj/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// UserController handles user registration endpoints.
type UserController struct {
	userService *service.UserService
}

// NewUserController creates a new UserController.
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Post creates a user when the body has no id, renames one otherwise.
func (h *UserController) Post(c *gin.Context) {
	var req model.User
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request parameters")
		return
	}

	var (
		user *model.User
		err  error
	)
	if req.ID == nil {
		user, err = h.userService.Create(c.Request.Context(), req.Name)
	} else {
		user, err = h.userService.Update(c.Request.Context(), *req.ID, req.Name)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// List returns all users in ascending id order.
func (h *UserController) List(c *gin.Context) {
	response.Success(c, h.userService.List(c.Request.Context()))
}
