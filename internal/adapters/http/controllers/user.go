package controllers

import (
	"net/http"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/handlers"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/adapters/http/middleware"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/dto"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/service"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *service.UserService
}

type UserResponse struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token,omitempty"`
}

func NewUserResponse(user *domain.User, token string) UserResponse {
	return UserResponse{
		ID:      string(user.ID),
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
	}
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// Register godoc
// @Summary     Register a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body     dto.RegisterUserRequest true "Account data"
// @Success     201     {object} UserResponse
// @Failure     400     {object} handlers.ErrorResponse
// @Router      /api/users/register [post]
func (uc *UserController) Register(c *gin.Context) {
	var request dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	user, token, err := uc.userService.Register(c.Request.Context(), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewUserResponse(user, token))
}

// Login godoc
// @Summary     Authenticate a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body     dto.LoginRequest true "Credentials"
// @Success     200     {object} UserResponse
// @Failure     401     {object} handlers.ErrorResponse
// @Failure     429     {object} handlers.ErrorResponse
// @Router      /api/users/login [post]
func (uc *UserController) Login(c *gin.Context) {
	var request dto.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		handlers.HandleError(c, serviceerrors.NewInvalidRequestError(err.Error()))
		return
	}
	user, token, err := uc.userService.Login(c.Request.Context(), &request)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(user, token))
}

// Profile godoc
// @Summary     Current user profile
// @Tags        users
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse
// @Failure     401 {object} handlers.ErrorResponse
// @Router      /api/users/profile [get]
func (uc *UserController) Profile(c *gin.Context) {
	user, err := uc.userService.GetByID(c.Request.Context(), middleware.CallerFrom(c).ID)
	if err != nil {
		handlers.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewUserResponse(user, ""))
}
