package auth

import (
	"errors"
	"net/http"

	"github.com/ArjunMehta-11/stumps/config"
	"github.com/ArjunMehta-11/stumps/internal/middleware"
	"github.com/ArjunMehta-11/stumps/internal/user"
	"github.com/ArjunMehta-11/stumps/pkg/responses"
	"github.com/ArjunMehta-11/stumps/pkg/token"
	"github.com/ArjunMehta-11/stumps/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{
		repo:   repo,
		config: cfg,
	}
}

// @Summary      Register a new user
// @Description  Create a new user with username, email, phone and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "User registration details"
// @Success      201   {object} AuthResponse "User registered successfully, returns token and user info"
// @Failure      400   {object} map[string]string "Validation error or invalid input"
// @Failure      409   {object} map[string]string "User with this email or phone or username already exists"
// @Failure      500   {object} map[string]string "Internal server error"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	// Check for existing users
	if _, err := ac.repo.GetUserByEmail(req.Email); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.ErrorResponse(c, http.StatusConflict, "User with this email already exists")
		return
	}
	if _, err := ac.repo.GetUserByPhone(req.Phone); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.ErrorResponse(c, http.StatusConflict, "User with this phone number already exists")
		return
	}
	if _, err := ac.repo.GetUserByUsername(req.Username); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.ErrorResponse(c, http.StatusConflict, "User with this username already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	newUser := user.User{
		Username: req.Username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hashed,
	}
	if err := ac.repo.CreateUser(&newUser); err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to create user: "+err.Error())
		return
	}

	accessToken, err := token.GenerateJWT(newUser.ID, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	responses.SuccessResponse(c, http.StatusCreated, AuthResponse{
		AccessToken: accessToken,
		User:        newUser,
	})
}

// @Summary      Log in
// @Description  Authenticate with email and password; returns a JWT access token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Login credentials"
// @Success      200  {object} AuthResponse
// @Failure      400  {object} map[string]string "Validation error"
// @Failure      401  {object} map[string]string "Invalid credentials"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.ValidationErrorResponse(c, err)
		return
	}

	u, err := ac.repo.GetUserByEmail(req.Email)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	accessToken, err := token.GenerateJWT(u.ID, ac.config.JWT.AccessTokenSecret, ac.config.JWT.AccessTokenExpiryMinutes)
	if err != nil {
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	responses.SuccessResponse(c, http.StatusOK, AuthResponse{
		AccessToken: accessToken,
		User:        *u,
	})
}

// @Summary      Get current user profile
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} user.User
// @Failure      401  {object} map[string]string "Unauthorized"
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.ErrorResponse(c, http.StatusUnauthorized, "Unauthorized: "+err.Error())
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.ErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		responses.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch user: "+err.Error())
		return
	}

	responses.SuccessResponse(c, http.StatusOK, u)
}
