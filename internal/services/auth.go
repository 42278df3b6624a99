package services

import (
	"errors"
	"time"

	"github.com/devfolio/devfolio/internal/config"
	"github.com/devfolio/devfolio/internal/models"
	"github.com/devfolio/devfolio/internal/utils"
	"github.com/devfolio/devfolio/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type RegisterRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=64"`
	Email           string `json:"email" binding:"required,email,max=120"`
	FirstName       string `json:"first_name" binding:"omitempty,max=64"`
	LastName        string `json:"last_name" binding:"omitempty,max=64"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

type LoginResult struct {
	Token    string       `json:"token"`
	ExpireAt time.Time    `json:"expire_at"`
	User     *models.User `json:"user"`
}

// Register creates a new account. Username and email must not collide with
// any existing account.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	var count int64
	s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("username already taken")
	}

	s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, response.NewConflict("email already registered")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  hashed,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// Lost a race against a concurrent registration with the same
		// username or email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, response.NewConflict("username or email already taken")
		}
		return nil, err
	}

	return &user, nil
}

// Login authenticates a user and returns a JWT token. Remember-me logins get
// a longer-lived token.
func (s *AuthService) Login(req *LoginRequest) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid username or password")
		}
		return nil, err
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("invalid username or password")
	}

	hours := s.jwtConfig.ExpireHour
	if req.RememberMe {
		hours = s.jwtConfig.RememberHour
	}

	token, err := utils.GenerateToken(user.ID, user.Username, hours)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastSeen = &now
	s.db.Model(&user).Update("last_seen", now)

	return &LoginResult{
		Token:    token,
		ExpireAt: now.Add(time.Duration(hours) * time.Hour),
		User:     &user,
	}, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}
