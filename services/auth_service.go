package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"conduit-cms/models"
	"conduit-cms/repositories"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req models.RegisterRequest) (*models.AuthResponse, error)
	Login(req models.LoginRequest) (*models.AuthResponse, error)
	GetUserByID(id uint) (*models.User, error)
	UpdateUser(id uint, req models.UpdateUserRequest) (*models.User, error)
}

type authService struct {
	userRepo    repositories.UserRepository
	secret      []byte
	expiration  time.Duration
	adminEmails map[string]bool
}

// NewAuthService issues tokens signed with secret. Accounts registered with
// one of adminEmails get the admin role.
func NewAuthService(userRepo repositories.UserRepository, secret []byte, expiration time.Duration, adminEmails []string) AuthService {
	admins := make(map[string]bool, len(adminEmails))
	for _, e := range NormalizeEmails(adminEmails) {
		admins[e] = true
	}
	return &authService{
		userRepo:    userRepo,
		secret:      secret,
		expiration:  expiration,
		adminEmails: admins,
	}
}

func (s *authService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	// Check if user already exists
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, models.ErrorConflict{Code: "USER_EXISTS", Message: "email is already registered"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.GetByUsername(req.Username); err == nil {
		return nil, models.ErrorConflict{Code: "USER_EXISTS", Message: "username is already taken"}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	switch {
	case s.adminEmails[email]:
		role = models.RoleAdmin
	case role == "":
		role = models.RoleWriter
	}

	user := &models.User{
		Username: req.Username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     role,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, models.ErrorUnauthorized{Message: "invalid credentials"}
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *authService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, lookupErr(err, "user")
	}
	return user, nil
}

func (s *authService) UpdateUser(id uint, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, lookupErr(err, "user")
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			if other, err := s.userRepo.GetByEmail(email); err == nil && other.ID != user.ID {
				return nil, models.ErrorConflict{Code: "USER_EXISTS", Message: "email is already registered"}
			} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			user.Email = email
		}
	}
	if req.Username != nil && *req.Username != user.Username {
		if other, err := s.userRepo.GetByUsername(*req.Username); err == nil && other.ID != user.ID {
			return nil, models.ErrorConflict{Code: "USER_EXISTS", Message: "username is already taken"}
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Username = *req.Username
	}
	if req.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Image != nil {
		user.Image = *req.Image
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     user.Role,
		"exp":      now.Add(s.expiration).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(s.secret)
}
