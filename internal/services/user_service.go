package services

import (
	"context"
	"log"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"shopauth/internal/models"
	"shopauth/internal/repositories"
)

// совпадает с VARCHAR в migrations/0001_auth.sql
const (
	maxUsernameLen = 25
	maxEmailLen    = 80
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	// 0 + 10 цифр, всего 11
	phoneRe = regexp.MustCompile(`^0\d{10}$`)
)

type SignupInput struct {
	Username  string
	Email     string
	Phone     *string
	Password  string
	Password2 string
}

type UserService interface {
	Signup(ctx context.Context, in SignupInput) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type userService struct {
	repo         repositories.UserRepository
	emailService EmailService
	authService  AuthService
	storeTimeout time.Duration
}

func NewUserService(repo repositories.UserRepository, emailService EmailService, authService AuthService, storeTimeout time.Duration) UserService {
	return &userService{
		repo:         repo,
		emailService: emailService,
		authService:  authService,
		storeTimeout: storeTimeout,
	}
}

func (s *userService) ctx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storeTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.storeTimeout)
}

func (in *SignupInput) validate() error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	if in.Username == "" || !usernameRe.MatchString(in.Username) {
		return validationError("username must be alphanumeric")
	}
	if len(in.Username) > maxUsernameLen {
		return validationError("username is too long")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		return validationError("email is not valid")
	}
	if len(in.Email) > maxEmailLen {
		return validationError("email is too long")
	}
	if in.Phone != nil {
		p := strings.TrimSpace(*in.Phone)
		if p == "" {
			in.Phone = nil
		} else if !phoneRe.MatchString(p) {
			return validationError("Phone number must have 10 digits")
		} else {
			in.Phone = &p
		}
	}
	if in.Password == "" {
		return validationError("password is required")
	}
	if in.Password2 != "" && in.Password2 != in.Password {
		return validationError("passwords do not match")
	}
	return nil
}

// Signup создаёт пользователя. Активен сразу только тот, кто указал телефон.
func (s *userService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := s.authService.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		IsActive:     in.Phone != nil,
		IsStaff:      false,
	}

	sctx, cancel := s.ctx(context.WithoutCancel(ctx))
	defer cancel()
	if err := s.repo.Create(sctx, user); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Username); err != nil {
			// warn but do not fail creation
			log.Printf("Signup: warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	sctx, cancel := s.ctx(ctx)
	defer cancel()
	return s.repo.GetByUsername(sctx, username)
}
