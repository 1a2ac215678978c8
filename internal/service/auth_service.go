package service

import (
	"context"
	"errors"

	"blog/internal/entity"
	"blog/internal/nlog"
	"blog/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(ctx context.Context, form SignupForm) (*entity.User, error)
	Login(ctx context.Context, username, password string) (*entity.User, error)
}

type authService struct {
	userRepository repository.UserRepository
	logger         nlog.Logger
}

func NewAuthService(userRepo repository.UserRepository, logger nlog.Logger) AuthService {
	return &authService{
		userRepository: userRepo,
		logger:         logger,
	}
}

func (a *authService) Logf(format string, v ...any) {
	a.logger.Logf(format, v...)
}

func (a *authService) Register(ctx context.Context, form SignupForm) (*entity.User, error) {
	form.normalize()
	if fields := validateForm(&form); fields != nil {
		return nil, Invalid(fields)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		a.Logf("Could not calculate hash {%v}", err)
		return nil, Wrap(ErrInternal, "could not hash password", err)
	}

	u := &entity.User{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	}
	if err := a.userRepository.Create(ctx, u, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Invalid(map[string]string{"username": "A user with that username already exists."})
		}
		return nil, Wrap(ErrInternal, "could not create user", err)
	}
	a.Logf("User registered {id:%d, username:%s}", u.ID, u.Username)
	return u, nil
}

func (a *authService) Login(ctx context.Context, username, password string) (*entity.User, error) {
	u, hash, err := a.userRepository.GetForLogin(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, New(ErrUnauthorized, "Please enter a correct username and password.")
		}
		return nil, Wrap(ErrInternal, "could not load user", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		a.Logf("Wrong credentials for {%s}", username)
		return nil, New(ErrUnauthorized, "Please enter a correct username and password.")
	}
	return u, nil
}
