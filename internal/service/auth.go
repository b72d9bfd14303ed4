package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/leadscope/opportunity-finder/api/internal/auth"
	"github.com/leadscope/opportunity-finder/api/internal/dto"
	"github.com/leadscope/opportunity-finder/api/internal/repository"
)

// ErrInvalidCredentials is returned for unknown emails and wrong passwords
// alike, so the response does not reveal which one was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	defaultPlan     = "starter"
	trialPeriodDays = 14
	minPasswordLen  = 8
)

// AuthService coordinates credential validation, sign-up and token issuance.
type AuthService struct {
	users         repository.UsersRepository
	subscriptions repository.SubscriptionsRepository
	jwt           *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(users repository.UsersRepository, subscriptions repository.SubscriptionsRepository, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{users: users, subscriptions: subscriptions, jwt: jwtManager}
}

// Login validates credentials and returns a token carrying the plan tier.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ValidationError{Message: "email and password are required"}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	plan, err := s.subscriptions.ActivePlan(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNoActiveSubscription) {
			return nil, err
		}
		plan = defaultPlan
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, plan)
	if err != nil {
		return nil, err
	}

	resp := &dto.AuthResponse{AccessToken: token}
	resp.User = dto.AuthUser{ID: user.ID.String(), Email: user.Email, FullName: user.FullName, PlanType: plan}
	return resp, nil
}

// Register creates an account with a trial subscription and returns a token.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	req.PlanType = strings.TrimSpace(req.PlanType)

	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return nil, ValidationError{Message: "email, password, and full name are required"}
	}
	if len(req.Password) < minPasswordLen {
		return nil, ValidationError{Message: fmt.Sprintf("password must be at least %d characters long", minPasswordLen)}
	}
	if req.PlanType == "" {
		req.PlanType = defaultPlan
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Email, string(hashed), req.FullName)
	if err != nil {
		return nil, err
	}

	trialEnd := time.Now().AddDate(0, 0, trialPeriodDays)
	if err := s.subscriptions.Create(ctx, user.ID, req.PlanType, "trialing", trialEnd); err != nil {
		return nil, fmt.Errorf("create trial subscription: %w", err)
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.Email, req.PlanType)
	if err != nil {
		return nil, err
	}

	resp := &dto.AuthResponse{AccessToken: token}
	resp.User = dto.AuthUser{ID: user.ID.String(), Email: user.Email, FullName: user.FullName, PlanType: req.PlanType}
	return resp, nil
}
