package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos"
	types "github.com/yungbote/classmode-backend/internal/domain"
	"github.com/yungbote/classmode-backend/internal/platform/apierr"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
	"github.com/yungbote/classmode-backend/internal/requestdata"
)

type AuthService interface {
	RegisterUser(ctx context.Context, user *types.User) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	users        repos.UserRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(db *gorm.DB, baseLog *logger.Logger, users repos.UserRepo, jwtSecretKey string, accessTTL time.Duration) AuthService {
	serviceLog := baseLog.With("service", "AuthService")
	return &authService{db: db, log: serviceLog, users: users, jwtSecretKey: jwtSecretKey, accessTTL: accessTTL}
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) (*types.User, error) {
	if user == nil {
		return nil, apierr.BadRequest("user_required", errors.New("user payload is required"))
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" || user.Password == "" {
		return nil, apierr.BadRequest("credentials_required", errors.New("email and password are required"))
	}

	exists, err := as.users.EmailExists(ctx, nil, user.Email)
	if err != nil {
		return nil, asAPIError(fmt.Errorf("check email: %w", err))
	}
	if exists {
		return nil, apierr.New(http.StatusConflict, "email_taken", nil)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, asAPIError(fmt.Errorf("hash password: %w", err))
	}
	user.Password = string(hashed)

	created, err := as.users.Create(ctx, nil, []*types.User{user})
	if err != nil {
		return nil, asAPIError(fmt.Errorf("create user: %w", err))
	}
	return created[0], nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", apierr.BadRequest("credentials_required", errors.New("email and password are required"))
	}

	users, err := as.users.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", asAPIError(fmt.Errorf("load user by email: %w", err))
	}
	if len(users) == 0 {
		return "", apierr.New(http.StatusUnauthorized, "invalid_credentials", nil)
	}
	user := users[0]

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apierr.New(http.StatusUnauthorized, "invalid_credentials", nil)
	}
	return as.generateAccessToken(user)
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return "", asAPIError(fmt.Errorf("sign access token: %w", err))
	}
	return signed, nil
}

// SetContextFromToken validates the bearer token and attaches the caller's
// identity to the context for downstream services.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.New(http.StatusUnauthorized, "token_required", nil)
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return ctx, apierr.New(http.StatusUnauthorized, "token_invalid", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx, apierr.New(http.StatusUnauthorized, "token_invalid", nil)
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return ctx, apierr.New(http.StatusUnauthorized, "token_invalid", err)
	}

	rd := &requestdata.RequestData{
		TokenString: tokenString,
		UserID:      userID,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}
