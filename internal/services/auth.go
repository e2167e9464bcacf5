package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/yungbote/mavedb-backend/internal/data/repos"
	types "github.com/yungbote/mavedb-backend/internal/domain"
	"github.com/yungbote/mavedb-backend/internal/platform/apierr"
	"github.com/yungbote/mavedb-backend/internal/platform/ctxutil"
	"github.com/yungbote/mavedb-backend/internal/platform/dbctx"
	"github.com/yungbote/mavedb-backend/internal/platform/logger"
)

// JWTClaims identifies a caller by ORCID id. The name and email claims are only used to
// provision the user row on first sign-in.
type JWTClaims struct {
	GivenName  string `json:"given_name,omitempty"`
	FamilyName string `json:"family_name,omitempty"`
	Email      string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IssueToken(claims JWTClaims, ttl time.Duration) (string, error)
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	jwtSecretKey string
	issuer       string
}

func NewAuthService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo, jwtSecretKey, issuer string) AuthService {
	serviceLog := log.With("service", "AuthService")
	return &authService{
		db:           db,
		log:          serviceLog,
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		issuer:       issuer,
	}
}

// IssueToken signs claims with the service secret. Subject must be an ORCID id.
func (as *authService) IssueToken(claims JWTClaims, ttl time.Duration) (string, error) {
	if strings.TrimSpace(claims.Subject) == "" {
		return "", fmt.Errorf("token subject required")
	}
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	if claims.Issuer == "" {
		claims.Issuer = as.issuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

// SetContextFromToken resolves the caller named by tokenString and attaches it to ctx.
// An empty token leaves ctx anonymous.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if as.issuer != "" {
		opts = append(opts, jwt.WithIssuer(as.issuer))
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(as.jwtSecretKey), nil
	}, opts...)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("failed to parse token: %w", err))
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("invalid or expired token"))
	}
	username := strings.TrimSpace(claims.Subject)
	if username == "" {
		return ctx, apierr.Unauthorized("invalid_token", fmt.Errorf("token has no subject"))
	}

	var email *string
	if e := strings.TrimSpace(claims.Email); e != "" {
		email = &e
	}
	user, err := as.userRepo.GetOrCreate(dbctx.Context{Ctx: ctx}, &types.User{
		Username:  username,
		FirstName: claims.GivenName,
		LastName:  claims.FamilyName,
		Email:     email,
	})
	if err != nil {
		as.log.Error("Failed to load token user", "username", username, "error", err)
		return ctx, apierr.Internal("load_user_failed", err)
	}
	if !user.IsActive {
		return ctx, apierr.New(http.StatusUnauthorized, "inactive_user", fmt.Errorf("user account is inactive"))
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{User: user}), nil
}
