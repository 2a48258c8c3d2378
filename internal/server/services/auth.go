package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/ksolovey/modacart/internal/common"
	"github.com/ksolovey/modacart/internal/dbx"
	"github.com/ksolovey/modacart/internal/server/auth"
	"github.com/ksolovey/modacart/internal/server/config"
	"github.com/ksolovey/modacart/internal/server/models"
	"github.com/ksolovey/modacart/internal/server/repositories/repomanager"
)

// refreshTokenBytes is the entropy of the opaque refresh token (256 bits).
const refreshTokenBytes = 32

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RegisterRequest carries the fields of a sign-up submission.
type RegisterRequest struct {
	UserName string
	Email    string
	Password string
	Role     string
	FullName string
	Phone    string
	Address  string
}

// AuthService provides authentication-related operations:
// - Register: validate and create accounts
// - Login: verify credentials and mint tokens
// - RefreshToken: rotate refresh tokens and mint new access tokens
//
// The signing key is loaded once at startup and never changes for the
// process lifetime.
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	storeTimeout                 time.Duration
	minPasswordLength            int
	passwordRequireClasses       bool
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		storeTimeout:                 cfg.StoreTimeout,
		minPasswordLength:            cfg.MinPasswordLength,
		passwordRequireClasses:       cfg.PasswordRequireClasses,
	}
}

// Register validates the request, hashes the password, and creates the
// account. No tokens are issued here; registration and login are separate
// flows. Rule violations come back as ValidationErrors.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var violations ValidationErrors

	if strings.TrimSpace(req.UserName) == "" {
		violations = append(violations, ValidationError{Field: "username", Message: "must not be empty"})
	}
	violations = append(violations, validateEmail(req.Email)...)
	violations = append(violations, validatePassword(req.Password, s.minPasswordLength, s.passwordRequireClasses)...)

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if role != models.RoleCustomer && role != models.RoleVendor {
		violations = append(violations, ValidationError{Field: "role", Message: "must be Customer or Vendor"})
	}

	if len(violations) > 0 {
		return nil, violations
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	user := &models.User{
		UserName:     req.UserName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		FullName:     req.FullName,
		Phone:        req.Phone,
		Address:      req.Address,
	}

	user, err = s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorDuplicate) {
			return nil, ValidationErrors{{Field: "identity", Message: "username or email is already taken"}}
		}
		return nil, storeErr(err)
	}

	return user, nil
}

// Login verifies the identifier/password pair and, on success, returns a new
// TokenPair. An unknown identifier and a wrong password produce the same
// ErrorUnauthorized so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*TokenPair, error) {
	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn comparable CPU on a throwaway hash so the absent-user
			// path is not observably faster than a failed verification.
			_, _ = auth.HashPassword(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, storeErr(err)
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, common.ErrorUnauthorized
	}

	return s.generateTokenPair(ctx, user.ID, user.Roles(), s.db)
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Absent, expired, and already-consumed tokens
// all yield the same ErrInvalidToken.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.ErrInvalidToken
	}

	ctx, cancel := storeCtx(ctx, s.storeTimeout)
	defer cancel()

	var pair *TokenPair
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		userID, err := s.repomanager.RefreshTokens(tx).Consume(ctx, hashToken(refreshToken))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return storeErr(err)
		}

		user, err := s.repomanager.Users(tx).GetByID(ctx, userID)
		if err != nil {
			return storeErr(err)
		}

		pair, err = s.generateTokenPair(ctx, user.ID, user.Roles(), tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

// --- helpers below ---

// hashToken returns the hex SHA-256 digest under which a refresh token is
// persisted, so the store never holds usable bearer values.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *AuthService) generateAccessToken(userID string, roles []string) (string, error) {
	return auth.GenerateToken(userID, roles, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *AuthService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(refreshTokenBytes)
}

func (s *AuthService) generateTokenPair(ctx context.Context, userID string, roles []string, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID, roles)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, userID, hashToken(refresh), s.refreshTokenValidityDuration); err != nil {
		return nil, storeErr(err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
