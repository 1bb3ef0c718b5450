package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgauth "github.com/go-pkgz/auth/v2"
	"github.com/go-pkgz/auth/v2/avatar"
	"github.com/go-pkgz/auth/v2/token"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/krishkalaria12/imageworld/apperr"
	"github.com/krishkalaria12/imageworld/models"
	"github.com/krishkalaria12/imageworld/repository"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

const (
	msgInvalidInput       = "Invalid input data"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidToken       = "Invalid token"
)

type Options struct {
	Secret    string
	Issuer    string
	URL       string
	AvatarDir string
	Logger    zerolog.Logger
}

// Service registers and logs in accounts and issues and verifies their credentials.
type Service struct {
	accounts repository.AccountRepository
	tokens   *token.Service
	validate *validator.Validate
	issuer   string
	logger   zerolog.Logger
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is an authenticated account together with its bearer credential.
type Session struct {
	Account *models.Account
	Token   string
}

// Identity is what a verified credential proves.
type Identity struct {
	AccountID string
	Email     string
}

func NewService(accounts repository.AccountRepository, opts Options) *Service {
	secret := opts.Secret
	authService := pkgauth.NewService(pkgauth.Opts{
		SecretReader: token.SecretFunc(func(string) (string, error) {
			return secret, nil
		}),
		TokenDuration:  time.Hour * 24,
		CookieDuration: time.Hour * 24 * 7,
		Issuer:         opts.Issuer,
		URL:            opts.URL,
		AvatarStore:    avatar.NewLocalFS(opts.AvatarDir),
	})

	return &Service{
		accounts: accounts,
		tokens:   authService.TokenService(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		issuer:   opts.Issuer,
		logger:   opts.Logger.With().Str("component", "auth").Logger(),
	}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validate.Struct(in); err != nil {
		s.logger.Debug().Err(err).Msg("register input rejected")
		return nil, apperr.Validation(msgInvalidInput)
	}

	existing, err := s.accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, apperr.Internal("Server error", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("User already exists")
	}

	existing, err = s.accounts.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, apperr.Internal("Server error", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("Username already taken")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}

	account := &models.Account{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("User already exists")
		}
		return nil, apperr.Internal("Failed to create user", err)
	}

	s.logger.Info().Str("account_id", account.ID).Msg("account registered")
	return s.session(account)
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.Validation(msgInvalidInput)
	}

	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return nil, apperr.Internal("Server error", err)
	}

	// unknown email and wrong password are indistinguishable to the caller
	if account == nil || !CheckPasswordHash(in.Password, account.Password) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}

	return s.session(account)
}

func (s *Service) session(account *models.Account) (*Session, error) {
	tokenStr, err := s.Issue(account)
	if err != nil {
		return nil, apperr.Internal("Failed to generate token", err)
	}
	return &Session{Account: account, Token: tokenStr}, nil
}

// Issue signs a credential for the account. It carries no expiry.
func (s *Service) Issue(account *models.Account) (string, error) {
	claims := token.Claims{
		User: &token.User{
			ID:    account.ID,
			Name:  account.Username,
			Email: account.Email,
		},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			Audience: []string{s.issuer},
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	tokenStr, err := s.tokens.Token(claims)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return tokenStr, nil
}

// Verify checks the credential signature and extracts the identity it carries.
func (s *Service) Verify(credential string) (*Identity, error) {
	if credential == "" {
		return nil, apperr.Unauthorized("Access token required")
	}

	claims, err := s.tokens.Parse(credential)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindForbidden, msgInvalidToken, err)
	}

	if claims.User == nil || claims.User.ID == "" || claims.User.Email == "" {
		return nil, apperr.Forbidden(msgInvalidToken)
	}

	return &Identity{AccountID: claims.User.ID, Email: claims.User.Email}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashed), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
