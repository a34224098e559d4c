package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coursehub/apperr"
	"coursehub/logger"
	"coursehub/mailer"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IdentityConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	SaltRound int
}

type IdentityService struct {
	users  *repositories.UserRepository
	mail   *mailer.Mailer
	log    *logger.Logger
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func NewIdentityService(users *repositories.UserRepository, mail *mailer.Mailer, log *logger.Logger, cfg IdentityConfig) *IdentityService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	if cfg.SaltRound < bcrypt.MinCost {
		cfg.SaltRound = bcrypt.DefaultCost
	}
	return &IdentityService{
		users:  users,
		mail:   mail,
		log:    log.With("service", "IdentityService"),
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		cost:   cfg.SaltRound,
		now:    time.Now,
	}
}

// TokenClaims is the decoded form of an access token.
type TokenClaims struct {
	UserID    uint
	Role      models.Role
	Name      string
	Email     string
	JTI       string
	ExpiresAt time.Time
}

type AuthResult struct {
	User      *models.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Role != models.RoleMentor && in.Role != models.RoleStudent {
		return nil, apperr.Field("role", "The selected role is invalid.")
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("The email has already been taken.")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, apperr.Internal("Failed to hash password", err)
	}
	user := &models.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    email,
		Password: string(hash),
		Role:     in.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID, "role", user.Role)
	s.mail.SendWelcome(user.Email, user.Name, string(user.Role))
	return s.issue(user)
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("Invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, apperr.Unauthorized("Invalid credentials")
	}

	now := s.now()
	if err := s.users.TouchLastActive(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to stamp last activity", "user_id", user.ID, "error", err)
	}
	user.LastActiveAt = &now
	return s.issue(user)
}

// Logout revokes the presented token.
func (s *IdentityService) Logout(ctx context.Context, claims *TokenClaims) error {
	return s.users.RevokeToken(ctx, claims.JTI, claims.UserID, claims.ExpiresAt)
}

// Refresh revokes the presented token and issues a fresh one.
func (s *IdentityService) Refresh(ctx context.Context, claims *TokenClaims) (*AuthResult, error) {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized("User no longer exists")
		}
		return nil, err
	}
	if err := s.users.RevokeToken(ctx, claims.JTI, claims.UserID, claims.ExpiresAt); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *IdentityService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.FindWithProfiles(ctx, userID)
}

// Actor resolves the caller together with its live role profiles.
func (s *IdentityService) Actor(ctx context.Context, userID uint) (policy.Actor, error) {
	user, err := s.users.FindWithProfiles(ctx, userID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return policy.Actor{}, apperr.Unauthorized("User no longer exists")
		}
		return policy.Actor{}, err
	}
	return policy.FromUser(user), nil
}

// Authenticate parses a bearer token, rejects revoked ones and resolves the actor.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (policy.Actor, *TokenClaims, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return policy.Actor{}, nil, err
	}
	revoked, err := s.users.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return policy.Actor{}, nil, err
	}
	if revoked {
		return policy.Actor{}, nil, apperr.Unauthorized("Token has been revoked")
	}
	actor, err := s.Actor(ctx, claims.UserID)
	if err != nil {
		return policy.Actor{}, nil, err
	}
	return actor, claims, nil
}

func (s *IdentityService) PurgeRevokedTokens(ctx context.Context) (int64, error) {
	return s.users.PurgeRevoked(ctx, s.now())
}

func (s *IdentityService) issue(user *models.User) (*AuthResult, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.MapClaims{
		"userId": user.ID,
		"name":   user.Name,
		"role":   string(user.Role),
		"email":  user.Email,
		"jti":    uuid.NewString(),
		"iat":    now.Unix(),
		"exp":    exp.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, apperr.Internal("Failed to sign token", err)
	}
	return &AuthResult{User: user, Token: signed, TokenType: "bearer", ExpiresAt: time.Unix(exp.Unix(), 0)}, nil
}

func (s *IdentityService) ParseToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized("Invalid or expired token")
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperr.Unauthorized("Invalid token payload")
	}
	userID, ok := mc["userId"].(float64)
	jti, _ := mc["jti"].(string)
	exp, _ := mc["exp"].(float64)
	if !ok || userID <= 0 || jti == "" {
		return nil, apperr.Unauthorized("Invalid token payload")
	}
	role, _ := mc["role"].(string)
	name, _ := mc["name"].(string)
	email, _ := mc["email"].(string)
	return &TokenClaims{
		UserID:    uint(userID),
		Role:      models.Role(role),
		Name:      name,
		Email:     email,
		JTI:       jti,
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
