package jwt

import (
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/medas/intern-tracker-go/internal/domain/user"
)

const TokenTypeAccess = "access"

type Service interface {
	GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error)
	ActorFromClaims(claims map[string]interface{}) (user.Actor, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
	// PurgeExpired drops revoked tokens that would be rejected for expiry anyway.
	PurgeExpired(now time.Time) int
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(actor user.Actor) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	roles := make([]string, 0, len(actor.Roles))
	for _, r := range actor.Roles {
		roles = append(roles, string(r))
	}

	claims := map[string]interface{}{
		"user_id":   actor.UserID,
		"email":     actor.Email,
		"full_name": actor.FullName,
		"roles":     roles,
		"intern_id": j.returnValueOrNil(actor.InternID),
		"type":      TokenTypeAccess,
		"exp":       expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ActorFromClaims rebuilds the caller from a verified access token.
func (j *JWTService) ActorFromClaims(claims map[string]interface{}) (user.Actor, error) {
	if t, _ := claims["type"].(string); t != TokenTypeAccess {
		return user.Actor{}, jwt.ErrInvalidJWT()
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return user.Actor{}, jwt.ErrInvalidJWT()
	}

	actor := user.Actor{UserID: userID}
	actor.Email, _ = claims["email"].(string)
	actor.FullName, _ = claims["full_name"].(string)

	switch roles := claims["roles"].(type) {
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok {
				actor.Roles = append(actor.Roles, user.Role(s))
			}
		}
	case []string:
		for _, s := range roles {
			actor.Roles = append(actor.Roles, user.Role(s))
		}
	}

	if internID, ok := claims["intern_id"].(string); ok && internID != "" {
		actor.InternID = &internID
	}

	return actor, nil
}

func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (j *JWTService) PurgeExpired(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	purged := 0
	for token, exp := range j.revokedTokens {
		if exp > 0 && exp < now.Unix() {
			delete(j.revokedTokens, token)
			purged++
		}
	}
	return purged
}

func (j *JWTService) returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	} else {
		return *value
	}
}
