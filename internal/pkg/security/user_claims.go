package security

import (
	"Abode/internal/api/config"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	jwtSecret         = []byte("abode-dev-secret")
	jwtIssuer         = "abode"
	jwtExpirationTime = time.Hour * 24
)

// UserClaims Token 中携带的用户身份
type UserClaims struct {
	UserID uint64   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Configure 使用配置覆盖默认密钥与过期时间
func Configure(cfg config.AuthConfig) {
	if cfg.JWTSecret != "" {
		jwtSecret = []byte(cfg.JWTSecret)
	}
	if cfg.Issuer != "" {
		jwtIssuer = cfg.Issuer
	}
	if cfg.ExpireHours > 0 {
		jwtExpirationTime = time.Duration(cfg.ExpireHours) * time.Hour
	}
}
