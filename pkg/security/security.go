package security

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
)

const (
	TOKEN_KEY = "Authorization"
)

// TokenClaims 由站点签发, 标识当前操作的用户和角色
type TokenClaims struct {
	User       string `json:"u"`
	Name       string `json:"n"`
	Role       string `json:"r"`
	ExpireTime int64  `json:"exp"` // 过期时间 时间戳
	NotBefore  int64  `json:"nbf"` // 生效时间 时间戳
}

func NewTokenClaims(userID, name, role string, expireTime int64) TokenClaims {
	return TokenClaims{
		User:       userID,
		Name:       name,
		Role:       role,
		ExpireTime: expireTime,
		NotBefore:  time.Now().Unix() - 1,
	}
}

func (t TokenClaims) GetRole() string {
	return t.Role
}

func (t TokenClaims) GetUser() string {
	return t.User
}

var (
	ErrInvalidJWT    = errors.New("invalid token")
	ErrInvalidSecret = errors.New("invalid secret")
)

func GenerateJWT(info TokenClaims, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrInvalidSecret
	}
	claims := jwt.MapClaims{}

	t := reflect.TypeOf(info)
	v := reflect.ValueOf(info)

	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		claims[tag] = v.Field(i).Interface()
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func VerifyToken(tokenString string, secret []byte) (*TokenClaims, error) {
	claims, err := ParseJWT(tokenString, secret)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	if claims.ExpireTime < now || claims.NotBefore > now {
		return nil, fmt.Errorf("expired token, %w", ErrInvalidJWT)
	}

	return claims, nil
}

func ParseJWT(tokenString string, secret []byte) (*TokenClaims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))
	_, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v, %w", token.Header["alg"], ErrInvalidJWT)
		}
		if len(secret) == 0 {
			return nil, ErrInvalidSecret
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	parts := strings.Split(tokenString, ".")
	claimBytes, err := jwt.DecodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("%s, %w", err.Error(), ErrInvalidJWT)
	}

	result := &TokenClaims{}
	if err = json.Unmarshal(claimBytes, result); err != nil {
		return nil, fmt.Errorf("%s, %w", err.Error(), ErrInvalidJWT)
	}
	return result, nil
}
