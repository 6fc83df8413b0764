package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"papertrade/biz/dal/redis"
)

const sessionTTL = 24 * time.Hour

var ErrSessionNotFound = errors.New("session not found")

func sessionKey(token string) string {
	return "session:" + token
}

// CreateSession 登录成功后签发不透明 token，存 redis 带 TTL
func CreateSession(ctx context.Context, userID uint64) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	err := redis.Client.Set(ctx, sessionKey(token),
		strconv.FormatUint(userID, 10), sessionTTL).Err()
	if err != nil {
		return "", err
	}
	return token, nil
}

// ResolveSession token 换 userID，顺带续期
func ResolveSession(ctx context.Context, token string) (uint64, error) {
	val, err := redis.Client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, ErrSessionNotFound
	}
	_ = redis.Client.Expire(ctx, sessionKey(token), sessionTTL).Err()
	return userID, nil
}

// DestroySession 登出
func DestroySession(ctx context.Context, token string) error {
	return redis.Client.Del(ctx, sessionKey(token)).Err()
}
