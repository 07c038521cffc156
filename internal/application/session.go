package application

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/recipe-share-api/internal/domain/entity"
)

func sessionKey(userID int64, sid string) string {
	return "user:session:" + strconv.FormatInt(userID, 10) + ":" + sid
}

// sessionSetKey indexes a user's session ids so they can all be revoked.
func sessionSetKey(userID int64) string {
	return "user:sessions:" + strconv.FormatInt(userID, 10)
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Sessions keeps one Redis hash per login, so devices stay signed in
// independently until their session expires or the account is removed.
// A nil client disables it; tokens are then checked against the user table only.
type Sessions struct {
	Redis *redis.Client
	TTL   time.Duration
}

func NewSessions(rdb *redis.Client, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Sessions{Redis: rdb, TTL: ttl}
}

func (s *Sessions) Enabled() bool { return s != nil && s.Redis != nil }

// Start records a fresh session id for u alongside any existing ones.
func (s *Sessions) Start(ctx context.Context, u *entity.User) (string, error) {
	sid := uuid.NewString()
	if !s.Enabled() {
		return sid, nil
	}
	key := sessionKey(u.ID, sid)
	set := sessionSetKey(u.ID)
	pipe := s.Redis.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    u.ID,
		"email":      u.Email,
		"username":   u.DisplayName(),
		"created_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, s.TTL)
	pipe.SAdd(ctx, set, sid)
	pipe.Expire(ctx, set, s.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return sid, nil
}

// Resolve returns the identity stored for the session, or ErrUnauthenticated
// once it expired or was revoked.
func (s *Sessions) Resolve(ctx context.Context, userID int64, sid string) (*entity.Identity, error) {
	if sid == "" {
		return nil, ErrUnauthenticated
	}
	data, err := s.Redis.HGetAll(ctx, sessionKey(userID, sid)).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || data["user_id"] != strconv.FormatInt(userID, 10) {
		return nil, ErrUnauthenticated
	}
	return &entity.Identity{
		UserID:    userID,
		Email:     data["email"],
		Username:  data["username"],
		SessionID: sid,
	}, nil
}

// End revokes every session of userID.
func (s *Sessions) End(ctx context.Context, userID int64) error {
	if !s.Enabled() {
		return nil
	}
	set := sessionSetKey(userID)
	sids, err := s.Redis.SMembers(ctx, set).Result()
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(sids)+1)
	for _, sid := range sids {
		keys = append(keys, sessionKey(userID, sid))
	}
	keys = append(keys, set)
	return s.Redis.Del(ctx, keys...).Err()
}
