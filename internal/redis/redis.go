package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Pairing codes live here while a device waits for an admin to claim it.
const pairingTTL = 15 * time.Minute

var ErrCodeNotFound = errors.New("pairing code not found or expired")

type Client struct {
	rdb *redis.Client
}

func NewClient(address, username, password string) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     address,
			Username: username,
			Password: password,
			DB:       0,
		}),
	}
}

// StashPairingCode stores code -> deviceToken until the code expires or is
// claimed.
func (c *Client) StashPairingCode(ctx context.Context, code, deviceToken string) error {
	if err := c.rdb.Set(ctx, pairingKey(code), deviceToken, pairingTTL).Err(); err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to stash pairing code")
		return err
	}
	return nil
}

// ClaimPairingCode fetches and consumes the device token behind a code.
func (c *Client) ClaimPairingCode(ctx context.Context, code string) (string, error) {
	deviceToken, err := c.rdb.GetDel(ctx, pairingKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeNotFound
	}
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("failed to claim pairing code")
		return "", err
	}
	return deviceToken, nil
}

func pairingKey(code string) string {
	return "pairing:" + code
}
