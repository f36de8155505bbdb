package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// кэш ответа GET /api/form-builder.
// Запись лежит под ключом своего поколения; любая запись в базу увеличивает поколение,
// так что список, прочитанный до записи, больше никогда не будет отдан.
const (
	sectionsKey    = servicePrefix + "sections.all."
	sectionsGenKey = servicePrefix + "sections.gen"
)

func getSectionsKey(gen int64) string {
	return sectionsKey + strconv.FormatInt(gen, 10)
}

// SectionsGeneration текущее поколение кэша; 0 если записей ещё не было
func (c *Client) SectionsGeneration(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, sectionsGenKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return gen, nil
}

// GetSections возвращает закэшированный список разделов; ok=false если кэш пуст
func (c *Client) GetSections(ctx context.Context, gen int64) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, getSectionsKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *Client) SetSections(ctx context.Context, gen int64, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, getSectionsKey(gen), data, ttl).Err()
}

// InvalidateSections переводит кэш на следующее поколение
func (c *Client) InvalidateSections(ctx context.Context) error {
	return c.client.Incr(ctx, sectionsGenKey).Err()
}
