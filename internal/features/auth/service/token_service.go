package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"terminal-commons/internal/core/cache"
	"terminal-commons/internal/features/shipments/ports"
)

const tokenCacheKey = "auth:token:ptp"

// TokenService hands out the bearer token for the PTP terminal API. The token
// is rotated externally into the auth_tokens table; the newest row wins. A
// cache in front keeps scraper runs from hammering the table.
type TokenService struct {
	tokens ports.TokenRepository
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewTokenService creates a TokenService with the given cache TTL.
func NewTokenService(tokens ports.TokenRepository, c cache.Cache, ttl time.Duration, logger *zap.Logger) *TokenService {
	return &TokenService{tokens: tokens, cache: c, ttl: ttl, logger: logger}
}

// GetToken returns the current bearer token, from cache when fresh.
func (s *TokenService) GetToken(ctx context.Context) (string, error) {
	if cached, err := s.cache.Get(ctx, tokenCacheKey); err == nil {
		return string(cached), nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache should not block scraping; fall through to the table.
		s.logger.Warn("Token cache lookup failed", zap.Error(err))
	}

	row, err := s.tokens.GetLatest()
	if err != nil {
		return "", fmt.Errorf("load auth token: %w", err)
	}

	if err := s.cache.Set(ctx, tokenCacheKey, []byte(row.Token), s.ttl); err != nil {
		s.logger.Warn("Token cache write failed", zap.Error(err))
	}
	return row.Token, nil
}

// Invalidate drops the cached token so the next GetToken re-reads the table.
// Scrapers call it after a 401 from the terminal API.
func (s *TokenService) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, tokenCacheKey); err != nil {
		return fmt.Errorf("invalidate token cache: %w", err)
	}
	return nil
}
