package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// TokenRepository is an in-process blacklist for access tokens revoked by
// logout. Entries expire together with the token itself, so the cache never
// outgrows the set of live sessions.
type TokenRepository struct {
	cache *cache.Cache
}

func NewTokenRepository() *TokenRepository {
	c := cache.New(24*time.Hour, 10*time.Minute)
	return &TokenRepository{
		cache: c,
	}
}

func (r *TokenRepository) Revoke(tokenId string, until time.Time) {
	ttl := time.Until(until)
	if ttl <= 0 {
		return
	}
	r.cache.Set(tokenId, struct{}{}, ttl)
}

func (r *TokenRepository) IsRevoked(tokenId string) bool {
	_, found := r.cache.Get(tokenId)
	return found
}
