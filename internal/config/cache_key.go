package config

import "fmt"

type CacheKeyStruct struct{}

// CacheKey centralizes every Redis key format used by the application.
var CacheKey = &CacheKeyStruct{}

// UserSessionKey returns the cache key holding a user's active login JTI.
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}
