package cache

import (
	"sync"
	"time"
)

// In-memory fallback used when no Redis server is reachable and in tests.
var (
	mockMode  bool
	mockMutex sync.Mutex
	mockData  = make(map[string]mockEntry)
)

type mockEntry struct {
	value     string
	expiresAt time.Time
}

func mockGet(key string) (string, bool) {
	mockMutex.Lock()
	defer mockMutex.Unlock()
	e, ok := mockData[key]
	if !ok {
		return "", false
	}
	if time.Now().After(e.expiresAt) {
		delete(mockData, key)
		return "", false
	}
	return e.value, true
}

func mockSet(key, value string, ttl time.Duration) {
	mockMutex.Lock()
	defer mockMutex.Unlock()
	mockData[key] = mockEntry{value: value, expiresAt: time.Now().Add(ttl)}
}

func mockDelete(key string) {
	mockMutex.Lock()
	defer mockMutex.Unlock()
	delete(mockData, key)
}

// ResetMock clears the in-memory cache. Intended for tests.
func ResetMock() {
	mockMutex.Lock()
	defer mockMutex.Unlock()
	mockData = make(map[string]mockEntry)
}

// EnableMockMode forces the in-memory cache, bypassing Redis. Intended for
// tests; production code should go through InitRedis.
func EnableMockMode() {
	mockMutex.Lock()
	defer mockMutex.Unlock()
	mockMode = true
	initialized = true
}
