package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *memStore) Set(_ context.Context, key, value string, _ time.Duration) {
	m.data[key] = value
}

func newCachedRouter(store ResponseStore, hits *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/things/:id", CacheMiddleware(store, time.Minute), func(c *gin.Context) {
		*hits++
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id")})
	})
	return r
}

func TestCacheMiddlewareServesSecondRequestFromStore(t *testing.T) {
	store := newMemStore()
	hits := 0
	r := newCachedRouter(store, &hits)

	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	require.Equal(t, http.StatusOK, w1.Code)
	require.Equal(t, 1, hits)

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	require.Equal(t, http.StatusOK, w2.Code)
	require.Equal(t, 1, hits, "second request served from cache")
	require.JSONEq(t, w1.Body.String(), w2.Body.String())
}

func TestCacheMiddlewareKeysByURI(t *testing.T) {
	store := newMemStore()
	hits := 0
	r := newCachedRouter(store, &hits)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/things/2", nil))
	require.Equal(t, 2, hits)
}

func TestCacheMiddlewareSkipsErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	r := gin.New()
	r.GET("/fail", CacheMiddleware(store, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "nope"})
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Empty(t, store.data)
}
