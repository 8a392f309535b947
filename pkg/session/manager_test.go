package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/homemade/pickleshop/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.SessionConfig {
	return config.SessionConfig{CookieName: "sid", TTL: time.Hour}
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(nil, testConfig(), nil)
	require.Error(t, err)

	_, err = NewManager(NewMemoryStore(), config.SessionConfig{CookieName: "sid"}, nil)
	require.Error(t, err)

	_, err = NewManager(NewMemoryStore(), config.SessionConfig{TTL: time.Hour}, nil)
	require.Error(t, err)
}

func TestMiddlewarePersistsAcrossRequests(t *testing.T) {
	store := NewMemoryStore()
	mgr, err := NewManager(store, testConfig(), nil)
	require.NoError(t, err)

	handler := mgr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := FromContext(r.Context())
		if sess.MarkVisited() {
			sess.AddFlash("welcome")
			fmt.Fprint(w, "first")
			return
		}
		fmt.Fprintf(w, "again:%v", sess.PopFlashes())
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "first", first.Body.String())

	cookies := first.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	assert.Equal(t, "again:[welcome]", second.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	third := httptest.NewRecorder()
	handler.ServeHTTP(third, req)
	assert.Equal(t, "again:[]", third.Body.String())
}

func TestMiddlewareReplacesUnknownCookie(t *testing.T) {
	mgr, err := NewManager(NewMemoryStore(), testConfig(), nil)
	require.NoError(t, err)

	var seen *Session
	handler := mgr.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "stale"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, seen)
	assert.True(t, seen.New())
	assert.NotEqual(t, "stale", seen.ID)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	sess := newSession("abc")
	sess.Login("asha")
	require.NoError(t, store.Save(context.Background(), sess, time.Minute))

	loaded, err := store.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, loaded.LoggedIn)
	assert.Equal(t, "asha", loaded.Username)
	assert.False(t, loaded.New())
	assert.False(t, loaded.Dirty())

	now = now.Add(2 * time.Minute)
	_, err = store.Load(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreSweepsExpiredOnSave(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.Save(context.Background(), newSession(fmt.Sprintf("s-%d", i)), time.Minute))
	}
	require.NoError(t, store.Save(context.Background(), newSession("forever"), 0))
	assert.Len(t, store.entries, 1001)

	now = now.Add(time.Hour)
	require.NoError(t, store.Save(context.Background(), newSession("fresh"), time.Minute))
	assert.Len(t, store.entries, 2)
	assert.Contains(t, store.entries, "fresh")
	assert.Contains(t, store.entries, "forever")
}

func TestSessionValues(t *testing.T) {
	sess := newSession("abc")
	require.NoError(t, sess.Set("numbers", []int{1, 2}))

	var got []int
	ok, err := sess.Get("numbers", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []int{1, 2}, got)

	sess.Delete("numbers")
	ok, err = sess.Get("numbers", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

type fakeKV struct {
	data map[string]string
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.data[key] = fmt.Sprint(value)
	return nil
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", errMissing
	}
	return v, nil
}

func (f *fakeKV) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

type prefixKeyer struct{}

func (prefixKeyer) SessionKey(id string) string { return "pickle:session:" + id }

var errMissing = fmt.Errorf("missing")

func TestRedisStoreRoundTrip(t *testing.T) {
	kv := &fakeKV{data: map[string]string{}}
	store := &RedisStore{kv: kv, keyer: prefixKeyer{}}

	sess := newSession("abc")
	sess.AddFlash("hello")
	require.NoError(t, store.Save(context.Background(), sess, time.Hour))
	assert.Contains(t, kv.data, "pickle:session:abc")

	loaded, err := store.Load(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, loaded.Flashes)

	require.NoError(t, store.Delete(context.Background(), "abc"))
	_, err = store.Load(context.Background(), "abc")
	assert.Error(t, err)
}
