package kvcache

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "रंग|hi", []byte(`{"word":"रंग"}`)))
	v, found, err := s.Get(ctx, "रंग|hi")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"word":"रंग"}`, string(v))

	require.NoError(t, s.Set(ctx, "रंग|hi", []byte(`{"word":"rang"}`)))
	v, _, err = s.Get(ctx, "रंग|hi")
	require.NoError(t, err)
	assert.JSONEq(t, `{"word":"rang"}`, string(v))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.Set(ctx, "race", []byte("same")))
		}()
	}
	wg.Wait()
	v, found, err = s.Get(ctx, "race")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "same", string(v))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	assert.Equal(t, 2, s.Len())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.list")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, s)

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	v, found, err := reloaded.Get(context.Background(), "रंग|hi")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"word":"rang"}`, string(v))

	require.NoError(t, reloaded.Set(context.Background(), "multi", []byte("a\nb")))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "multi")
}

func TestJSONHelpersAndPrefix(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	s := WithPrefix(base, "ety:")

	type rec struct {
		Word string `json:"word"`
	}
	require.NoError(t, SetJSON(ctx, s, "ishq", rec{Word: "ishq"}))

	got, found, err := GetJSON[rec](ctx, s, "ishq")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "ishq", got.Word)

	_, found, _ = base.Get(ctx, "ety:ishq")
	assert.True(t, found)

	require.NoError(t, base.Set(ctx, "ety:broken", []byte("{")))
	_, found, err = GetJSON[rec](ctx, s, "broken")
	assert.Error(t, err)
	assert.False(t, found)
}

type fakeRedis struct {
	mu sync.Mutex
	m  map[string][]byte
}

func (f *fakeRedis) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.m[key]
	return v, ok, nil
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[key] = append([]byte(nil), value.([]byte)...)
	return nil
}

func TestRedisStore(t *testing.T) {
	exerciseStore(t, &RedisStore{client: &fakeRedis{m: map[string][]byte{}}})
}
