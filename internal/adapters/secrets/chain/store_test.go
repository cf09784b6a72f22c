package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XueJourney/AgentRound/internal/domain"
)

type stubStore struct {
	value   string
	err     error
	gets    int
	puts    int
	deletes int
}

func (s *stubStore) Get(ctx context.Context, key string) (string, error) {
	s.gets++
	return s.value, s.err
}

func (s *stubStore) Put(ctx context.Context, key string, value string) error {
	s.puts++
	return s.err
}

func (s *stubStore) Delete(ctx context.Context, key string) error {
	s.deletes++
	return s.err
}

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	primary := &stubStore{value: "from-pass"}
	fallback := &stubStore{value: "from-file"}
	store := NewStore(primary, fallback)

	value, err := store.Get(context.Background(), "api_key")
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
	assert.Zero(t, fallback.gets)
}

func TestStoreGetFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := &stubStore{err: errors.New("pass unavailable")}
	fallback := &stubStore{value: "from-file"}
	store := NewStore(primary, fallback)

	value, err := store.Get(context.Background(), "api_key")
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
	assert.Equal(t, 1, primary.gets)
	assert.Equal(t, 1, fallback.gets)
}

func TestStoreGetReturnsCombinedErrorWhenBothStoresFail(t *testing.T) {
	t.Parallel()

	primary := &stubStore{err: errors.New("pass failed")}
	fallback := &stubStore{err: errors.New("file failed")}
	store := NewStore(primary, fallback)

	_, err := store.Get(context.Background(), "api_key")
	require.Error(t, err)
	assert.ErrorContains(t, err, "primary store")
	assert.ErrorContains(t, err, "fallback store")
	assert.ErrorContains(t, err, "pass failed")
	assert.ErrorContains(t, err, "file failed")
}

func TestStoreGetMissingEverywhereStillReportsNotFound(t *testing.T) {
	t.Parallel()

	primary := &stubStore{err: domain.ErrSecretNotFound}
	fallback := &stubStore{err: domain.ErrSecretNotFound}
	store := NewStore(primary, fallback)

	_, err := store.Get(context.Background(), "api_key")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := &stubStore{err: errors.New("pass failed")}
	fallback := &stubStore{}
	store := NewStore(primary, fallback)

	err := store.Put(context.Background(), "api_key", "sk-test-value")
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.puts)
}

func TestStorePutDoesNotCallFallbackWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := &stubStore{}
	fallback := &stubStore{}
	store := NewStore(primary, fallback)

	err := store.Put(context.Background(), "api_key", "sk-test-value")
	require.NoError(t, err)
	assert.Equal(t, 1, primary.puts)
	assert.Zero(t, fallback.puts)
}

func TestStoreDeleteFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	primary := &stubStore{err: errors.New("pass failed")}
	fallback := &stubStore{}
	store := NewStore(primary, fallback)

	err := store.Delete(context.Background(), "api_key")
	require.NoError(t, err)
	assert.Equal(t, 1, fallback.deletes)
}

func TestStoreDeleteDoesNotCallFallbackWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	primary := &stubStore{}
	fallback := &stubStore{}
	store := NewStore(primary, fallback)

	err := store.Delete(context.Background(), "api_key")
	require.NoError(t, err)
	assert.Equal(t, 1, primary.deletes)
	assert.Zero(t, fallback.deletes)
}

func TestStoreGetDoesNotFallBackOnCanceledContext(t *testing.T) {
	t.Parallel()

	primary := &stubStore{err: context.Canceled}
	fallback := &stubStore{value: "from-file"}
	store := NewStore(primary, fallback)

	_, err := store.Get(context.Background(), "api_key")
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, fallback.gets)
}

func TestNewStoreCheckedRejectsNilStores(t *testing.T) {
	t.Parallel()

	_, err := NewStoreChecked(nil, &stubStore{})
	require.ErrorContains(t, err, "primary credential store is nil")

	_, err = NewStoreChecked(&stubStore{}, nil)
	require.ErrorContains(t, err, "fallback credential store is nil")
}
