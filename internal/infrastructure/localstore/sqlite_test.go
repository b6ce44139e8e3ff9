package localstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almoxen-core/internal/infrastructure/localstore"
)

func newStore(t *testing.T) *localstore.Store {
	t.Helper()
	s, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Put(localstore.KeySnapshot, `{"users":[]}`))

	value, ok, err := s.Get(localstore.KeySnapshot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"users":[]}`, value)
}

func TestGet_ClaveAusente(t *testing.T) {
	s := newStore(t)

	_, ok, err := s.Get(localstore.KeySession)
	require.NoError(t, err)
	assert.False(t, ok, "clave ausente debe reportar ok=false, no error")
}

func TestPut_Reemplaza(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Put(localstore.KeySession, "ana@org.br"))
	require.NoError(t, s.Put(localstore.KeySession, "beto@org.br"))

	value, ok, _ := s.Get(localstore.KeySession)
	assert.True(t, ok)
	assert.Equal(t, "beto@org.br", value)
}

func TestDelete_Idempotente(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Put(localstore.KeySession, "ana@org.br"))
	require.NoError(t, s.Delete(localstore.KeySession))
	require.NoError(t, s.Delete(localstore.KeySession), "borrar clave inexistente no es error")

	_, ok, _ := s.Get(localstore.KeySession)
	assert.False(t, ok)
}
