package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Item struct {
	key, value []byte
}

func TestKVStore(t *testing.T) {
	basename := filepath.Join(t.TempDir(), "test_kvstore")

	writer, err := newKVStoreWriter(basename)
	require.NoError(t, err)

	testData := []Item{
		{key: []byte("apple"), value: []byte("fruit")},
		{key: []byte("carrot"), value: []byte("vegetable")},
		{key: []byte("dog"), value: []byte("animal")},
		{key: []byte("foo"), value: []byte("bar")},
		{key: []byte("hello"), value: []byte("world")},
	}

	for _, item := range testData {
		require.NoError(t, writer.Append(item.key, item.value))
	}

	require.NoError(t, writer.Close())

	reader, err := newKVStoreReader(basename)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, len(testData), reader.Len())

	for _, item := range testData {
		assert.Equal(t, item.value, reader.Get(item.key))
	}

	assert.Nil(t, reader.Get([]byte("9661c61e")))
	assert.Nil(t, reader.Get([]byte("zebra")))
}

func TestKVStoreRejectsUnsortedKeys(t *testing.T) {
	writer, err := newKVStoreWriter(filepath.Join(t.TempDir(), "unsorted"))
	require.NoError(t, err)
	defer writer.Close()

	require.NoError(t, writer.Append([]byte("b"), []byte("1")))
	assert.Error(t, writer.Append([]byte("a"), []byte("2")))
	assert.Error(t, writer.Append([]byte("b"), []byte("3")))
}

func TestKVStoreEmpty(t *testing.T) {
	basename := filepath.Join(t.TempDir(), "empty")

	writer, err := newKVStoreWriter(basename)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader, err := newKVStoreReader(basename)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, 0, reader.Len())
	assert.Nil(t, reader.Get([]byte("apple")))
}

func TestArrayStore(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "lengths")

	writer, err := newArrayStoreWriter(filename)
	require.NoError(t, err)
	require.NoError(t, writer.Append(3, 0, 17))
	require.NoError(t, writer.Close())

	reader, err := newArrayStoreReader(filename)
	require.NoError(t, err)
	defer reader.Close()

	assert.Equal(t, uint32(3), reader.Len())

	value, err := reader.Get(2)
	require.NoError(t, err)
	assert.Equal(t, uint32(17), value)

	_, err = reader.Get(3)
	assert.Error(t, err)
}

func TestUint32KeysKeepNumericOrder(t *testing.T) {
	basename := filepath.Join(t.TempDir(), "ids")

	writer, err := newKVStoreWriter(basename)
	require.NoError(t, err)

	ids := []uint32{0, 1, 255, 256, 65536, 1 << 31}
	for _, id := range ids {
		require.NoError(t, writer.Append(uint32Key(id), []byte{byte(id)}))
	}
	require.NoError(t, writer.Close())

	reader, err := newKVStoreReader(basename)
	require.NoError(t, err)
	defer reader.Close()

	for _, id := range ids {
		assert.Equal(t, []byte{byte(id)}, reader.Get(uint32Key(id)), id)
	}
	assert.Nil(t, reader.Get(uint32Key(2)))
}
