package operation

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-primary/model/flow"
)

func TestPayloadKey(t *testing.T) {
	var digest flow.BatchDigest
	digest[0] = 0xab

	key := PayloadKey(digest, 0x01020304)
	require.Len(t, key, 1+flow.DigestLength+4)
	assert.Equal(t, byte(codePayload), key[0])
	assert.Equal(t, digest[:], key[1:1+flow.DigestLength])
	assert.Equal(t, []byte{1, 2, 3, 4}, key[1+flow.DigestLength:])
	assert.True(t, bytes.HasPrefix(key, PayloadPrefix(digest)))

	id, err := PayloadWorker(key)
	require.NoError(t, err)
	assert.Equal(t, flow.WorkerID(0x01020304), id)

	_, err = PayloadWorker(key[:len(key)-1])
	assert.Error(t, err)
	_, err = PayloadWorker(VersionKey())
	assert.Error(t, err)
}

// TestPayloadKey_Order checks that keys of one digest sort by worker ID.
func TestPayloadKey_Order(t *testing.T) {
	var digest flow.BatchDigest
	assert.Equal(t, -1, bytes.Compare(PayloadKey(digest, 255), PayloadKey(digest, 256)))
	assert.Equal(t, -1, bytes.Compare(PayloadKey(digest, 0), PayloadKey(digest, 1<<31)))
}

func TestPrefixUpperBound(t *testing.T) {
	assert.Equal(t, []byte{1, 3}, PrefixUpperBound([]byte{1, 2}))
	assert.Equal(t, []byte{2}, PrefixUpperBound([]byte{1, 0xff}))
	assert.Nil(t, PrefixUpperBound([]byte{0xff, 0xff}))
}
