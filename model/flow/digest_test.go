package flow_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-primary/model/flow"
	"github.com/onflow/flow-primary/utils/unittest"
)

func TestHexStringToBatchDigest(t *testing.T) {
	digest := unittest.BatchDigestFixture()

	decoded, err := flow.HexStringToBatchDigest(digest.String())
	require.NoError(t, err)
	assert.Equal(t, digest, decoded)
	assert.Equal(t, digest, flow.MustHexStringToBatchDigest(digest.String()))

	for _, invalid := range []string{
		"",
		"abcd",
		strings.Repeat("a", 2*flow.DigestLength+2),
		strings.Repeat("z", 2*flow.DigestLength),
	} {
		_, err := flow.HexStringToBatchDigest(invalid)
		assert.Error(t, err, invalid)
	}
	assert.Panics(t, func() { flow.MustHexStringToBatchDigest("abcd") })
}

func TestBatchDigest_Text(t *testing.T) {
	digest := unittest.BatchDigestFixture()
	text, err := digest.MarshalText()
	require.NoError(t, err)

	var decoded flow.BatchDigest
	require.NoError(t, decoded.UnmarshalText(text))
	assert.Equal(t, digest, decoded)
	assert.Equal(t, digest.String()[:8], digest.TerminalString())
}

func TestMakeBatchDigest(t *testing.T) {
	a := flow.MakeBatchDigest([][]byte{[]byte("tx1"), []byte("tx2")})
	b := flow.MakeBatchDigest([][]byte{[]byte("tx1"), []byte("tx2")})
	c := flow.MakeBatchDigest([][]byte{[]byte("tx2"), []byte("tx1")})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, flow.ZeroDigest, a)
}
