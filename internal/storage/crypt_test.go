package storage

import (
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestSealOpenRoundtrip(t *testing.T) {
    plaintext := []byte("name,city\nalice,paris\n")

    sealed, err := sealGCM(plaintext, "s3cret")
    require.NoError(t, err)
    assert.True(t, strings.HasPrefix(string(sealed), gcmMagic))
    assert.NotContains(t, string(sealed), "alice")
    // magic + salt + nonce + ciphertext + tag
    assert.Len(t, sealed, len(gcmMagic)+saltSize+nonceSize+len(plaintext)+16)

    opened, err := openGCM(sealed, "s3cret")
    require.NoError(t, err)
    assert.Equal(t, plaintext, opened)
}

func TestOpenWrongPassword(t *testing.T) {
    sealed, err := sealGCM([]byte("payload"), "right")
    require.NoError(t, err)

    _, err = openGCM(sealed, "wrong")
    require.Error(t, err)
}

func TestOpenRejectsForeignData(t *testing.T) {
    _, err := openGCM([]byte("too short"), "pw")
    require.Error(t, err)

    junk := append([]byte("NOTMAGIC"), make([]byte, 64)...)
    _, err = openGCM(junk, "pw")
    require.Error(t, err)
}

func TestSealUsesFreshSaltAndNonce(t *testing.T) {
    a, err := sealGCM([]byte("same input"), "pw")
    require.NoError(t, err)
    b, err := sealGCM([]byte("same input"), "pw")
    require.NoError(t, err)
    assert.NotEqual(t, a, b)
}
