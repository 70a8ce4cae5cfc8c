package cipher

import (
	"bytes"
	"crypto/aes"
	stdcipher "crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mcoot/mtlobby/internal/dependencies/random"
	"github.com/mcoot/mtlobby/internal/model"
)

// PrefixLength is the number of random bytes preceding the identity JSON
const PrefixLength = 20

// ErrInvalidKey is returned when the pre-shared key is not a valid AES key size
var ErrInvalidKey = errors.New("cipher key must be 16, 24 or 32 bytes")

// Service decrypts identity blobs sealed by the game server.
// Blobs are base64(AES-CBC(prefix || json)) with PKCS#7 padding and the
// IV fixed to the first block of the key.
type Service struct {
	block  stdcipher.Block
	iv     []byte
	random random.Random
}

// New creates a cipher service for the given pre-shared key
func New(key []byte, rnd random.Random) (*Service, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create block cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	copy(iv, key[:aes.BlockSize])

	return &Service{
		block:  block,
		iv:     iv,
		random: rnd,
	}, nil
}

// Decrypt turns an encoded identity blob into an Identity.
// Every failure wraps model.ErrDecrypt.
func (s *Service) Decrypt(blob []byte) (*model.Identity, error) {
	raw, err := decodeBase64(bytes.TrimSpace(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecrypt, err)
	}

	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of the block size", model.ErrDecrypt, len(raw))
	}

	plain := make([]byte, len(raw))
	stdcipher.NewCBCDecrypter(s.block, s.iv).CryptBlocks(plain, raw)

	plain, err = unpad(plain)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecrypt, err)
	}

	if len(plain) <= PrefixLength {
		return nil, fmt.Errorf("%w: plaintext shorter than prefix", model.ErrDecrypt)
	}

	var identity model.Identity
	if err := json.Unmarshal(plain[PrefixLength:], &identity); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDecrypt, err)
	}

	if identity.PlayerID == "" {
		return nil, fmt.Errorf("%w: identity has no user_token", model.ErrDecrypt)
	}

	return &identity, nil
}

// Encrypt seals an identity into a blob that Decrypt accepts
func (s *Service) Encrypt(identity *model.Identity) ([]byte, error) {
	body, err := json.Marshal(identity)
	if err != nil {
		return nil, fmt.Errorf("marshal identity: %w", err)
	}

	plain := append(s.random.Bytes(PrefixLength), body...)
	plain = pad(plain)

	out := make([]byte, len(plain))
	stdcipher.NewCBCEncrypter(s.block, s.iv).CryptBlocks(out, plain)

	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(out)))
	base64.StdEncoding.Encode(encoded, out)
	return encoded, nil
}

// decodeBase64 accepts padded and unpadded standard base64
func decodeBase64(in []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(in)))
	n, err := base64.StdEncoding.Decode(out, in)
	if err == nil {
		return out[:n], nil
	}

	out = make([]byte, base64.RawStdEncoding.DecodedLen(len(in)))
	n, rawErr := base64.RawStdEncoding.Decode(out, in)
	if rawErr != nil {
		return nil, err
	}
	return out[:n], nil
}

func pad(b []byte) []byte {
	n := aes.BlockSize - len(b)%aes.BlockSize
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("empty plaintext")
	}
	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, errors.New("invalid padding")
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
