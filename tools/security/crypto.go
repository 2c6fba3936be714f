package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	errs "PPSocial/tools/errs"
)

// MessageCipher 消息落库加密（AES-GCM，单条消息随机 nonce）。
// 载荷 = nonce || ciphertext，raw base64 编码后入库。
// 同一明文两次加密产生不同密文，存储侧观察不到消息内容相等性。
type MessageCipher struct {
	aead cipher.AEAD
}

// NewMessageCipher key 长度须为 16/24/32 字节（AES-128/192/256）
func NewMessageCipher(key []byte) (*MessageCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errs.WrapMsg(err, "new cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errs.WrapMsg(err, "new gcm")
	}
	return &MessageCipher{aead: aead}, nil
}

// Encrypt 加密一条消息正文
func (c *MessageCipher) Encrypt(plaintext string) (string, error) {
	if c == nil || c.aead == nil {
		return "", errs.ErrCrypto.WrapMsg("cipher not initialized")
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errs.ErrCrypto.WrapMsg("read nonce")
	}
	ct := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return base64.RawStdEncoding.EncodeToString(append(nonce, ct...)), nil
}

// Decrypt 解密一条消息正文；密文被篡改或密钥不符都会失败
func (c *MessageCipher) Decrypt(encoded string) (string, error) {
	if c == nil || c.aead == nil {
		return "", errs.ErrCrypto.WrapMsg("cipher not initialized")
	}
	payload, err := base64.RawStdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errs.ErrCrypto.WrapMsg("decode payload")
	}
	nonceSize := c.aead.NonceSize()
	if len(payload) < nonceSize {
		return "", errs.ErrCrypto.WrapMsg("payload too short")
	}
	plain, err := c.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], nil)
	if err != nil {
		// 不透出底层 cipher 细节
		return "", errs.ErrCrypto.Wrap()
	}
	return string(plain), nil
}
