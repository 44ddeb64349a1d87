package realtime

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"os"
	"strings"
)

// Signer authenticates events crossing Redis between console instances.
// The MAC covers the session topic as well as the payload, so a message
// captured on one session's topic cannot be replayed onto another.
type Signer struct {
	secret []byte
}

// SignerFromEnv returns nil when REALTIME_SIGNING_SECRET is unset, which
// leaves Redis payloads unsigned.
func SignerFromEnv() *Signer {
	secret := strings.TrimSpace(os.Getenv("REALTIME_SIGNING_SECRET"))
	if secret == "" {
		return nil
	}
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) mac(topic string, payload []byte) []byte {
	m := hmac.New(sha256.New, s.secret)
	_, _ = m.Write([]byte(topic))
	_, _ = m.Write([]byte{0})
	_, _ = m.Write(payload)
	return m.Sum(nil)
}

// Sign returns the base64url MAC of payload on topic.
func (s *Signer) Sign(topic string, payload []byte) string {
	return base64.RawURLEncoding.EncodeToString(s.mac(topic, payload))
}

func (s *Signer) Verify(topic string, payload []byte, sig string) bool {
	if s == nil || topic == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(sig))
	if err != nil {
		return false
	}
	return hmac.Equal(raw, s.mac(topic, payload))
}
