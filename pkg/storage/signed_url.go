package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// keyInfo is the HKDF context for download-token keys.
const keyInfo = "zoomwifi-console/export-download"

// Signer errors.
var (
	ErrMalformedToken = errors.New("malformed download token")
	ErrBadSignature   = errors.New("invalid download token signature")
	ErrTokenExpired   = errors.New("download token expired")
)

// Ticket is the content of a verified download token.
type Ticket struct {
	ExportID  string
	File      string
	ExpiresAt time.Time
}

// SignedURLSigner issues HMAC-signed, time-limited download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner builds a signer; ttl defaults to one hour.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SignedURLSigner{secret: deriveKey(secret), ttl: ttl, now: time.Now}
}

func deriveKey(secret string) []byte {
	if secret == "" {
		return nil
	}
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(keyInfo)), key); err != nil {
		return []byte(secret)
	}
	return key
}

// Generate signs a token for the export artifact.
func (s *SignedURLSigner) Generate(exportID, file string) (string, time.Time, error) {
	if exportID == "" || file == "" {
		return "", time.Time{}, fmt.Errorf("export id and file are required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	payload := strings.Join([]string{
		exportID,
		strconv.FormatInt(expiresAt.Unix(), 10),
		base64.RawURLEncoding.EncodeToString([]byte(file)),
	}, ".")
	return payload + "." + s.sign(payload), expiresAt, nil
}

// Verify checks the signature and expiry and returns the embedded ticket.
func (s *SignedURLSigner) Verify(token string) (Ticket, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return Ticket{}, ErrMalformedToken
	}
	payload := strings.Join(parts[:3], ".")
	if !hmac.Equal([]byte(s.sign(payload)), []byte(parts[3])) {
		return Ticket{}, ErrBadSignature
	}
	unix, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Ticket{}, ErrMalformedToken
	}
	file, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return Ticket{}, ErrMalformedToken
	}
	ticket := Ticket{ExportID: parts[0], File: string(file), ExpiresAt: time.Unix(unix, 0)}
	if s.now().After(ticket.ExpiresAt) {
		return ticket, ErrTokenExpired
	}
	return ticket, nil
}

func (s *SignedURLSigner) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
