package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Signature headers sent with every webhook delivery.
const (
	HeaderWebhookID        = "svix-id"
	HeaderWebhookTimestamp = "svix-timestamp"
	HeaderWebhookSignature = "svix-signature"
)

const secretPrefix = "whsec_"

var (
	// ErrMissingHeaders is returned when a delivery lacks one of the signature headers.
	ErrMissingHeaders = errors.New("missing webhook signature headers")
	// ErrInvalidTimestamp is returned for unparsable or out-of-tolerance timestamps.
	ErrInvalidTimestamp = errors.New("invalid webhook timestamp")
	// ErrInvalidSignature is returned when no signature matches the body.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Verifier checks webhook signatures: base64 HMAC-SHA256 over "id.timestamp.body".
type Verifier struct {
	key       []byte
	tolerance time.Duration
	now       func() time.Time
}

// NewVerifier decodes a whsec_ secret. A secret without the prefix is used as raw base64.
func NewVerifier(secret string, tolerance time.Duration) (*Verifier, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, secretPrefix))
	if err != nil {
		return nil, fmt.Errorf("failed to decode webhook secret: %w", err)
	}
	if len(key) == 0 {
		return nil, errors.New("webhook secret is empty")
	}
	return &Verifier{key: key, tolerance: tolerance, now: time.Now}, nil
}

// Sign returns the v1 signature for a delivery.
func (v *Verifier) Sign(id string, ts time.Time, body []byte) string {
	mac := hmac.New(sha256.New, v.key)
	mac.Write([]byte(id + "." + strconv.FormatInt(ts.Unix(), 10) + "."))
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks the headers of one delivery against its body.
// The signature header may carry several space separated signatures.
func (v *Verifier) Verify(id, timestamp, signatures string, body []byte) error {
	if id == "" || timestamp == "" || signatures == "" {
		return ErrMissingHeaders
	}

	secs, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimestamp, err)
	}
	ts := time.Unix(secs, 0)
	if skew := v.now().Sub(ts); skew > v.tolerance || skew < -v.tolerance {
		return fmt.Errorf("%w: outside tolerance of %s", ErrInvalidTimestamp, v.tolerance)
	}

	expected := []byte(v.Sign(id, ts, body))
	for _, sig := range strings.Fields(signatures) {
		if !strings.HasPrefix(sig, "v1,") {
			continue
		}
		if hmac.Equal([]byte(sig), expected) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// SignatureMiddleware rejects deliveries whose signature does not verify.
// A nil verifier lets every request through.
func SignatureMiddleware(v *Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v == nil {
			return c.Next()
		}

		err := v.Verify(
			c.Get(HeaderWebhookID),
			c.Get(HeaderWebhookTimestamp),
			c.Get(HeaderWebhookSignature),
			c.Body(),
		)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Next()
	}
}
