package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	rec := New()
	app := fiber.New()
	app.Use(rec.Middleware())
	app.Get("/users/:id", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest("GET", "/users/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.httpRequests.WithLabelValues("GET", "/users/:id", "200")))
}

func TestObserveIdentityEvent(t *testing.T) {
	rec := New()
	rec.ObserveIdentityEvent("user.created", "create", time.Millisecond)
	rec.ObserveIdentityEvent("user.created", "create", time.Millisecond)
	rec.ObserveIdentityEvent("user.updated", "conflict", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.identityEvents.WithLabelValues("user.created", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.identityEvents.WithLabelValues("user.updated", "conflict")))
}

func TestNilRecorder(t *testing.T) {
	var rec *Recorder
	assert.NotPanics(t, func() {
		rec.ObserveIdentityEvent("user.created", "create", time.Second)
	})

	app := fiber.New()
	app.Use(rec.Middleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHandler(t *testing.T) {
	rec := New()
	rec.ObserveIdentityEvent("user.created", "create", time.Millisecond)

	app := fiber.New()
	app.Get("/metrics", rec.Handler())

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `feedback_identity_events_total{result="create",type="user.created"} 1`)
}
