package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probe(t *testing.T, endpoint http.HandlerFunc) (int, statusResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	endpoint(w, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestReadyEndpoint_NotReadyByDefault(t *testing.T) {
	h := New()

	code, resp := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Contains(t, resp.Checks, "_readiness")
}

func TestReadyEndpoint_ReadyAfterSet(t *testing.T) {
	h := New()
	h.SetReady(true)

	code, resp := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)

	// Draining flips it back.
	h.SetReady(false)
	code, _ = probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestFailingReadinessCheck(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddReadinessCheck("hub", time.Second, func(context.Context) error {
		return errors.New("hub is not running")
	})

	h.Start(context.Background(), time.Hour)
	defer h.Stop()

	// First run happens synchronously-enough: poll briefly.
	require.Eventually(t, func() bool {
		return !h.IsReady()
	}, 2*time.Second, 10*time.Millisecond)

	code, resp := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "hub is not running", resp.Checks["hub"])
}

func TestLiveEndpoint_HealthyChecks(t *testing.T) {
	h := New()
	h.AddLivenessCheck("goroutines", time.Second, GoroutineCountCheck(1_000_000))

	h.Start(context.Background(), time.Hour)
	defer h.Stop()

	code, resp := probe(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp.Status)
}

func TestLivenessDoesNotAffectReadiness(t *testing.T) {
	h := New()
	h.SetReady(true)
	h.AddLivenessCheck("always-bad", time.Second, func(context.Context) error {
		return errors.New("broken")
	})

	h.Start(context.Background(), time.Hour)
	defer h.Stop()

	require.Eventually(t, func() bool {
		code, _ := probe(t, h.LiveEndpoint)
		return code == http.StatusServiceUnavailable
	}, 2*time.Second, 10*time.Millisecond)

	code, _ := probe(t, h.ReadyEndpoint)
	assert.Equal(t, http.StatusOK, code)
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
