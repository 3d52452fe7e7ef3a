package httpapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AbelC27/AcessIT/internal/accessit/service"
	"github.com/AbelC27/AcessIT/internal/accessit/store"
	"github.com/AbelC27/AcessIT/internal/accessit/store/memory"
	"github.com/AbelC27/AcessIT/internal/accessit/types"
	"github.com/AbelC27/AcessIT/internal/httpapi"
)

// newTestServer wires the full dependency graph over in-memory stores and
// returns an httptest.Server plus the clock hour the service decides at.
func newTestServer(t *testing.T, hour int) *httptest.Server {
	t.Helper()

	users := memory.NewUserStore([]store.UserRecord{
		{ID: "emp-1", Name: "Ana Pop", BluetoothCode: "AABBCCDD", AllowedSchedule: "08:00-18:00"},
	})
	logs := memory.NewAccessLogStore()

	svc := service.NewAccessService(service.Deps{
		Users: users,
		Logs:  logs,
		Now: func() time.Time {
			return time.Date(2026, time.March, 9, hour, 0, 0, 0, time.UTC)
		},
	})

	srv := httpapi.NewServer(httpapi.Dependencies{
		Logger:        zap.NewNop(),
		Addr:          ":0",
		AccessService: svc,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postValidate(t *testing.T, ts *httptest.Server, bleCode string) (*http.Response, types.ValidateResponse) {
	t.Helper()

	resp, err := http.Post(ts.URL+"/validate?ble_code="+url.QueryEscape(bleCode), "application/json", nil)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var out types.ValidateResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestValidate_InsideWindow_Granted(t *testing.T) {
	ts := newTestServer(t, 9)

	resp, out := postValidate(t, ts, "AABBCCDD")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.True(t, out.Granted)
	assert.Equal(t, "Acces permis!", out.Message)
	assert.NotEmpty(t, out.LogID)
}

func TestValidate_UnknownUser_404(t *testing.T) {
	ts := newTestServer(t, 9)

	resp, _ := postValidate(t, ts, "NOSUCH")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidate_MissingCode_400(t *testing.T) {
	ts := newTestServer(t, 9)

	resp, err := http.Post(ts.URL+"/validate", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckAccessStatus_UnknownLog_404(t *testing.T) {
	ts := newTestServer(t, 9)

	resp, err := http.Get(ts.URL + "/check-access-status?log_id=no-such-id")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestApprove_BadBool_400(t *testing.T) {
	ts := newTestServer(t, 9)

	resp, err := http.Post(ts.URL+"/approve?log_id=x&approve=maybe", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Out-of-hours scan goes pending, an admin approves it, and the poller then
// sees the grant.
func TestPendingFlow_ApproveThenPoll(t *testing.T) {
	ts := newTestServer(t, 20)

	resp, out := postValidate(t, ts, "AABBCCDD")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.False(t, out.Granted)
	require.Equal(t, "pending", out.Message)
	require.NotEmpty(t, out.LogID)

	// Poll: still pending.
	stResp, err := http.Get(ts.URL + "/check-access-status?log_id=" + out.LogID)
	require.NoError(t, err)
	defer stResp.Body.Close()
	require.Equal(t, http.StatusOK, stResp.StatusCode)

	var st types.StatusResponse
	require.NoError(t, json.NewDecoder(stResp.Body).Decode(&st))
	assert.False(t, st.Granted)
	assert.Equal(t, "pending", st.Message)

	// Admin approves.
	apResp, err := http.Post(ts.URL+"/approve?log_id="+out.LogID+"&approve=true", "application/json", nil)
	require.NoError(t, err)
	defer apResp.Body.Close()
	require.Equal(t, http.StatusOK, apResp.StatusCode)

	var ack types.ApproveResponse
	require.NoError(t, json.NewDecoder(apResp.Body).Decode(&ack))
	assert.True(t, ack.OK)

	// Poll again: granted with the admin message.
	st2Resp, err := http.Get(ts.URL + "/check-access-status?log_id=" + out.LogID)
	require.NoError(t, err)
	defer st2Resp.Body.Close()
	require.Equal(t, http.StatusOK, st2Resp.StatusCode)

	var st2 types.StatusResponse
	require.NoError(t, json.NewDecoder(st2Resp.Body).Decode(&st2))
	assert.True(t, st2.Granted)
	assert.Equal(t, "Acces permis de admin", st2.Message)
}

func TestPendingFlow_RejectThenPoll(t *testing.T) {
	ts := newTestServer(t, 20)

	_, out := postValidate(t, ts, "AABBCCDD")
	require.NotEmpty(t, out.LogID)

	apResp, err := http.Post(ts.URL+"/approve?log_id="+out.LogID+"&approve=false", "application/json", nil)
	require.NoError(t, err)
	defer apResp.Body.Close()
	require.Equal(t, http.StatusOK, apResp.StatusCode)

	stResp, err := http.Get(ts.URL + "/check-access-status?log_id=" + out.LogID)
	require.NoError(t, err)
	defer stResp.Body.Close()

	var st types.StatusResponse
	require.NoError(t, json.NewDecoder(stResp.Body).Decode(&st))
	assert.False(t, st.Granted)
	assert.Equal(t, "Acces respins de admin", st.Message)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, 9)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
