package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatsUpdater(t *testing.T) {
	su := NewStatsUpdater()
	assert.NotNil(t, su, "expected StatsUpdater to be non-nil")
	assert.NotNil(t, su.updateChan, "expected updateChan to be initialized")

	su.RegisterMetric(CampaignsCreated)

	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	rr := httptest.NewRecorder()
	su.ExpvarHandler(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "expected 200 from expvar handler")

	var body map[string]any
	err := json.Unmarshal(rr.Body.Bytes(), &body)
	assert.NoError(t, err, "expected valid JSON body")
	assert.Contains(t, body, CampaignsCreated, "expected registered metric to be present")
	assert.Contains(t, body, "Uptime", "expected uptime metric to be present")
}
