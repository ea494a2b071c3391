package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/academy-adp-api/internal/dto"
)

type fakeDashboardSrv struct {
	resp *dto.AdminDashboardResponse
	hit  bool
	err  error
}

func (f *fakeDashboardSrv) Admin(context.Context) (*dto.AdminDashboardResponse, bool, error) {
	return f.resp, f.hit, f.err
}

func TestDashboardHandlerAdminCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &dto.AdminDashboardResponse{
			Counts:         dto.DashboardCounts{Trainees: 120},
			AttendanceRate: 0.87,
		},
		hit: true,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Admin(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.NotNil(t, envelope.Meta["processing_time_ms"])
	counts, _ := envelope.Data["counts"].(map[string]interface{})
	assert.Equal(t, float64(120), counts["trainees"])
}

func TestDashboardHandlerAdminMiss(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{
		resp: &dto.AdminDashboardResponse{},
		hit:  false,
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard", nil)

	handler.Admin(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	assert.Equal(t, false, envelope.Meta["cache_hit"])
}

type responseEnvelope struct {
	Data map[string]interface{} `json:"data"`
	Meta map[string]interface{} `json:"meta"`
}
