package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreekavinmr/masterminds-backend/internal/models"
	appErrors "github.com/Shreekavinmr/masterminds-backend/pkg/errors"
)

type inquiryServiceMock struct {
	err error
}

func (m *inquiryServiceMock) Contact(ctx context.Context, req models.ContactRequest) (*models.InquiryResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.InquiryResult{Success: true}, nil
}

func (m *inquiryServiceMock) Enroll(ctx context.Context, req models.EnrollInquiryRequest) (*models.InquiryResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.InquiryResult{Success: true}, nil
}

func TestContactSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewInquiryHandler(&inquiryServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/contact", models.ContactRequest{Name: "Priya"})

	h.Contact(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Contains(t, w.Body.String(), "Message sent successfully")
}

func TestContactMissingAdminEmail(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfgErr := appErrors.New(appErrors.ErrInternal.Code, http.StatusInternalServerError, "Server configuration error")
	h := NewInquiryHandler(&inquiryServiceMock{err: cfgErr})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/contact", models.ContactRequest{Name: "Priya"})

	h.Contact(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Server configuration error")
}

func TestEnrollInquiryMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewInquiryHandler(&inquiryServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/enroll", "[")

	h.Enroll(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Missing required fields")
}

type metricsSourceStub struct{}

func (metricsSourceStub) Handler() http.Handler { return promhttp.Handler() }

func (metricsSourceStub) Snapshot() models.SystemMetrics {
	return models.SystemMetrics{RequestsTotal: 7}
}

func TestReadyReportsFailingDependency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(metricsSourceStub{}, map[string]Pinger{
		"postgres": PingFunc(func(ctx context.Context) error { return nil }),
		"redis":    PingFunc(func(ctx context.Context) error { return errors.New("connection refused") }),
	})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

	h.Ready(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"postgres":"ok"`)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestHealthIncludesSnapshot(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewMetricsHandler(metricsSourceStub{}, nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	h.Health(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.Contains(t, w.Body.String(), `"requestsTotal":7`)
}
