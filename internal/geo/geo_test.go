package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlosirapuan/doc-sign-web/internal/config"
)

func newTestClient(ipURL, geoURL string) *Client {
	return NewClient(config.GeoConfig{
		IPEndpoint:  ipURL,
		GeoEndpoint: geoURL,
		Timeout:     2 * time.Second,
	})
}

func TestCurrentFullContext(t *testing.T) {
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip":"203.0.113.9"}`))
	}))
	defer ipSrv.Close()

	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/203.0.113.9", r.URL.Path)
		w.Write([]byte(`{"status":"success","lat":-8.05,"lon":-34.9}`))
	}))
	defer geoSrv.Close()

	got := newTestClient(ipSrv.URL, geoSrv.URL).Current(context.Background())

	require.NotNil(t, got)
	assert.Equal(t, "203.0.113.9", got.IP)
	require.NotNil(t, got.Geolocation)
	assert.Equal(t, -8.05, got.Geolocation.Latitude)
	assert.Equal(t, -34.9, got.Geolocation.Longitude)
}

func TestCurrentIPLookupFailure(t *testing.T) {
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ipSrv.Close()

	got := newTestClient(ipSrv.URL, "http://127.0.0.1:0").Current(context.Background())

	assert.Nil(t, got)
}

func TestCurrentGeoFailureKeepsIP(t *testing.T) {
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip":"203.0.113.9"}`))
	}))
	defer ipSrv.Close()

	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer geoSrv.Close()

	got := newTestClient(ipSrv.URL, geoSrv.URL).Current(context.Background())

	require.NotNil(t, got)
	assert.Equal(t, "203.0.113.9", got.IP)
	assert.Nil(t, got.Geolocation)
}

func TestCurrentGeoReportedFailureKeepsIP(t *testing.T) {
	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip":"203.0.113.9"}`))
	}))
	defer ipSrv.Close()

	geoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// ip-api style in-band failure
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer geoSrv.Close()

	got := newTestClient(ipSrv.URL, geoSrv.URL).Current(context.Background())

	require.NotNil(t, got)
	assert.Nil(t, got.Geolocation)
}

func TestCurrentUnreachableEndpoints(t *testing.T) {
	got := newTestClient("http://127.0.0.1:0", "http://127.0.0.1:0").Current(context.Background())
	assert.Nil(t, got)
}
