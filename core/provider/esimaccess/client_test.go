package esimaccess

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pkg1Body = `{
  "success": true,
  "errorCode": "0",
  "errorMsg": null,
  "obj": {
    "packageList": [
      {
        "packageCode": "PKG1",
        "name": "United States 2GB 7Days",
        "price": 30000,
        "retailPrice": 50000,
        "volume": 2147483648,
        "smsStatus": 0,
        "dataType": 4,
        "duration": 7,
        "description": "US 2GB",
        "fupPolicy": "",
        "location": "United States",
        "locationCode": "US",
        "locationNetworkList": [
          {"locationName": "United States", "locationCode": "US",
           "operatorList": [{"operatorName": "Acme Mobile", "networkType": "5G"}]}
        ]
      }
    ]
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL + "/", AccessCode: "access", SecretKey: "secret", LocationCode: "!RG", TimeoutSeconds: 5})
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	c.newID = func() string { return "req-1" }
	return c
}

func TestListPackages_Success(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/open/package/list", r.URL.Path)
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pkg1Body))
	})

	list, err := c.ListPackages(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, list.Packages, 1)
	assert.JSONEq(t, pkg1Body, string(list.Raw))

	p := list.Packages[0]
	assert.Equal(t, "PKG1", p.PackageCode)
	assert.Equal(t, int64(2147483648), p.Volume)
	assert.Equal(t, int64(50000), p.RetailPrice)
	assert.Equal(t, "Acme Mobile", p.LocationNetworkList[0].OperatorList[0].OperatorName)

	var q Query
	require.NoError(t, json.Unmarshal(gotBody, &q))
	assert.Equal(t, "!RG", q.LocationCode)

	assert.Equal(t, "access", gotHeaders.Get("RT-AccessCode"))
	assert.Equal(t, "req-1", gotHeaders.Get("RT-RequestID"))
	assert.Equal(t, "1700000000000", gotHeaders.Get("RT-Timestamp"))
	assert.True(t, Verify(gotHeaders.Get("RT-Signature"), "secret", "1700000000000", "req-1", "access", gotBody))
}

func TestListPackages_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		category  ErrorCategory
		retryable bool
	}{
		{"Server error", http.StatusServiceUnavailable, "upstream down", ErrorStatus, true},
		{"Unauthorized", http.StatusUnauthorized, "bad signature", ErrorStatus, false},
		{"Provider error", http.StatusOK, `{"success":false,"errorCode":"000101","errorMsg":"invalid access code"}`, ErrorProvider, false},
		{"Malformed body", http.StatusOK, `<html>`, ErrorDecode, false},
		{"Missing obj", http.StatusOK, `{"success":true}`, ErrorDecode, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := c.ListPackages(context.Background(), Query{LocationCode: "US"})
			require.Error(t, err)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.category, fe.Category)
			assert.Equal(t, tt.retryable, IsRetryable(err))
		})
	}
}

func TestListPackages_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Config{BaseURL: url, TimeoutSeconds: 1})
	_, err := c.ListPackages(context.Background(), Query{})

	var fe *FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, ErrorTransport, fe.Category)
	assert.True(t, fe.Retryable)
}

func TestListPackages_Cancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pkg1Body))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListPackages(ctx, Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDecodePackageList_EmptyList(t *testing.T) {
	packages, err := DecodePackageList([]byte(`{"success":true,"obj":{"packageList":null}}`))
	require.NoError(t, err)
	assert.Empty(t, packages)
}
