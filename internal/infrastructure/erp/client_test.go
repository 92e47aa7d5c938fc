package erp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/proposals/internal/domain/integration"
	"github.com/erp/proposals/internal/domain/proposal"
	"github.com/erp/proposals/tests/testutil"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testConfig(url string) *Config {
	return &Config{
		BaseURL:  url,
		Username: "svc",
		Password: "secret",
		AppID:    "1001",
		Company:  "1",
		Branch:   "1000",
		Series:   "7001",
	}
}

func testRequest() integration.DocumentRequest {
	return integration.DocumentRequest{
		Trdr:     "4711",
		Comments: "Proposal P-1",
		Lines: []proposal.ERPLine{
			{
				MTRL:        "CAM-01",
				Quantity:    decimal.NewFromInt(10),
				Price:       decimal.RequireFromString("150.50"),
				VATCode:     proposal.DefaultVATCode,
				TypeCode:    proposal.DefaultProductTypeCode,
				DisplayName: "Camera",
			},
			{
				MTRL:        "SRV-INST",
				Quantity:    decimal.NewFromInt(1),
				Price:       decimal.NewFromInt(300),
				VATCode:     proposal.DefaultVATCode,
				TypeCode:    proposal.DefaultServiceTypeCode,
				DisplayName: "Installation",
			},
		},
	}
}

// legacyBody encodes a UTF-8 JSON body the way the ERP sends it
func legacyBody(t *testing.T, body string) []byte {
	t.Helper()
	return testutil.LegacyBody(t, body)
}

// ---------------------------------------------------------------------------
// Config Tests
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr error
	}{
		{name: "valid config", config: testConfig("http://erp.local/s1services")},
		{name: "missing base url", config: testConfig("  "), wantErr: ErrConfigMissingBaseURL},
		{
			name:    "missing username",
			config:  &Config{BaseURL: "http://erp", Password: "p", Series: "7001"},
			wantErr: ErrConfigMissingUsername,
		},
		{
			name:    "missing password",
			config:  &Config{BaseURL: "http://erp", Username: "u", Series: "7001"},
			wantErr: ErrConfigMissingPassword,
		},
		{
			name:    "missing series",
			config:  &Config{BaseURL: "http://erp", Username: "u", Password: "p"},
			wantErr: ErrConfigMissingSeries,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, DefaultTimeout, tt.config.Timeout)
			assert.Equal(t, int64(DefaultMaxResponseBytes), tt.config.MaxResponseBytes)
			assert.Equal(t, DefaultService, tt.config.Service)
		})
	}
}

func TestNewClient_NilConfig(t *testing.T) {
	_, err := NewClient(nil, nil)
	assert.ErrorIs(t, err, integration.ErrERPNotConfigured)
}

// ---------------------------------------------------------------------------
// Decode Tests
// ---------------------------------------------------------------------------

func TestDecodeResponse_GreekRoundTrip(t *testing.T) {
	const text = "Καλημέρα, προσφορά εξοπλισμού"

	raw := legacyBody(t, text)
	decoded, err := DecodeResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, text, string(decoded))
}

func TestDecodeResponse_LegacyBytesAreNotUTF8(t *testing.T) {
	const text = "Καλημέρα"

	raw := legacyBody(t, text)
	assert.False(t, utf8.Valid(raw))
	assert.NotEqual(t, text, string(raw))

	// A UTF-8 body passed through the legacy decoder comes out garbled
	decoded, err := DecodeResponse([]byte(text))
	require.NoError(t, err)
	assert.NotEqual(t, text, string(decoded))
}

// ---------------------------------------------------------------------------
// Client Tests
// ---------------------------------------------------------------------------

func TestClient_CreateSalesDocument_Success(t *testing.T) {
	var hits int32
	var got documentRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json; charset=windows-1253")
		_, _ = w.Write(legacyBody(t, `{"success":true,"code":"ΠΡΦ-0042","findoc":98765,"series":7001,"seriesnum":"42","turnover":1805.00,"vatamnt":433.20}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), nil)
	require.NoError(t, err)

	result, err := client.CreateSalesDocument(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, "ΠΡΦ-0042", result.QuoteNumber)
	assert.Equal(t, "98765", result.FinDoc)
	assert.Equal(t, "7001", result.Series)
	assert.Equal(t, "42", result.SeriesNum)
	assert.True(t, decimal.RequireFromString("1805").Equal(result.Turnover))
	assert.True(t, decimal.RequireFromString("433.2").Equal(result.VATAmount))
	assert.Contains(t, result.RawResponse, "ΠΡΦ-0042")

	assert.Equal(t, "svc", got.Username)
	assert.Equal(t, "7001", got.Series)
	assert.Equal(t, "4711", got.Trdr)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "CAM-01", got.Lines[0].MTRL)
	assert.Equal(t, json.Number("10"), got.Lines[0].Qty1)
	assert.Equal(t, json.Number("150.5"), got.Lines[0].Price)
	assert.Equal(t, "1410", got.Lines[0].VAT)
	assert.Equal(t, "51", got.Lines[0].SODType)
	assert.Equal(t, "52", got.Lines[1].SODType)
}

func TestClient_CreateSalesDocument_RequestSeriesOverridesDefault(t *testing.T) {
	var got documentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true,"code":"Q-1","findoc":"1"}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), nil)
	require.NoError(t, err)

	req := testRequest()
	req.Series = "7100"
	_, err = client.CreateSalesDocument(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "7100", got.Series)
}

func TestClient_CreateSalesDocument_BusinessError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(legacyBody(t, `{"success":false,"error":"Ο πελάτης δεν βρέθηκε","errorcode":-101}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), nil)
	require.NoError(t, err)

	result, err := client.CreateSalesDocument(context.Background(), testRequest())
	assert.Nil(t, result)
	require.Error(t, err)

	var be *integration.ERPBusinessError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Ο πελάτης δεν βρέθηκε", be.Message)
	assert.Equal(t, "-101", be.Code)
}

func TestClient_CreateSalesDocument_HTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "client error", status: http.StatusBadRequest, wantErr: integration.ErrERPRequestFailed},
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: integration.ErrERPRequestFailed},
		{name: "server error", status: http.StatusBadGateway, wantErr: integration.ErrERPUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client, err := NewClient(testConfig(server.URL), nil)
			require.NoError(t, err)

			_, err = client.CreateSalesDocument(context.Background(), testRequest())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorAs(t, err, new(*integration.ERPBusinessError))
		})
	}
}

func TestClient_CreateSalesDocument_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), nil)
	require.NoError(t, err)

	_, err = client.CreateSalesDocument(context.Background(), testRequest())
	assert.ErrorIs(t, err, integration.ErrERPInvalidResponse)
}

func TestClient_CreateSalesDocument_Amounts(t *testing.T) {
	tests := []struct {
		name         string
		turnover     string
		vat          string
		wantTurnover string
		wantVAT      string
	}{
		{"json numbers", `1805.5`, `433.32`, "1805.5", "433.32"},
		{"plain strings", `"1805.50"`, `"433.32"`, "1805.5", "433.32"},
		{"greek format", `"1.234,56"`, `"296,29"`, "1234.56", "296.29"},
		{"greek format without thousands", `"12,5"`, `"3"`, "12.5", "3"},
		{"missing amounts", `null`, `""`, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"success":true,"code":"Q-1","findoc":1,"turnover":` + tt.turnover + `,"vatamnt":` + tt.vat + `}`
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(legacyBody(t, body))
			}))
			defer server.Close()

			client, err := NewClient(testConfig(server.URL), nil)
			require.NoError(t, err)

			result, err := client.CreateSalesDocument(context.Background(), testRequest())
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.wantTurnover).Equal(result.Turnover), result.Turnover.String())
			assert.True(t, decimal.RequireFromString(tt.wantVAT).Equal(result.VATAmount), result.VATAmount.String())
		})
	}
}

func TestClient_CreateSalesDocument_UnparseableAmount(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"garbage vat", `{"success":true,"code":"Q-1","findoc":1,"turnover":"1.234,56","vatamnt":"abc"}`},
		{"garbage turnover", `{"success":true,"code":"Q-1","findoc":1,"turnover":"n/a","vatamnt":"10"}`},
		{"two decimal commas", `{"success":true,"code":"Q-1","findoc":1,"turnover":"1,234,56","vatamnt":"10"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write(legacyBody(t, tt.body))
			}))
			defer server.Close()

			client, err := NewClient(testConfig(server.URL), nil)
			require.NoError(t, err)

			result, err := client.CreateSalesDocument(context.Background(), testRequest())
			assert.Nil(t, result)
			assert.ErrorIs(t, err, integration.ErrERPInvalidResponse)
		})
	}
}

func TestClient_CreateSalesDocument_SuccessWithoutIdentifiers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), nil)
	require.NoError(t, err)

	_, err = client.CreateSalesDocument(context.Background(), testRequest())
	assert.ErrorIs(t, err, integration.ErrERPInvalidResponse)
}

func TestClient_CreateSalesDocument_Timeout(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Timeout = 50 * time.Millisecond
	client, err := NewClient(cfg, nil)
	require.NoError(t, err)

	_, err = client.CreateSalesDocument(context.Background(), testRequest())
	assert.ErrorIs(t, err, integration.ErrERPUnavailable)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "no retry after a timeout")
}

func TestClient_CreateSalesDocument_InvalidRequestMakesNoCall(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL), nil)
	require.NoError(t, err)

	req := testRequest()
	req.Lines[1].MTRL = ""
	_, err = client.CreateSalesDocument(context.Background(), req)
	assert.ErrorIs(t, err, integration.ErrERPRequestFailed)

	req = testRequest()
	req.Trdr = ""
	_, err = client.CreateSalesDocument(context.Background(), req)
	assert.ErrorIs(t, err, integration.ErrERPRequestFailed)

	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}
