package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/procurement/internal/domain/errors"
	"github.com/polkiloo/procurement/internal/server/http/dto"
	testhelpers "github.com/polkiloo/procurement/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, route, target string, handler gin.HandlerFunc, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, handler)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

func decodeErrors(t *testing.T, resp *httptest.ResponseRecorder) []string {
	t.Helper()
	var payload dto.ErrorsResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode errors body %q: %v", resp.Body.String(), err)
	}
	return payload.Errors
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{&domainErrors.ValidationError{Problems: []string{"a", "b"}}, http.StatusUnprocessableEntity},
		{fmt.Errorf("wrapped: %w", domainErrors.ErrNotFound), http.StatusNotFound},
		{domainErrors.ErrInvalidStatus, http.StatusUnprocessableEntity},
		{domainErrors.ErrInvalidSubmitStatus, http.StatusUnprocessableEntity},
		{domainErrors.ErrInvalidCurrency, http.StatusUnprocessableEntity},
		{domainErrors.ErrUnknownCommodityGroup, http.StatusUnprocessableEntity},
		{domainErrors.ErrConsentRequired, http.StatusBadRequest},
		{domainErrors.ErrUnsupportedDocument, http.StatusUnsupportedMediaType},
		{fmt.Errorf("%w: timeout", domainErrors.ErrExtractionFailed), http.StatusBadGateway},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		resp := performRequest(t, http.MethodGet, "/", "/", func(c *gin.Context) { respondError(c, tc.err) }, nil, nil)
		if resp.Code != tc.want {
			t.Fatalf("%v: expected status %d, got %d", tc.err, tc.want, resp.Code)
		}
	}

	resp := performRequest(t, http.MethodGet, "/", "/", func(c *gin.Context) {
		respondError(c, &domainErrors.ValidationError{Problems: []string{"a", "b"}})
	}, nil, nil)
	if got := decodeErrors(t, resp); len(got) != 2 || got[0] != "a" {
		t.Fatalf("expected every problem in body, got %v", got)
	}
}

func TestRespondErrorHidesCause(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/", "/", func(c *gin.Context) {
		respondError(c, fmt.Errorf("%w: secret offer text", domainErrors.ErrExtractionFailed))
	}, nil, nil)
	if bytes.Contains(resp.Body.Bytes(), []byte("secret")) {
		t.Fatalf("expected cause to stay out of the response, got %s", resp.Body.String())
	}
}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(testhelpers.HealthFacadeStub{}).Check, nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = performRequest(t, http.MethodGet, "/healthz", "/healthz", NewHealthHandler(testhelpers.HealthFacadeStub{Err: errors.New("down")}).Check, nil, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.Code)
	}
}
