package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Automattic/newspack-ads-sub000/orderstore"
	"github.com/Automattic/newspack-ads-sub000/provision"
)

type nopEngine struct{}

func (nopEngine) CreateOrder(context.Context, provision.OrderSpec) (orderstore.OrderConfig, error) {
	return orderstore.OrderConfig{}, nil
}
func (nopEngine) CreateOrUpdateLineItems(context.Context, int64, bool) (orderstore.OrderConfig, error) {
	return orderstore.OrderConfig{}, nil
}
func (nopEngine) AssociateCreatives(context.Context, int64, int) (orderstore.OrderConfig, error) {
	return orderstore.OrderConfig{}, nil
}
func (nopEngine) ArchiveOrder(context.Context, int64) (orderstore.OrderConfig, error) {
	return orderstore.OrderConfig{}, nil
}

func TestStatusEndpoint(t *testing.T) {
	recorder := httptest.NewRecorder()
	Handler(New(nopEngine{})).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestUnknownRoute(t *testing.T) {
	recorder := httptest.NewRecorder()
	Handler(New(nopEngine{})).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/v1/orders", nil)
	req.Header.Set("Origin", "https://publisher.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	recorder := httptest.NewRecorder()
	Handler(New(nopEngine{})).ServeHTTP(recorder, req)

	assert.Equal(t, "https://publisher.example.com", recorder.Header().Get("Access-Control-Allow-Origin"))
}
