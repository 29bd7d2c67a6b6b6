// Package endpoints exposes the provisioning operations over HTTP. The
// handlers are a thin translation layer: decode the request, run the engine,
// map the typed error to a status code.
package endpoints

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/golang/glog"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
	"github.com/Automattic/newspack-ads-sub000/orderstore"
	"github.com/Automattic/newspack-ads-sub000/provision"
)

// Provisioner is the engine surface the endpoints depend on.
type Provisioner interface {
	CreateOrder(ctx context.Context, spec provision.OrderSpec) (orderstore.OrderConfig, error)
	CreateOrUpdateLineItems(ctx context.Context, orderID int64, validate bool) (orderstore.OrderConfig, error)
	AssociateCreatives(ctx context.Context, orderID int64, batch int) (orderstore.OrderConfig, error)
	ArchiveOrder(ctx context.Context, orderID int64) (orderstore.OrderConfig, error)
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func statusFromError(err error) int {
	switch errortypes.ReadCode(err) {
	case errortypes.ValidationErrorCode, errortypes.TooManyPricePointsErrorCode:
		return http.StatusBadRequest
	case errortypes.NotFoundErrorCode:
		return http.StatusNotFound
	case errortypes.AssociationConflictErrorCode:
		return http.StatusConflict
	case errortypes.RemoteUnavailableErrorCode:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		glog.Errorf("provisioning request failed: %v", err)
	}

	var body errorResponse
	body.Error.Code = errortypes.ReadCode(err)
	body.Error.Message = err.Error()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeConfig(w http.ResponseWriter, cfg orderstore.OrderConfig) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cfg)
}
