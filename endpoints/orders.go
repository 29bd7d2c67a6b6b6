package endpoints

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
	"github.com/Automattic/newspack-ads-sub000/provision"
)

// NewCreateOrderEndpoint handles POST /v1/orders.
func NewCreateOrderEndpoint(engine Provisioner) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var spec provision.OrderSpec
		if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
			writeError(w, &errortypes.Validation{Message: "malformed request body: " + err.Error()})
			return
		}

		cfg, err := engine.CreateOrder(r.Context(), spec)
		if err != nil {
			writeError(w, err)
			return
		}
		writeConfig(w, cfg)
	}
}

// NewArchiveOrderEndpoint handles POST /v1/orders/:id/archive.
func NewArchiveOrderEndpoint(engine Provisioner) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		orderID, ok := orderIDParam(w, params)
		if !ok {
			return
		}

		cfg, err := engine.ArchiveOrder(r.Context(), orderID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeConfig(w, cfg)
	}
}

func orderIDParam(w http.ResponseWriter, params httprouter.Params) (int64, bool) {
	orderID, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || orderID <= 0 {
		writeError(w, &errortypes.Validation{Message: "order id must be a positive integer"})
		return 0, false
	}
	return orderID, true
}
