package endpoints

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

// NewLineItemsEndpoint handles POST /v1/orders/:id/lineitems. The validate
// query flag makes the engine reconcile against existing remote line items
// before submitting.
func NewLineItemsEndpoint(engine Provisioner) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		orderID, ok := orderIDParam(w, params)
		if !ok {
			return
		}
		validate, _ := strconv.ParseBool(r.URL.Query().Get("validate"))

		cfg, err := engine.CreateOrUpdateLineItems(r.Context(), orderID, validate)
		if err != nil {
			writeError(w, err)
			return
		}
		writeConfig(w, cfg)
	}
}
