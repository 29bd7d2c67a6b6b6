package endpoints

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"github.com/Automattic/newspack-ads-sub000/errortypes"
)

// NewAssociateCreativesEndpoint handles POST /v1/orders/:id/lica. The batch
// query parameter selects a 1-based slice of the association set; omitted or
// zero submits every pair at once.
func NewAssociateCreativesEndpoint(engine Provisioner) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		orderID, ok := orderIDParam(w, params)
		if !ok {
			return
		}

		batch := 0
		if raw := r.URL.Query().Get("batch"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, &errortypes.Validation{Message: "batch must be an integer"})
				return
			}
			batch = parsed
		}

		cfg, err := engine.AssociateCreatives(r.Context(), orderID, batch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeConfig(w, cfg)
	}
}
