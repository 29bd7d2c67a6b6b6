package router

import (
	"net/http"

	"github.com/NYTimes/gziphandler"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"

	"github.com/Automattic/newspack-ads-sub000/endpoints"
)

// Router maps the provisioning operations onto HTTP routes.
type Router struct {
	*httprouter.Router
}

// New builds the route table for a provisioning engine.
func New(engine endpoints.Provisioner) *Router {
	r := &Router{Router: httprouter.New()}

	r.POST("/v1/orders", endpoints.NewCreateOrderEndpoint(engine))
	r.POST("/v1/orders/:id/archive", endpoints.NewArchiveOrderEndpoint(engine))
	r.POST("/v1/orders/:id/lineitems", endpoints.NewLineItemsEndpoint(engine))
	r.POST("/v1/orders/:id/lica", endpoints.NewAssociateCreativesEndpoint(engine))
	r.GET("/status", status)

	return r
}

func status(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.WriteHeader(http.StatusNoContent)
}

// Handler wraps the router with CORS and gzip, in that order.
func Handler(r *Router) http.Handler {
	return gziphandler.GzipHandler(supportCORS(r))
}

func supportCORS(handler http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowCredentials: true,
		AllowOriginFunc: func(string) bool {
			return true
		},
		AllowedHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
	})
	return c.Handler(handler)
}
