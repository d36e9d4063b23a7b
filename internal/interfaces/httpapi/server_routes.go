package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerViewerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("GET /{$}", handler.RequireSession(http.HandlerFunc(handler.Page)))
	mux.Handle("GET /state", handler.RequireSession(http.HandlerFunc(handler.State)))
	mux.Handle("POST /league", handler.RequireSession(http.HandlerFunc(handler.SubmitLeague)))
	mux.Handle("POST /week", handler.RequireSession(http.HandlerFunc(handler.SetWeek)))
}
