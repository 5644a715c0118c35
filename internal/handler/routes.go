package handler

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every route. Everything but /register, /login and /health
// goes through auth.
func NewRouter(h *Handler, auth mux.MiddlewareFunc, middlewares ...mux.MiddlewareFunc) *mux.Router {
	r := mux.NewRouter()
	r.Use(middlewares...)

	// Public routes
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	// Protected routes
	api := r.PathPrefix("/").Subrouter()
	api.Use(auth)

	api.HandleFunc("/users", h.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	api.HandleFunc("/users/{id}", h.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", h.DeleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/users/{id}/summary", h.UserSummary).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/projection", h.Projection).Methods(http.MethodGet)

	api.HandleFunc("/cards", h.ListCards).Methods(http.MethodGet)
	api.HandleFunc("/cards", h.CreateCard).Methods(http.MethodPost)
	api.HandleFunc("/cards/{id}", h.UpdateCard).Methods(http.MethodPut)
	api.HandleFunc("/cards/{id}", h.DeleteCard).Methods(http.MethodDelete)

	api.HandleFunc("/purchases", h.ListPurchases).Methods(http.MethodGet)
	api.HandleFunc("/purchases", h.CreatePurchase).Methods(http.MethodPost)
	api.HandleFunc("/purchases/{id}", h.UpdatePurchase).Methods(http.MethodPut)
	api.HandleFunc("/purchases/{id}", h.DeletePurchase).Methods(http.MethodDelete)

	api.HandleFunc("/payments", h.ListPayments).Methods(http.MethodGet)
	api.HandleFunc("/payments", h.CreatePayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id}", h.UpdatePayment).Methods(http.MethodPut)
	api.HandleFunc("/payments/{id}", h.DeletePayment).Methods(http.MethodDelete)

	api.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/statement", h.Statement).Methods(http.MethodGet)
	api.HandleFunc("/logs", h.Logs).Methods(http.MethodGet)
	api.HandleFunc("/rates", h.Rates).Methods(http.MethodGet)

	return r
}
