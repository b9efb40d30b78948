package http

import (
	"net/http"

	"spareparts-backend/internal/config"
	"spareparts-backend/internal/handlers"
	"spareparts-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Bills      *handlers.BillHandler
	Customers  *handlers.CustomerHandler
	SpareParts *handlers.SparePartHandler
	Admin      *handlers.AdminHandler
	Monitoring *handlers.MonitoringHandler
	Health     *handlers.HealthHandler
}

// NewRouter wires all routes. Public: health, metrics, auth, the catalog.
// Everything under /api requires a token; /api/admin requires the admin role.
func NewRouter(cfg *config.Config, h Handlers, authMw *middleware.AuthMiddleware) http.Handler {
	r := mux.NewRouter()

	r.Use(middleware.PanicRecovery)
	r.Use(middleware.Metrics)

	// Public
	r.HandleFunc("/health", h.Health.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/auth/signup", h.Auth.Signup).Methods("POST")
	r.HandleFunc("/auth/login", h.Auth.Login).Methods("POST")
	r.HandleFunc("/api/public-inventory", h.SpareParts.PublicInventory).Methods("GET")

	// Authenticated
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMw.Authenticate)

	api.HandleFunc("/auth/me", h.Auth.Me).Methods("GET")
	api.HandleFunc("/auth/totp/setup", h.Auth.SetupTOTP).Methods("POST")

	api.HandleFunc("/bills", h.Bills.CreateBill).Methods("POST")
	api.HandleFunc("/bills", h.Bills.ListBills).Methods("GET")
	api.HandleFunc("/bills/{id:[0-9]+}", h.Bills.GetBill).Methods("GET")
	api.HandleFunc("/bills/{id:[0-9]+}", h.Bills.AddPayment).Methods("PUT")

	api.HandleFunc("/customers", h.Customers.CreateCustomer).Methods("POST")
	api.HandleFunc("/customers", h.Customers.ListCustomers).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", h.Customers.GetCustomer).Methods("GET")
	api.HandleFunc("/customers/{id:[0-9]+}", h.Customers.UpdateCustomer).Methods("PUT")
	api.HandleFunc("/customers/{id:[0-9]+}", h.Customers.DeleteCustomer).Methods("DELETE")

	api.HandleFunc("/spare-parts", h.SpareParts.CreateSparePart).Methods("POST")
	api.HandleFunc("/spare-parts", h.SpareParts.ListSpareParts).Methods("GET")
	api.HandleFunc("/spare-parts/{id:[0-9]+}", h.SpareParts.GetSparePart).Methods("GET")
	api.HandleFunc("/spare-parts/{id:[0-9]+}", h.SpareParts.UpdateSparePart).Methods("PUT")
	api.HandleFunc("/spare-parts/{id:[0-9]+}", h.SpareParts.DeleteSparePart).Methods("DELETE")
	api.HandleFunc("/spare-parts/{id:[0-9]+}/image", h.SpareParts.UploadImage).Methods("POST")

	// Admin only
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authMw.RequireRole("admin"))

	admin.HandleFunc("/counters/bill-id/reset", h.Admin.ResetBillCounter).Methods("POST")
	admin.HandleFunc("/users", h.Admin.ListUsers).Methods("GET")
	admin.HandleFunc("/monitoring/system", h.Monitoring.SystemStats).Methods("GET")
	admin.HandleFunc("/monitoring/live", h.Monitoring.Live).Methods("GET")

	return middleware.CORS(cfg)(r)
}
