package rest

import (
	"log/slog"
	"net/http"

	"github.com/immunet/immunet-backend/internal/auth"
	"github.com/immunet/immunet-backend/internal/config"
	"github.com/immunet/immunet-backend/internal/transport/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health      *HealthHandler
	Vaccination *VaccinationHandler
	Stock       *StockHandler
	Patient     *PatientHandler
	Registry    *RegistryHandler
	Lifecycle   *LifecycleHandler
}

// NewRouter builds the HTTP routing table and wraps it in the standard
// middleware chain. Probes stay outside /api/v1 so orchestration never needs
// a token or a version prefix.
func NewRouter(h Handlers, jwt *auth.JWTManager, cors config.CORSConfig, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /api/v1/vaccinations", h.Vaccination.Register)
	mux.HandleFunc("GET /api/v1/vaccinations", h.Vaccination.History)
	mux.HandleFunc("GET /api/v1/vaccinations/{id}", h.Vaccination.Get)
	mux.HandleFunc("DELETE /api/v1/vaccinations/{id}", h.Vaccination.Delete)

	mux.HandleFunc("POST /api/v1/lots", h.Stock.CreateLot)
	mux.HandleFunc("GET /api/v1/lots", h.Stock.List)
	mux.HandleFunc("GET /api/v1/lots/{id}", h.Stock.Get)
	mux.HandleFunc("POST /api/v1/lots/{id}/replenish", h.Stock.Replenish)

	mux.HandleFunc("POST /api/v1/children", h.Patient.Create)
	mux.HandleFunc("GET /api/v1/children", h.Patient.Find)
	mux.HandleFunc("GET /api/v1/children/{id}", h.Patient.Get)
	mux.HandleFunc("PUT /api/v1/children/{id}", h.Patient.Update)

	mux.HandleFunc("POST /api/v1/countries", h.Registry.CreateCountry)
	mux.HandleFunc("GET /api/v1/countries/{id}", h.Registry.GetCountry)
	mux.HandleFunc("POST /api/v1/centers", h.Registry.CreateCenter)
	mux.HandleFunc("GET /api/v1/centers/{id}", h.Registry.GetCenter)
	mux.HandleFunc("POST /api/v1/vaccines", h.Registry.CreateVaccine)
	mux.HandleFunc("GET /api/v1/vaccines/{id}", h.Registry.GetVaccine)
	mux.HandleFunc("POST /api/v1/staff", h.Registry.CreateStaff)
	mux.HandleFunc("GET /api/v1/staff/{id}", h.Registry.GetStaff)
	mux.HandleFunc("POST /api/v1/users", h.Registry.CreateUser)
	mux.HandleFunc("GET /api/v1/users/{id}", h.Registry.GetUser)
	mux.HandleFunc("POST /api/v1/campaigns", h.Registry.CreateCampaign)
	mux.HandleFunc("GET /api/v1/campaigns/{id}", h.Registry.GetCampaign)

	mux.HandleFunc("DELETE /api/v1/entities/{type}/{id}", h.Lifecycle.Remove)

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.CORS(cors),
		middleware.Auth(jwt),
	)

	return chain(mux)
}
