package router

import (
	"database/sql"
	"net/http"
	"os"
	"strconv"

	mem "pet-visit-summary/internal/adapters/storage/memory"
	pg "pet-visit-summary/internal/adapters/storage/postgres"
	"pet-visit-summary/internal/domain/feedings"
	"pet-visit-summary/internal/domain/healthevents"
	"pet-visit-summary/internal/domain/medications"
	"pet-visit-summary/internal/domain/pets"
	"pet-visit-summary/internal/domain/scans"
	"pet-visit-summary/internal/domain/visitsummary"
	"pet-visit-summary/internal/middleware"
	"pet-visit-summary/internal/platform/logger"
	"pet-visit-summary/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-visit-summary/docs"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	Logger logger.Logger // puede ser nil; se crea uno desde env

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.RateLimit(rateLimitFromEnv()))
	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		petRepo   pets.Repository
		feedRepo  feedings.Repository
		scanRepo  scans.Repository
		medRepo   medications.Repository
		eventRepo healthevents.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("postgres unavailable, using in-memory storage", map[string]any{"error": err.Error()})
			}
		}
	}

	if db != nil {
		petRepo = pg.NewPetsRepo(db)
		feedRepo = pg.NewFeedingsRepo(db)
		scanRepo = pg.NewScansRepo(db)
		medRepo = pg.NewMedicationsRepo(db)
		eventRepo = pg.NewHealthEventsRepo(db)
	} else {
		petRepo = mem.NewPetRepo()
		feedRepo = mem.NewFeedingRepo()
		scanRepo = mem.NewScanRepo()
		medRepo = mem.NewMedicationRepo()
		eventRepo = mem.NewHealthEventRepo()
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo)
	feedingsSvc := feedings.NewService(feedRepo)
	scansSvc := scans.NewService(scanRepo)
	medsSvc := medications.NewService(medRepo)
	eventsSvc := healthevents.NewService(eventRepo)

	summarySvc := visitsummary.NewService(
		visitsummary.NewFoodSource(feedingsSvc, scansSvc),
		visitsummary.NewWeightSource(petsSvc),
		visitsummary.NewMedicationSource(medsSvc),
		visitsummary.NewHealthEventSource(eventsSvc),
		log,
	)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc)
	feedings.RegisterRoutes(r, feedingsSvc, petsSvc)
	scans.RegisterRoutes(r, scansSvc, petsSvc)
	medications.RegisterRoutes(r, medsSvc, petsSvc)
	healthevents.RegisterRoutes(r, eventsSvc, petsSvc)
	visitsummary.RegisterRoutes(r, summarySvc, petsSvc)

	return r
}

// rateLimitFromEnv lee RATE_LIMIT_RPS y RATE_LIMIT_BURST.
// RPS vacío o 0 desactiva el límite.
func rateLimitFromEnv() (float64, int) {
	rps, _ := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	burst, _ := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	return rps, burst
}
