package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-medical-records/docs"
	mem "pet-medical-records/internal/adapters/storage/memory"
	pg "pet-medical-records/internal/adapters/storage/postgres"
	"pet-medical-records/internal/domain/events"
	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/domain/records"
	"pet-medical-records/internal/domain/users"
	"pet-medical-records/internal/middleware"
	"pet-medical-records/internal/platform/logger"
	"pet-medical-records/internal/ports/auth"
	"pet-medical-records/internal/ports/changefeed"
)

type Options struct {
	// nil => modo header (user-id). Con verifier se exige Bearer.
	AuthVerifier auth.AuthVerifier
	// nil => /login y /register no devuelven token.
	TokenIssuer auth.TokenIssuer

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sqlx.DB

	Changefeed changefeed.Publisher
	Logger     logger.Logger
}

type repos struct {
	users   users.Repository
	pets    pets.Repository
	records records.Repository
	events  events.Repository
}

func selectRepos(db *sqlx.DB) repos {
	if db != nil {
		return repos{
			users:   pg.NewUsersRepo(db),
			pets:    pg.NewPetsRepo(db),
			records: pg.NewRecordsRepo(db),
			events:  pg.NewEventsRepo(db),
		}
	}
	m := mem.NewDB()
	return repos{
		users:   mem.NewUserRepo(m),
		pets:    mem.NewPetRepo(m),
		records: mem.NewRecordRepo(m),
		events:  mem.NewEventRepo(m),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	rp := selectRepos(opts.DB)

	// Services por módulo
	usersSvc := users.NewService(rp.users)
	eventsSvc := events.NewService(rp.events, opts.Changefeed)
	petsSvc := pets.NewService(rp.pets, eventsSvc)
	recordsSvc := records.NewService(rp.records, petsSvc, eventsSvc)

	// Rutas públicas
	users.RegisterRoutes(r, usersSvc, opts.TokenIssuer)

	// Rutas con identidad: el usuario tiene que existir
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireUser(usersSvc))

		pets.RegisterRoutes(pr, petsSvc)
		records.RegisterRoutes(pr, recordsSvc)
		events.RegisterRoutes(pr, eventsSvc, petsSvc)
	})

	return r
}
