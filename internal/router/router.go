package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	mem "memocha/internal/adapters/storage/memory"
	pg "memocha/internal/adapters/storage/postgres"
	"memocha/internal/domain/patients"
	"memocha/internal/domain/prescriptions"
	"memocha/internal/domain/videos"
	"memocha/internal/middleware"
	"memocha/internal/ports/auth"
	"memocha/internal/schedule"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "memocha/docs" // registro del spec swagger generado
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Ventana de tolerancia a cada lado de la hora de dosis. <= 0 usa el
	// default del scheduler.
	Wiggle time.Duration

	// Zona local canónica; nil usa time.Local.
	Location *time.Location
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		presRepo    prescriptions.Repository
		patientRepo patients.Repository
		videoRepo   videos.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("MEMOCHA_DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	if db != nil {
		presRepo = pg.NewPrescriptionsRepo(db)
		patientRepo = pg.NewPatientsRepo(db)
		videoRepo = pg.NewVideosRepo(db)
	} else {
		presRepo = mem.NewPrescriptionRepo()
		patientRepo = mem.NewPatientRepo()
		videoRepo = mem.NewVideoRepo()
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	// Services por módulo
	presSvc := prescriptions.NewService(presRepo)
	patientsSvc := patients.NewService(patientRepo, presSvc)
	videosSvc := videos.NewService(videoRepo, patientsSvc)

	// El evaluador consulta videos ya grabados para descartar dosis cubiertas.
	eval := schedule.NewEvaluator(videosSvc, opts.Wiggle)

	// Rutas por módulo
	patients.RegisterRoutes(r, patientsSvc, eval, loc)
	videos.RegisterRoutes(r, videosSvc, patientsSvc, loc)

	return r
}
