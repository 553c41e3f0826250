package router

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-adoption-match/docs"
	"pet-adoption-match/internal/adapters/auth/jwtauth"
	mem "pet-adoption-match/internal/adapters/storage/memory"
	pg "pet-adoption-match/internal/adapters/storage/postgres"
	"pet-adoption-match/internal/domain/appointments"
	"pet-adoption-match/internal/domain/chats"
	"pet-adoption-match/internal/domain/matches"
	"pet-adoption-match/internal/domain/pets"
	"pet-adoption-match/internal/domain/users"
	"pet-adoption-match/internal/middleware"
	"pet-adoption-match/internal/platform/httpjson"
	"pet-adoption-match/internal/platform/logger"
)

type Options struct {
	JWTSecret string
	TokenTTL  time.Duration // 0 => jwtauth.DefaultTTL

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger // nil => Nop

	APIPrefix   string   // "" o "/api"
	CORSOrigins []string // vacío => "*"
}

type repos struct {
	users        users.Repository
	pets         pets.Repository
	matches      matches.Repository
	appointments appointments.Repository
	chats        chats.Repository
}

func newRepos(db *sql.DB) repos {
	if db != nil {
		return repos{
			users:        pg.NewUsersRepo(db),
			pets:         pg.NewPetsRepo(db),
			matches:      pg.NewMatchesRepo(db),
			appointments: pg.NewAppointmentsRepo(db),
			chats:        pg.NewChatsRepo(db),
		}
	}
	return repos{
		users:        mem.NewUserRepo(),
		pets:         mem.NewPetRepo(),
		matches:      mem.NewMatchRepo(),
		appointments: mem.NewAppointmentRepo(),
		chats:        mem.NewChatRepo(),
	}
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	tokens, err := jwtauth.NewManager(opts.JWTSecret, opts.TokenTTL)
	if err != nil {
		return nil, err
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !containsWildcard(origins),
		MaxAge:           300,
	}))
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.AuthContext(tokens))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Write(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	rp := newRepos(opts.DB)

	// Services por módulo
	usersSvc := users.NewService(rp.users, tokens)
	petsSvc := pets.NewService(rp.pets)
	matchesSvc := matches.NewService(rp.matches, petsSvc, usersSvc, log)
	appointmentsSvc := appointments.NewService(rp.appointments, matchesSvc, log)
	hub := chats.NewHub(log, matchesSvc)
	chatsSvc := chats.NewService(rp.chats, matchesSvc, hub, log)

	mount := func(api chi.Router) {
		users.RegisterPublicRoutes(api, usersSvc)

		api.Group(func(pr chi.Router) {
			pr.Use(middleware.RequireUser(usersSvc))

			users.RegisterRoutes(pr, usersSvc)
			pets.RegisterRoutes(pr, petsSvc, matchesSvc)
			matches.RegisterRoutes(pr, matchesSvc)
			appointments.RegisterRoutes(pr, appointmentsSvc)
			chats.RegisterRoutes(pr, chatsSvc, hub)
		})
	}

	if prefix := strings.TrimRight(opts.APIPrefix, "/"); prefix != "" {
		r.Route(prefix, mount)
	} else {
		mount(r)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Error(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r, nil
}

// containsWildcard: con "*" el browser rechaza credentials.
func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
