package router

import (
	"presupuesto-backend/internal/application/access"
	"presupuesto-backend/internal/application/ceilings"
	projsvc "presupuesto-backend/internal/application/projects"
	reqsvc "presupuesto-backend/internal/application/requisitions"
	authcore "presupuesto-backend/internal/auth"
	"presupuesto-backend/internal/config"
	"presupuesto-backend/internal/infrastructure/database"
	authhandler "presupuesto-backend/internal/interfaces/handlers/auth"
	healthhandler "presupuesto-backend/internal/interfaces/handlers/health"
	projhandler "presupuesto-backend/internal/interfaces/handlers/projects"
	"presupuesto-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and routes.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.ResponseFormatter())
	app.Use(middleware.RequestID())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Live)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	var userFinder authcore.UserFinder
	if db != nil {
		userFinder = &authcore.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		ceilingSvc := &ceilings.Service{DB: db}
		resolver := &access.Resolver{
			Directory: &access.GormDirectory{DB: db},
			Positions: access.PositionIDs{
				FinanceHead: cfg.FinanceHeadPositionID,
				Analyst:     cfg.AnalystPositionID,
			},
		}
		requisitionSvc := &reqsvc.Service{DB: db}
		projectSvc := &projsvc.Service{
			DB:                  db,
			Ceilings:            ceilingSvc,
			Access:              resolver,
			Requisitions:        requisitionSvc,
			RejectOverdrawnUsed: cfg.RejectOverdrawnUsed,
		}
		ph := &projhandler.Handlers{Service: projectSvc}

		pg := app.Group("/api/v1/projects", middleware.RequireAuth())
		pg.Get("/", ph.List)
		pg.Post("/", ph.Register)
		pg.Get("/year/:year", ph.GetByYear)
		pg.Get("/by-techo/:ceilingId", ph.GetByCeiling)
		pg.Get("/ensure-exists/:ceilingId", ph.EnsureExists)
		pg.Post("/update-amount", ph.UpdateAmount)
		pg.Post("/historical-record", ph.Historical)
		pg.Get("/:id/requisitions", ph.Requisitions)
		pg.Get("/:id/history", ph.History)
		pg.Get("/:id", ph.Get)
		pg.Put("/:id", ph.Update)
	}

	return app, db, rdb, nil
}
