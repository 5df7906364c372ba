package server

import (
	"database/sql"
	"time"

	"github.com/Essateric/chaiiwala-sub001/internal/cache"
	"github.com/Essateric/chaiiwala-sub001/internal/metrics"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/access"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/auth"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/calendar"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/joblog"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/store"
	"github.com/Essateric/chaiiwala-sub001/internal/modules/user"
	"github.com/Essateric/chaiiwala-sub001/internal/storage"
)

// Options select the backend and shared infrastructure for Assemble.
type Options struct {
	Driver          string
	Issuer          *access.TokenIssuer
	Cache           cache.Cache
	CacheTTL        time.Duration
	Metrics         metrics.Sink
	Now             func() time.Time
	Location        *time.Location
	DefaultMoveTime string
}

// Assemble builds every service over db, choosing repositories for the
// configured driver.
func Assemble(db *sql.DB, o Options) Deps {
	var (
		userRepo  user.Repository
		storeRepo store.Repository
		jobRepo   joblog.Repository
	)
	if o.Driver == storage.DriverSQLite {
		userRepo = user.NewSQLiteRepository(db)
		storeRepo = store.NewSQLiteRepository(db)
		jobRepo = joblog.NewSQLiteRepository(db)
	} else {
		userRepo = user.NewPostgresRepository(db)
		storeRepo = store.NewPostgresRepository(db)
		jobRepo = joblog.NewPostgresRepository(db)
	}
	if o.Metrics == nil {
		o.Metrics = metrics.NewNoopSink()
	}

	stores := store.NewService(storeRepo)
	jobs := joblog.NewService(jobRepo, joblog.Options{
		Cache:           o.Cache,
		CacheTTL:        o.CacheTTL,
		Metrics:         o.Metrics,
		Now:             o.Now,
		Location:        o.Location,
		DefaultMoveTime: o.DefaultMoveTime,
	})

	return Deps{
		Issuer:   o.Issuer,
		Users:    user.NewService(userRepo),
		Auth:     auth.NewService(userRepo, o.Issuer),
		Stores:   stores,
		Jobs:     jobs,
		Calendar: calendar.NewService(jobs, stores, o.Metrics, o.Now, o.Location),
		DB:       db,
	}
}
