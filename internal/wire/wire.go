// Package wire provides dependency injection for the hall application.
// It creates singleton services with lazy initialization.
package wire

import (
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/hall/internal/adapters/cli"
	"github.com/example/hall/internal/adapters/sqlite"
	"github.com/example/hall/internal/app"
	"github.com/example/hall/internal/config"
	"github.com/example/hall/internal/core/window"
	"github.com/example/hall/internal/db"
	"github.com/example/hall/internal/ports/primary"
	"github.com/example/hall/internal/ports/secondary"
)

var (
	cfg             *config.Config
	logger          *zap.Logger
	authority       *window.Authority
	queueService    primary.QueueService
	dispatchService primary.DispatchService
	bidService      primary.BidService
	penaltyService  primary.PenaltyService
	activityService primary.ActivityService
	cycleService    primary.CycleService
	books           secondary.BookRepository
	once            sync.Once
)

// Config returns the loaded configuration.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// Logger returns the singleton zap logger.
func Logger() *zap.Logger {
	once.Do(initServices)
	return logger
}

// Authority returns the singleton time window authority.
func Authority() *window.Authority {
	once.Do(initServices)
	return authority
}

// QueueService returns the singleton QueueService instance.
func QueueService() primary.QueueService {
	once.Do(initServices)
	return queueService
}

// DispatchService returns the singleton DispatchService instance.
func DispatchService() primary.DispatchService {
	once.Do(initServices)
	return dispatchService
}

// BidService returns the singleton BidService instance.
func BidService() primary.BidService {
	once.Do(initServices)
	return bidService
}

// PenaltyService returns the singleton PenaltyService instance.
func PenaltyService() primary.PenaltyService {
	once.Do(initServices)
	return penaltyService
}

// ActivityService returns the singleton ActivityService instance.
func ActivityService() primary.ActivityService {
	once.Do(initServices)
	return activityService
}

// CycleService returns the singleton CycleService instance.
func CycleService() primary.CycleService {
	once.Do(initServices)
	return cycleService
}

// Books returns the book repository for read-only display commands.
func Books() secondary.BookRepository {
	once.Do(initServices)
	return books
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.DBPath != "" {
		db.SetPath(cfg.DBPath)
	}

	logger, err = zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	authority, err = buildAuthority(cfg)
	if err != nil {
		log.Fatalf("failed to build window authority: %v", err)
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports), sqlite with injected DB.
	regRepo := sqlite.NewRegistrationRepository(database)
	bookRepo := sqlite.NewBookRepository(database)
	requestRepo := sqlite.NewRequestRepository(database)
	bidRepo := sqlite.NewBidRepository(database)
	dispatchRepo := sqlite.NewDispatchRepository(database)
	activityRepo := sqlite.NewActivityRepository(database)
	exemptRepo := sqlite.NewExemptionRepository(database)
	blackoutRepo := sqlite.NewBlackoutRepository(database)
	suspensionRepo := sqlite.NewSuspensionRepository(database)
	directory := sqlite.NewDirectory(database)
	members := directory
	employers := directory

	clock := window.SystemClock{}
	rules := app.Rules{
		ReSignDays:         cfg.ReSignDays,
		CheckMarkLimit:     cfg.CheckMarkLimit,
		BidRejectionLimit:  cfg.BidRejectionLimit,
		BidRejectionWindow: cfg.BidRejectionWindow,
		BidSuspension:      cfg.BidSuspension,
		SeparationBlackout: cfg.SeparationBlackout,
		ShortCallDays:      cfg.ShortCallDays,
	}

	// Services (primary port implementations). The penalty service comes
	// first: dispatch and bid both feed it.
	penaltyService = app.NewPenaltyService(
		regRepo, dispatchRepo, exemptRepo, blackoutRepo, suspensionRepo,
		activityRepo, members, clock, rules, logger)
	queueService = app.NewQueueService(
		regRepo, bookRepo, members, clock, logger)
	dispatcher := app.NewDispatchService(
		requestRepo, regRepo, dispatchRepo, bookRepo, exemptRepo,
		blackoutRepo, activityRepo, employers, penaltyService,
		authority, clock, rules, logger)
	dispatchService = dispatcher
	bidService = app.NewBidService(
		bidRepo, requestRepo, bookRepo, suspensionRepo, members,
		penaltyService, authority, clock, rules, logger)
	activityService = app.NewActivityService(activityRepo, logger)
	cycleService = app.NewCycleService(
		requestRepo, bookRepo, dispatcher, authority, clock, logger)
	books = bookRepo
}

// buildAuthority parses the configured window times into an Authority.
func buildAuthority(cfg *config.Config) (*window.Authority, error) {
	bidOpen, err := window.ParseMinute(cfg.BidOpen)
	if err != nil {
		return nil, err
	}
	bidClose, err := window.ParseMinute(cfg.BidClose)
	if err != nil {
		return nil, err
	}
	cutoff, err := window.ParseMinute(cfg.Cutoff)
	if err != nil {
		return nil, err
	}

	order := make([]window.BookGroup, 0, len(cfg.ProcessingOrder))
	for _, g := range cfg.ProcessingOrder {
		start, err := window.ParseMinute(g.Start)
		if err != nil {
			return nil, err
		}
		order = append(order, window.BookGroup{Name: g.Name, Start: start})
	}

	return window.New(window.Settings{
		BidOpen:  bidOpen,
		BidClose: bidClose,
		Cutoff:   cutoff,
		Order:    order,
	}), nil
}

// QueueAdapter returns a new QueueAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func QueueAdapter() *cliadapter.QueueAdapter {
	return QueueAdapterWithOutput(os.Stdout)
}

// QueueAdapterWithOutput returns a new QueueAdapter writing to the given output.
func QueueAdapterWithOutput(out io.Writer) *cliadapter.QueueAdapter {
	once.Do(initServices)
	return cliadapter.NewQueueAdapter(queueService, out)
}

// DispatchAdapter returns a new DispatchAdapter writing to stdout.
func DispatchAdapter() *cliadapter.DispatchAdapter {
	return DispatchAdapterWithOutput(os.Stdout)
}

// DispatchAdapterWithOutput returns a new DispatchAdapter writing to the given output.
func DispatchAdapterWithOutput(out io.Writer) *cliadapter.DispatchAdapter {
	once.Do(initServices)
	return cliadapter.NewDispatchAdapter(dispatchService, out)
}

// ActivityAdapter returns a new ActivityAdapter writing to stdout.
func ActivityAdapter() *cliadapter.ActivityAdapter {
	return ActivityAdapterWithOutput(os.Stdout)
}

// ActivityAdapterWithOutput returns a new ActivityAdapter writing to the given output.
func ActivityAdapterWithOutput(out io.Writer) *cliadapter.ActivityAdapter {
	once.Do(initServices)
	return cliadapter.NewActivityAdapter(activityService, out)
}
