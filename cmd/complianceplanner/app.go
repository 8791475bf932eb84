package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"compliance-planner/internal/config"
	"compliance-planner/internal/logging"
	"compliance-planner/internal/metrics"
	"compliance-planner/internal/repository"
	"compliance-planner/internal/service"
)

// app holds the wiring shared by the commands.
type app struct {
	cfg      config.Config
	log      *logrus.Logger
	db       *gorm.DB
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	orgs       *repository.OrganizationRepository
	people     *repository.PersonRepository
	structures *repository.StructureRepository
	templates  *repository.TemplateRepository
	deadlines  *repository.DeadlineRepository

	directory   *service.DirectoryService
	templateSvc *service.TemplateService
	deadlineSvc *service.DeadlineService
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	db, err := repository.NewDB(cfg.DatabaseURL, log)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	grouping, err := service.ParseGrouping(cfg.Grouping)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	a := &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		registry:   registry,
		metrics:    m,
		orgs:       repository.NewOrganizationRepository(db),
		people:     repository.NewPersonRepository(db),
		structures: repository.NewStructureRepository(db),
		templates:  repository.NewTemplateRepository(db),
		deadlines:  repository.NewDeadlineRepository(db),
	}

	generator := service.NewGenerator(cfg.LookaheadCount, grouping, service.NewStoreAnchorResolver(a.deadlines, log))
	a.directory = service.NewDirectoryService(a.orgs, a.people, a.structures)
	a.templateSvc = service.NewTemplateService(a.templates)
	a.deadlineSvc = service.NewDeadlineService(
		a.templates,
		service.NewTargetResolver(a.people, a.structures),
		generator,
		a.deadlines,
		m,
		log,
	)
	return a, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
