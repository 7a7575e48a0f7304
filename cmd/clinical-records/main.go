package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/config"
	v1 "github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/handler/v1"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/repository/memory"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/server"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/internal/service"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/logger"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/metrics"
	"github.com/dmehra2102/prod-golang-projects/clinicalrecords/pkg/tracer"
)

// Set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinical-records",
		Short: "Hospital clinical records API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinical records API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func runServer(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.App.Version == "0.0.0" {
		cfg.App.Version = version
	}

	log, err := logger.New(cfg.Log, cfg.App)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, cfg.Tracing, cfg.App.Version)
	if err != nil {
		return fmt.Errorf("initialising tracer: %w", err)
	}

	m := metrics.NewCollector(cfg.App.Name, prometheus.DefaultRegisterer)

	patients := memory.NewPatientStore()
	wards := memory.NewWardStore()
	staff := memory.NewStaffStore()
	diagnoses := memory.NewDiagnosisStore()

	var auditSvc *service.AuditService
	if cfg.Audit.Enabled {
		auditSvc = service.NewAuditService(memory.NewAuditStore(), cfg.Audit.BufferSize, m, log)
	}

	router := server.NewRouter(ctx, server.Deps{
		Config:         cfg,
		Log:            log,
		Metrics:        m,
		Gatherer:       prometheus.DefaultGatherer,
		TracerProvider: tp,
		Services: v1.Services{
			Patients: service.NewPatientService(patients, patients.Archive(), auditSvc, m, log),
			Clinical: service.NewClinicalRecordService(service.Registries{
				Patients:  patients,
				Wards:     wards,
				Staff:     staff,
				Diagnoses: diagnoses,
			}, auditSvc, m, log),
			Staff:     service.NewStaffService(staff, auditSvc, m, log),
			Wards:     service.NewWardService(wards, auditSvc, m, log),
			Diagnoses: service.NewDiagnosisService(diagnoses, auditSvc, m, log),
			Audit:     auditSvc,
		},
	})
	srv := server.NewHTTPServer(cfg.Server, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.Bool("tracing", cfg.Tracing.Enabled),
			zap.Bool("audit", cfg.Audit.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		auditSvc.Shutdown(shutdownCtx)
		if err := tp.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
