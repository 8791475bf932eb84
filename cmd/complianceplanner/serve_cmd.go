package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"compliance-planner/internal/httpapi"
	"compliance-planner/internal/notify"
	"compliance-planner/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder digest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return serve(ctx, a)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	var notifier service.Notifier = notify.NewLog(a.log)
	if a.cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(a.cfg.TelegramToken, a.cfg.TelegramChatID, a.log)
		if err != nil {
			return err
		}
		notifier = tg
	}
	reminders := service.NewReminderService(
		a.deadlines, a.orgs, a.people, a.structures,
		notifier, a.cfg.ReminderHorizon(), a.metrics, a.log,
	)

	scheduler := service.NewSchedulerService(time.Local, 30*time.Second, a.log)
	digest := func(ctx context.Context) error { return reminders.Run(ctx, time.Now()) }
	switch {
	case a.cfg.ReminderAt != "":
		if _, err := scheduler.ScheduleDaily("reminder-digest", a.cfg.ReminderAt, digest); err != nil {
			return err
		}
	case a.cfg.ReminderInterval() > 0:
		if _, err := scheduler.ScheduleInterval("reminder-digest", a.cfg.ReminderInterval(), digest); err != nil {
			return err
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	h := httpapi.NewHandler(a.deadlineSvc, a.templateSvc, a.directory, a.log)
	srv := &http.Server{
		Addr:              a.cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(h, a.registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", srv.Addr).Info("compliance planner listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}
