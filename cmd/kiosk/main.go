// Command kiosk is the staff check-in desk. It reads QR payloads from a
// keyboard-wedge scanner or typed input on stdin.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Seascape-Charters/service-booking/internal/application"
	"github.com/Seascape-Charters/service-booking/internal/capture"
	"github.com/Seascape-Charters/service-booking/internal/config"
	"github.com/Seascape-Charters/service-booking/internal/ledger"
	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/kafka"
	"github.com/Seascape-Charters/service-booking/internal/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "booking-kiosk")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	staffID, err := uuid.Parse(cfg.Kiosk.StaffID)
	if err != nil {
		log.Fatal("BOOKING_KIOSK_STAFF_ID must be the staff member's user ID", zap.Error(err))
	}

	var stop shutdown
	defer stop.run()

	backend, closeLedger, err := ledger.Open(cfg, log)
	if err != nil {
		log.Fatal("failed to open ledger", zap.Error(err))
	}
	stop.add(closeLedger)

	var publisher application.EventPublisher
	if cfg.KafkaConfig.Enabled() {
		producer := kafka.NewProducer(cfg.KafkaConfig.Brokers, log)
		stop.add(func() {
			if err := producer.Close(); err != nil {
				log.Warn("failed to flush event producer", zap.Error(err))
			}
		})
		publisher = producer
	}

	d := &desk{
		scanner:  capture.NewScanner(capture.NewLineDevice(os.Stdin), log),
		checkins: application.NewCheckInService(backend, publisher, log),
		session:  auth.Session{UserID: staffID, Role: auth.RoleStaff},
		out:      os.Stdout,
		prompt:   cfg.Kiosk.Prompt,
		logger:   log,
	}

	// A read blocked on stdin cannot be interrupted, so release the device
	// and exit directly on a signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		d.scanner.Release()
		stop.run()
		log.Info("kiosk interrupted")
		_ = log.Sync()
		os.Exit(0)
	}()

	if err := d.run(context.Background()); err != nil {
		log.Error("kiosk stopped with error", zap.Error(err))
		return
	}
	log.Info("kiosk stopped")
}
