package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/raditya/go-olshop/internal/config"
	"github.com/raditya/go-olshop/internal/events"
	kafkax "github.com/raditya/go-olshop/internal/kafka"
	"github.com/raditya/go-olshop/internal/notifier"
	"github.com/raditya/go-olshop/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notifier.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-notifier",
	}

	group := getenv("NOTIFIER_GROUP", "notifier-svc")
	workers := mustAtoi(os.Getenv("NOTIFIER_WORKERS"), "8")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, events.TopicPaymentStatus, workers)

	go func() {
		log.WithFields(log.Fields{
			"group":   group,
			"topic":   events.TopicPaymentStatus,
			"workers": workers,
		}).Info("notifier consumer started")
		if err := cons.Start(ctx, svc.HandlePaymentStatus); err != nil {
			log.WithError(err).Error("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
