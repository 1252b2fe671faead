package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/raditya/go-olshop/internal/cart"
	"github.com/raditya/go-olshop/internal/catalog"
	"github.com/raditya/go-olshop/internal/checkout"
	"github.com/raditya/go-olshop/internal/config"
	"github.com/raditya/go-olshop/internal/events"
	"github.com/raditya/go-olshop/internal/httpx"
	kafkax "github.com/raditya/go-olshop/internal/kafka"
	"github.com/raditya/go-olshop/internal/notification"
	"github.com/raditya/go-olshop/internal/payment"
	"github.com/raditya/go-olshop/internal/postgres"
	"github.com/raditya/go-olshop/internal/promo"
	"github.com/raditya/go-olshop/internal/redisx"
	"github.com/raditya/go-olshop/internal/transaction"
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

	if err := postgres.Migrate(cfg.PostgresDSN, cfg.MigrationsDir); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// one producer per topic, each with its own flush loop
	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicTransactionCreated, 1024)
	pCreated.Start(ctx)
	pStatus := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicPaymentStatus, 1024)
	pStatus.Start(ctx)
	pRejected := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicStockRejected, 1024)
	pRejected.Start(ctx)

	gateway := payment.NewMidtransGateway(cfg.MidtransServerKey, cfg.MidtransProduction, cfg.GatewayTimeout)

	trxRepo := &transaction.Repo{DB: db}
	checkoutSvc := &checkout.Service{
		Store:          &checkout.Repo{DB: db},
		Trx:            trxRepo,
		Gateway:        gateway,
		GatewayTimeout: cfg.GatewayTimeout,
	}
	recon := &payment.Reconciler{
		Trx:     trxRepo,
		Store:   &payment.Repo{DB: db},
		Gateway: gateway,
	}

	api := &httpx.API{
		Payments: &httpx.PaymentsHandler{
			Checkout:         checkoutSvc,
			Recon:            recon,
			Redis:            rdb,
			CreatedProducer:  pCreated,
			StatusProducer:   pStatus,
			RejectedProducer: pRejected,
			Service:          cfg.ServiceName,
		},
		Transactions:  &httpx.TransactionsHandler{Repo: trxRepo},
		Carts:         &httpx.CartsHandler{Repo: &cart.Repo{DB: db}},
		Catalog:       &httpx.CatalogHandler{Repo: &catalog.Repo{DB: db}},
		Promos:        &httpx.PromosHandler{Repo: &promo.Repo{DB: db}},
		Notifications: &httpx.NotificationsHandler{Repo: &notification.Repo{DB: db}},
	}

	router := httpx.NewRouter()
	api.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	pCreated.Close()
	pStatus.Close()
	pRejected.Close()
	cancel()
	pCreated.WaitClosed()
	pStatus.WaitClosed()
	pRejected.WaitClosed()
}
