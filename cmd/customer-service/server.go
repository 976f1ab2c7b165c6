package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	_ "github.com/MikeMC777/customer-orders/docs"
	"github.com/MikeMC777/customer-orders/internal/config"
	"github.com/MikeMC777/customer-orders/internal/httpx"
	"github.com/MikeMC777/customer-orders/internal/service"
	"github.com/MikeMC777/customer-orders/internal/store"
	"github.com/MikeMC777/customer-orders/internal/store/pgstore"
	"github.com/MikeMC777/customer-orders/internal/store/sqlitestore"
)

func newRouter(svc *service.Service) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())

	r.GET("/health", healthHandler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	api.POST("/customers", createCustomerHandler(svc))
	api.GET("/customers", listCustomersHandler(svc))
	api.GET("/customers/:id", getCustomerHandler(svc))
	api.PUT("/customers/:id", replaceCustomerHandler(svc))
	api.PATCH("/customers/:id", patchCustomerHandler(svc))
	api.DELETE("/customers/:id", deleteCustomerHandler(svc))

	api.POST("/orders", createOrderHandler(svc))
	api.GET("/orders", listOrdersHandler(svc))
	api.GET("/orders/:id", getOrderHandler(svc))
	return r
}

// openStore opens the configured backend. SQLite tables are created on open;
// Postgres schema is owned by the migrate command.
func openStore(ctx context.Context, cfg config.Config) (store.UnitOfWork, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		s, err := pgstore.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	gin.SetMode(cfg.GinMode)

	uow, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer uow.Close()
	svc := service.New(uow)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: newRouter(svc)}
	errc := make(chan error, 2)
	go func() {
		log.Printf("customer-service listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- errors.Wrap(err, "http server")
		}
	}()

	var gs *grpc.Server
	if cfg.GRPCAddr != "" {
		gs, err = startHealth(ctx, cfg.GRPCAddr, svc, errc)
		if err != nil {
			return err
		}
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errc:
		log.WithError(err).Error("server stopped")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if gs != nil {
		gs.GracefulStop()
	}
	return srv.Shutdown(shutdownCtx)
}

// startHealth serves grpc.health.v1 on addr. The overall status follows the
// store's ping, checked every few seconds until ctx ends.
func startHealth(ctx context.Context, addr string, svc *service.Service, errc chan<- error) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "grpc listen")
	}
	hs := health.NewServer()
	gs := grpc.NewServer()
	healthpb.RegisterHealthServer(gs, hs)

	go watchStore(ctx, svc, hs, 5*time.Second)
	go func() {
		log.Printf("grpc health listening on %s", addr)
		if err := gs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errc <- errors.Wrap(err, "grpc server")
		}
	}()
	return gs, nil
}

func watchStore(ctx context.Context, svc *service.Service, hs *health.Server, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		status := healthpb.HealthCheckResponse_SERVING
		if err := svc.Ping(ctx); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		hs.SetServingStatus("", status)

		select {
		case <-ctx.Done():
			hs.Shutdown()
			return
		case <-ticker.C:
		}
	}
}
