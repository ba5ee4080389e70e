package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"vyaparsetu-service/internal/api"
	"vyaparsetu-service/internal/config"
	"vyaparsetu-service/internal/logger"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC servers",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	log := a.logger

	if a.cfg.Store.SeedDemoData {
		ids, err := seedDemo(ctx, a)
		if err != nil {
			return err
		}
		log.Info("demo data seeded", zap.Int("records", len(ids)))
	}

	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, a.cfg, log)
	api.NewHTTPHandler(a.services(), a.apiOptions()).RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  a.cfg.HttpServer.TimeoutRead,
		WriteTimeout: a.cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  a.cfg.HttpServer.TimeoutIdle,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("port", a.cfg.HttpServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server ListenAndServe error: %w", err)
		}
		log.Info("HTTP server has stopped")
		return nil
	})

	var grpcServer *grpc.Server
	if a.cfg.GrpcServer.Enabled {
		grpcServer = setupGRPCServer(log, a)
		grpcListener, err := net.Listen("tcp", ":"+a.cfg.GrpcServer.Port)
		if err != nil {
			_ = httpServer.Close()
			_ = g.Wait()
			return fmt.Errorf("failed to listen for gRPC on port %s: %w", a.cfg.GrpcServer.Port, err)
		}
		g.Go(func() error {
			log.Info("gRPC server listening", zap.String("port", a.cfg.GrpcServer.Port))
			if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return fmt.Errorf("gRPC server Serve error: %w", err)
			}
			log.Info("gRPC server has stopped")
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		waitForShutdown(log, httpServer, grpcServer)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("service shutdown sequence finished")
	return nil
}

func setupBaseMiddleware(router *chi.Mux, cfg *config.Config, log *zap.Logger) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logger.RequestLogger(log.Named("http")))
	router.Use(middleware.Recoverer)
	router.Use(api.CORS(cfg.HttpServer.CORSOrigins))
	router.Use(middleware.Timeout(60 * time.Second))
	log.Debug("base HTTP middleware registered")
}

func setupGRPCServer(log *zap.Logger, a *app) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		api.UnaryLoggingInterceptor(log.Named("grpc")),
		api.UnaryAdminInterceptor(a.cfg.Admin.JWTSecret, log.Named("grpc")),
	))

	api.RegisterDecisionEngineServer(s, api.NewGRPCHandler(a.services(), a.apiOptions()))
	log.Debug("DecisionEngine gRPC service registered")

	healthServer := health.NewServer()
	healthServer.SetServingStatus(api.DecisionEngineServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(s, healthServer)

	reflection.Register(s)
	return s
}

// waitForShutdown stops both servers, forcing the gRPC server if it does not
// drain within shutdownTimeout.
func waitForShutdown(log *zap.Logger, httpServer *http.Server, grpcServer *grpc.Server) {
	log.Info("starting graceful shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stoppedGrpc := make(chan struct{})
	go func() {
		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server graceful shutdown failed", zap.Error(err))
	} else {
		log.Info("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		log.Info("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		log.Warn("gRPC server graceful shutdown timed out, forcing stop", zap.Error(shutdownCtx.Err()))
		grpcServer.Stop()
	}
}
