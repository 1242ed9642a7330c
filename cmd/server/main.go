package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joho/godotenv"

	taskv1 "github.com/gurkanbulca/dayplan/api/task/v1"
	"github.com/gurkanbulca/dayplan/internal/config"
	"github.com/gurkanbulca/dayplan/internal/database"
	"github.com/gurkanbulca/dayplan/internal/middleware"
	"github.com/gurkanbulca/dayplan/internal/planner"
	"github.com/gurkanbulca/dayplan/internal/repository"
	"github.com/gurkanbulca/dayplan/internal/service"
	"github.com/gurkanbulca/dayplan/pkg/auth"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	store, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to open task store: %v", err)
	}
	defer closeStore()

	location, err := cfg.Planner.Location()
	if err != nil {
		log.Fatalf("Invalid planner timezone: %v", err)
	}
	registry := planner.NewRegistry(store, planner.Options{
		HorizonMonths: cfg.Planner.HorizonMonths,
		Location:      location,
	})
	defer registry.Close()

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenDuration)
	taskService := service.NewTaskService(registry, cfg.Planner.DefaultOccurrences)

	// Initialize middleware
	metadataExtractor := middleware.NewMetadataExtractorInterceptor()
	validationInterceptor := middleware.NewValidationInterceptor(middleware.DefaultValidationConfig())
	authInterceptor := middleware.NewAuthInterceptor(tokenManager)

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			metadataExtractor.Unary(),
			validationInterceptor.Unary(),
			authInterceptor.Unary(),
			middleware.LoggingInterceptor,
		),
		grpc.ChainStreamInterceptor(
			metadataExtractor.Stream(),
			validationInterceptor.Stream(),
			authInterceptor.Stream(),
			middleware.StreamLoggingInterceptor,
		),
	)

	taskv1.RegisterTaskServiceServer(grpcServer, taskService)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(taskv1.TaskService_ServiceDesc.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	if cfg.Server.EnableReflection {
		reflection.Register(grpcServer)
		log.Println("gRPC reflection enabled (disable in production)")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	go func() {
		log.Printf("🚀 Dayplan gRPC server listening on port %s (timezone %s, horizon %d months)",
			cfg.Server.GRPCPort, location, cfg.Planner.HorizonMonths)
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("📴 Shutting down server...")
	healthServer.Shutdown()
	grpcServer.GracefulStop()
	log.Println("✅ Server shutdown complete")
}

// openStore returns the task store selected by configuration and a func
// releasing it.
func openStore(ctx context.Context, cfg *config.Config) (planner.Store, func(), error) {
	if cfg.Server.MemoryStore {
		log.Println("Using in-memory task store, tasks are lost on restart")
		return repository.NewMemoryTaskRepository(), func() {}, nil
	}

	log.Println("Connecting to PostgreSQL...")
	drv, err := database.NewDriver(cfg.ToDatabaseConfig())
	if err != nil {
		return nil, nil, err
	}
	closeDriver := func() {
		if err := drv.Close(); err != nil {
			log.Printf("Failed to close database connection: %v", err)
		}
	}

	if cfg.Server.AutoMigrate {
		if err := database.Migrate(ctx, database.WithDebug(drv, cfg.Database.Debug)); err != nil {
			closeDriver()
			return nil, nil, err
		}
	}

	return repository.NewSQLTaskRepository(drv), closeDriver, nil
}
