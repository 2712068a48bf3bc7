package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/pensamiento-creativo/student-records-service/internal/adapters/handler"
	"github.com/pensamiento-creativo/student-records-service/internal/adapters/middleware"
	"github.com/pensamiento-creativo/student-records-service/internal/adapters/repository"
	"github.com/pensamiento-creativo/student-records-service/internal/adapters/session"
	"github.com/pensamiento-creativo/student-records-service/internal/adapters/stream"
	"github.com/pensamiento-creativo/student-records-service/internal/config"
	"github.com/pensamiento-creativo/student-records-service/internal/core/domain"
	"github.com/pensamiento-creativo/student-records-service/internal/core/services"
)

func main() {

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	accountRepo := repository.NewSQLAccountRepository(db)
	profileRepo := repository.NewSQLProfileRepository(db)
	inviteRepo := repository.NewSQLInviteRepository(db)
	studentRepo := repository.NewSQLStudentRepository(db)
	recordRepo := repository.NewSQLRecordRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Authenticated with Redis successfully")

	activeRoleStore := session.NewRedisActiveRoleStore(redisClient)

	resolver := services.NewRoleResolver(activeRoleStore)
	authService := services.NewAuthService(accountRepo, profileRepo, resolver, activeRoleStore, cfg.JWTPrivateKey)
	routerService := services.NewRouterService(profileRepo, resolver, activeRoleStore)
	registrationService := services.NewRegistrationService(accountRepo, profileRepo, inviteRepo)
	recordService := services.NewRecordService(recordRepo, activeRoleStore)
	studentService := services.NewStudentService(studentRepo, profileRepo, inviteRepo)

	snapshotHub := stream.NewSnapshotHub(recordRepo, cfg.DatabaseURL)
	go func() {
		if err := snapshotHub.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("snapshot hub stopped: %v", err)
		}
	}()

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey)

	authHandler := handler.NewAuthHandler(authService)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	routerHandler := handler.NewRouterHandler(routerService)
	studentHandler := handler.NewStudentHandler(studentService)
	recordHandler := handler.NewRecordHandler(recordService, snapshotHub)
	healthHandler := handler.NewHealthHandler(db, redisClient, snapshotHub)

	anyRole := []domain.Role{domain.RoleDoctor, domain.RoleTeacher, domain.RoleParent}
	doctorOnly := []domain.Role{domain.RoleDoctor}

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)
	mux.Handle("/metrics", promhttp.Handler())

	// Session
	mux.HandleFunc("/login", authHandler.Login)
	mux.Handle("/logout", authMiddleware.RequireAuth(authHandler.Logout))
	mux.HandleFunc("/register", registrationHandler.Register)

	// Dashboard routing
	mux.Handle("/route", authMiddleware.RequireAuth(routerHandler.Route))
	mux.Handle("/choose-role", authMiddleware.RequireAuth(routerHandler.ChooseRole))

	// Doctor operations
	mux.Handle("/invites", authMiddleware.RequireRole(doctorOnly, studentHandler.Invite))
	mux.Handle("/assignments", authMiddleware.RequireRole(doctorOnly, studentHandler.Assign))
	createStudent := authMiddleware.RequireRole(doctorOnly, studentHandler.CreateStudent)
	listStudents := authMiddleware.RequireRole(anyRole, studentHandler.ListStudents)
	mux.HandleFunc("/students", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			createStudent(w, r)
		case http.MethodGet:
			listStudents(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Records
	mux.Handle("/records", authMiddleware.RequireRole(anyRole, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			recordHandler.CreateRecord(w, r)
		case http.MethodGet:
			recordHandler.ListRecords(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.Handle("/records/stream", authMiddleware.RequireRole(anyRole, recordHandler.StreamRecords))

	corsMiddleware := middleware.CORS(cfg.AllowedOrigins)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsMiddleware(mux)); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
