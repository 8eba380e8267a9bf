package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DharuvSharma/fitness-minder/handlers"
	"github.com/DharuvSharma/fitness-minder/middleware"
	"github.com/DharuvSharma/fitness-minder/services"

	_ "net/http/pprof"
)

var (
	dbPool          *pgxpool.Pool
	streakService   *services.StreakService
	workoutService  *services.WorkoutService
	goalService     *services.GoalService
	progressService *services.ProgressService
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	clerkSecretKey := os.Getenv("CLERK_SECRET_KEY")
	if clerkSecretKey == "" {
		log.Fatal("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(clerkSecretKey)

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		log.Fatal("Failed to parse database URL:", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Fatal("Failed to create connection pool:", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Successfully connected to database")

	streakService = services.NewStreakService(services.NewPostgresStreakStore(dbPool))
	workoutService = services.NewWorkoutService(dbPool, streakService)
	goalService = services.NewGoalService(dbPool)
	progressService = services.NewProgressService(dbPool)

	middleware.InitPrometheus()
}

func main() {
	defer func() {
		log.Println("Closing database connection pool...")
		dbPool.Close()
	}()

	streakHandler := handlers.NewStreakHandler(streakService)
	workoutHandler := handlers.NewWorkoutHandler(workoutService)
	goalHandler := handlers.NewGoalHandler(goalService)
	progressHandler := handlers.NewProgressHandler(progressService)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "fitness-minder-api"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version": "v1"}`))
	}).Methods("GET")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware)

	protected.HandleFunc("/streaks", streakHandler.GetStreak).Methods("GET")

	protected.HandleFunc("/workouts", workoutHandler.GetWorkouts).Methods("GET")
	protected.HandleFunc("/workouts", workoutHandler.CreateWorkout).Methods("POST")
	protected.HandleFunc("/workouts/calendar", workoutHandler.GetCalendar).Methods("GET")
	protected.HandleFunc("/workouts/stats/weekly", workoutHandler.GetWeeklyStats).Methods("GET")
	protected.HandleFunc("/workouts/stats/monthly", workoutHandler.GetMonthlyStats).Methods("GET")
	protected.HandleFunc("/workouts/stats/yearly", workoutHandler.GetYearlyStats).Methods("GET")
	protected.HandleFunc("/workouts/stats/all-time", workoutHandler.GetAllTimeStats).Methods("GET")
	protected.HandleFunc("/workouts/{id}", workoutHandler.GetWorkout).Methods("GET")
	protected.HandleFunc("/workouts/{id}", workoutHandler.UpdateWorkout).Methods("PUT")
	protected.HandleFunc("/workouts/{id}", workoutHandler.DeleteWorkout).Methods("DELETE")
	protected.HandleFunc("/workouts/{id}/toggle", workoutHandler.ToggleCompletion).Methods("PUT")

	protected.HandleFunc("/goals", goalHandler.GetGoals).Methods("GET")
	protected.HandleFunc("/goals", goalHandler.CreateGoal).Methods("POST")
	protected.HandleFunc("/goals/{id}", goalHandler.GetGoal).Methods("GET")
	protected.HandleFunc("/goals/{id}", goalHandler.UpdateGoal).Methods("PUT")
	protected.HandleFunc("/goals/{id}", goalHandler.DeleteGoal).Methods("DELETE")

	protected.HandleFunc("/progress", progressHandler.GetProgress).Methods("GET")
	protected.HandleFunc("/progress", progressHandler.AddProgress).Methods("POST")
	protected.HandleFunc("/progress/{id}", progressHandler.UpdateProgress).Methods("PUT")
	protected.HandleFunc("/progress/{id}", progressHandler.DeleteProgress).Methods("DELETE")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
