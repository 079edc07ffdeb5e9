package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/benjamin-thomas/pfm2-sub000/docs"
	"github.com/benjamin-thomas/pfm2-sub000/internal/config"
	"github.com/benjamin-thomas/pfm2-sub000/internal/database"
	"github.com/benjamin-thomas/pfm2-sub000/internal/events"
	"github.com/benjamin-thomas/pfm2-sub000/internal/handlers"
	mW "github.com/benjamin-thomas/pfm2-sub000/internal/middleware"
	"github.com/benjamin-thomas/pfm2-sub000/internal/storage"
	"github.com/benjamin-thomas/pfm2-sub000/internal/storage/memory"
	"github.com/benjamin-thomas/pfm2-sub000/internal/storage/postgres"
)

// @title Personal Finance Manager API
// @version 1.0
// @description Double-entry ledger over accounts and transactions
// @host localhost:8080
// @BasePath /
// @schemes http https

func main() {
	viper.SetConfigFile(".env") // explicitly point to .env file
	viper.AutomaticEnv()        // allow environment variables to override .env

	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.name", "DATABASE_NAME")
	viper.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")

	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("redis.db", "REDIS_DB")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Config file not found, using defaults: %v", err)
	}

	cfg := config.LoadServerConfig()

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	var (
		txStore  storage.TransactionStore
		accStore storage.AccountStore
		catStore storage.CategoryStore
	)

	switch cfg.Store {
	case "memory":
		mem := memory.New()
		seedMemoryStore(mem)
		txStore, accStore, catStore = mem, mem, mem
		log.Println("Using in-memory store")
	case "postgres":
		db := database.InitDatabase()
		defer db.Close()
		pg := postgres.New(db)
		txStore, accStore, catStore = pg, pg, pg
		log.Println("Using postgres store")
	default:
		log.Fatalf("Unknown store backend: %q", cfg.Store)
	}

	redisClient := database.InitRedis()
	if redisClient != nil {
		defer redisClient.Close()
	}
	publisher := events.NewPublisher(redisClient)

	txHandler := handlers.NewTransactionHandler(txStore, publisher)
	balanceHandler := handlers.NewBalanceHandler(txStore, accStore, catStore)
	accountHandler := handlers.NewAccountHandler(accStore, catStore)

	r := chi.NewRouter()

	r.Use(mW.SecurityHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:"+cfg.Port+"/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		r.Get("/balances", balanceHandler.Balances)
		r.Get("/ledger/{accountId}", balanceHandler.Ledger)

		r.Get("/transactions", txHandler.List)
		r.Post("/transactions", txHandler.Create)
		r.Get("/transactions/{id}", txHandler.Get)
		r.Put("/transactions/{id}", txHandler.Update)
		r.Delete("/transactions/{id}", txHandler.Delete)

		r.Get("/accounts", accountHandler.ListAccounts)
		r.Delete("/accounts/{id}", accountHandler.DeleteAccount)
		r.Get("/categories", accountHandler.ListCategories)
	})

	// React SPA
	r.Handle("/*", mW.SPAFileServer(cfg.StaticDir))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server stopped")
}

// seedMemoryStore gives a fresh in-memory run a usable chart of accounts.
func seedMemoryStore(mem *memory.Store) {
	equity := mem.SeedCategory("Equity")
	assets := mem.SeedCategory("Assets")
	expenses := mem.SeedCategory("Expenses")
	income := mem.SeedCategory("Income")

	mem.SeedAccount(equity.ID, "OpeningBalance", 0, true)
	mem.SeedAccount(assets.ID, "Checking", 1, false)
	mem.SeedAccount(assets.ID, "Savings", 2, false)
	mem.SeedAccount(expenses.ID, "Groceries", 3, false)
	mem.SeedAccount(expenses.ID, "Rent", 4, false)
	mem.SeedAccount(income.ID, "Employer", 5, false)
}
