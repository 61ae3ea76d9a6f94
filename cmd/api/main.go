package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/llakewood/lrc-finance/internal/auth"
	"github.com/llakewood/lrc-finance/internal/cache"
	"github.com/llakewood/lrc-finance/internal/db"
	"github.com/llakewood/lrc-finance/internal/financial"
	"github.com/llakewood/lrc-finance/internal/ingredient"
	"github.com/llakewood/lrc-finance/internal/middleware"
	"github.com/llakewood/lrc-finance/internal/recipe"
	"github.com/llakewood/lrc-finance/internal/reconcile"
	"github.com/llakewood/lrc-finance/internal/storage"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	required := []string{
		"JWT_SECRET",
		"DATABASE_URL",
		"ARCHIVE_ACCESS_KEY",
		"ARCHIVE_SECRET_KEY",
		"ARCHIVE_BUCKET_NAME",
		"ARCHIVE_ENDPOINT",
		"ARCHIVE_PUBLIC_BASE_URL",
	}

	for _, k := range required {
		if os.Getenv(k) == "" {
			log.Fatalf("❌ Missing env var: %s", k)
		}
	}

	// ───────────────────────── DB ─────────────────────────
	pgDB := db.ConnectPostgres()
	defer pgDB.Close()

	// ───────────────────────── GIN ─────────────────────────
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// ───────────────────────── STORAGE ─────────────────────────
	archive, err := storage.NewClient(context.Background())
	if err != nil {
		log.Fatal("❌ Archive init failed:", err)
	}

	// ───────────────────────── AUTH ─────────────────────────
	accountRepo := auth.NewPostgresRepository(pgDB)
	authService := auth.NewService(accountRepo)
	authHandler := auth.NewHandler(authService)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// ───────────────────────── CORE REPOS ─────────────────────────
	ingredientRepo := ingredient.NewPostgresRepository(pgDB)
	recipeRepo := recipe.NewPostgresRepository(pgDB)
	financialRepo := financial.NewPostgresRepository(pgDB)

	// ───────────────────────── SERVICES ─────────────────────────
	ingredientService := ingredient.NewService(ingredientRepo)
	recipeService := recipe.NewService(recipeRepo, ingredientRepo)
	financialService := financial.NewService(financialRepo)

	// ───────────────────────── DERIVED-VIEW CACHE ─────────────────────────
	caches := cache.NewStore()

	// ───────────────────────── HANDLERS ─────────────────────────
	ingredientHandler := ingredient.NewHandler(ingredientService)
	recipeHandler := recipe.NewHandler(recipeService, caches)
	financialHandler := financial.NewHandler(financialService, archive)

	reconcileHandler := reconcile.NewHandler(
		recipeService,
		reconcile.LinkerFunc(recipeHandler.LinkIngredient),
		caches,
	)

	// ───────────────────────── INGREDIENT ROUTES ─────────────────────────
	ingredients := r.Group("/api/ingredients")
	ingredients.Use(middleware.AuthMiddleware())
	{
		ingredients.GET("", ingredientHandler.List)
		ingredients.GET("/categories", ingredientHandler.Categories)
		ingredients.GET("/:id", ingredientHandler.Get)

		owner := ingredients.Group("")
		owner.Use(middleware.RequireRole(auth.RoleOwner))
		{
			owner.POST("", ingredientHandler.Create)
			owner.PUT("/:id", ingredientHandler.Update)
			owner.DELETE("/:id", ingredientHandler.Delete)
		}
	}

	// ───────────────────────── RECIPE ROUTES ─────────────────────────
	recipes := r.Group("/api/recipes")
	recipes.Use(middleware.AuthMiddleware())
	{
		recipes.GET("", recipeHandler.List)
		recipes.GET("/unlinked", recipeHandler.Unlinked)
		recipes.GET("/:id", recipeHandler.Get)

		owner := recipes.Group("")
		owner.Use(middleware.RequireRole(auth.RoleOwner))
		{
			owner.PATCH("/:id", recipeHandler.Update)
			owner.POST("/:id/ingredients/:index/link", recipeHandler.Link)
		}
	}

	// ───────────────────────── RECONCILIATION WORKFLOW ─────────────────────────
	workflow := r.Group("/api/reconcile")
	workflow.Use(middleware.AuthMiddleware())
	{
		workflow.POST("/open", reconcileHandler.Open)
		workflow.GET("", reconcileHandler.View)
		workflow.POST("/refresh", reconcileHandler.Refresh)
		workflow.POST("/select", reconcileHandler.Select)
		workflow.POST("/submit", reconcileHandler.Submit)
		workflow.POST("/close", reconcileHandler.Close)
	}

	// ───────────────────────── FINANCIAL ROUTES ─────────────────────────
	fin := r.Group("/api/financial")
	fin.Use(middleware.AuthMiddleware())
	{
		fin.GET("/summary", financialHandler.Summary)
		fin.GET("/debts", financialHandler.Debts)
		fin.GET("/benchmarks", financialHandler.Benchmarks)

		owner := fin.Group("")
		owner.Use(middleware.RequireRole(auth.RoleOwner))
		{
			owner.POST("/documents", financialHandler.UploadDocument)
		}
	}

	// ───────────────────────── HEALTH ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("🚀 API listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
