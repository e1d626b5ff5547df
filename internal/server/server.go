package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/platoro/foodgram/internal/blob"
	"github.com/platoro/foodgram/internal/cache"
	"github.com/platoro/foodgram/internal/config"
	"github.com/platoro/foodgram/internal/jobs"
	"github.com/platoro/foodgram/internal/service"
	"github.com/platoro/foodgram/internal/store"
)

// Server wires the store, services and HTTP routes together.
type Server struct {
	cfg *config.Config
}

func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests.
func (s *Server) Start() {
	if err := Start(s.cfg); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

func Start(cfg *config.Config) error {
	db := config.GetDb(cfg)
	gormStore := store.NewGormStore(db)
	if err := gormStore.Migrate(); err != nil {
		return err
	}

	blobs, err := blob.NewFileStorage(cfg.UploadDir, "/uploads")
	if err != nil {
		return err
	}

	var links *cache.ShortLinkCache
	if cfg.RedisAddr != "" {
		links = cache.NewShortLinkCache(cfg.RedisAddr)
	}

	recipes := service.NewRecipeService(cfg, gormStore, blobs, links)
	users := service.NewUserService(gormStore, blobs)
	ingredients := service.NewIngredientService(gormStore)

	router := NewRouter(cfg, recipes, users, ingredients)

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler(router)

	httpServer := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: handler,
	}

	executor := jobs.NewTaskExecutor([]jobs.CronJob{
		jobs.NewOrphanUploadCleaner(db, cfg.UploadDir),
	})
	executor.Run()
	defer executor.Stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logrus.Infof("received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(ctx)
}

// NewRouter registers every route. Split out from Start so handler tests can
// run against an in-memory store.
func NewRouter(cfg *config.Config, recipes *service.RecipeService, users *service.UserService, ingredients *service.IngredientService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	recipeHandler := NewRecipeHandler(recipes, users)
	userHandler := NewUserHandler(users, cfg.JWTSecret)
	ingredientHandler := NewIngredientHandler(ingredients)

	router.Static("/uploads", cfg.UploadDir)
	router.GET("/s/:token", recipeHandler.ResolveLink)

	api := router.Group("/api")

	public := api.Group("", authOptional(cfg.JWTSecret))
	{
		public.POST("/auth/signup", userHandler.Signup)
		public.POST("/auth/login", userHandler.Login)

		public.GET("/users", userHandler.ListUsers)
		public.GET("/users/:id", userHandler.GetUser)

		public.GET("/ingredients", ingredientHandler.ListIngredients)
		public.GET("/ingredients/:id", ingredientHandler.GetIngredient)

		public.GET("/recipes", recipeHandler.ListRecipes)
		public.GET("/recipes/:id", recipeHandler.GetRecipe)
		public.GET("/recipes/:id/get-link", recipeHandler.GetLink)
	}

	protected := api.Group("", authRequired(cfg.JWTSecret))
	{
		protected.GET("/users/me", userHandler.Me)
		protected.POST("/users/set_password", userHandler.SetPassword)
		protected.PUT("/users/me/avatar", userHandler.SetAvatar)
		protected.DELETE("/users/me/avatar", userHandler.DeleteAvatar)
		protected.GET("/users/subscriptions", userHandler.Subscriptions)
		protected.POST("/users/:id/subscribe", userHandler.Subscribe)
		protected.DELETE("/users/:id/subscribe", userHandler.Unsubscribe)

		protected.POST("/recipes", recipeHandler.CreateRecipe)
		protected.PUT("/recipes/:id", recipeHandler.UpdateRecipe)
		protected.PATCH("/recipes/:id", recipeHandler.UpdateRecipe)
		protected.DELETE("/recipes/:id", recipeHandler.DeleteRecipe)

		protected.POST("/recipes/:id/favorite", recipeHandler.Favorite)
		protected.DELETE("/recipes/:id/favorite", recipeHandler.Unfavorite)
		protected.POST("/recipes/:id/shopping_cart", recipeHandler.AddToCart)
		protected.DELETE("/recipes/:id/shopping_cart", recipeHandler.RemoveFromCart)
		protected.GET("/recipes/download_shopping_cart", recipeHandler.DownloadShoppingCart)
	}

	return router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logrus.WithFields(logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Infof("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
