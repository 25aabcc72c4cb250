package routes

import (
	"net/http"
	"time"

	"conduit-cms/cache"
	"conduit-cms/config"
	"conduit-cms/handlers"
	"conduit-cms/helper"
	"conduit-cms/middleware"
	"conduit-cms/models"
	"conduit-cms/repositories"
	"conduit-cms/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers on db and returns the
// HTTP router.
func NewRouter(db *gorm.DB, cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	httpHelper := helper.NewHTTPHelper()
	secret := []byte(cfg.JWTSecret)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	coauthorRepo := repositories.NewCoauthorRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)
	followRepo := repositories.NewFollowRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	tagRepo := repositories.NewTagRepository(db)

	rosterCache, err := cache.New[[]models.RosterEntry](cfg.RosterCacheSize, cfg.RosterCacheTTL)
	if err != nil {
		return nil, err
	}

	// Initialize services
	authService := services.NewAuthService(userRepo, secret, cfg.JWTExpiration, cfg.AdminEmails)
	tagService := services.NewTagService(tagRepo, articleRepo)
	coauthorService := services.NewCoauthorService(coauthorRepo, articleRepo, userRepo, followRepo, logger)
	articleService := services.NewArticleService(articleRepo, userRepo, favoriteRepo, followRepo, coauthorService, tagService, logger)
	lockService := services.NewLockService(articleRepo, userRepo, followRepo, favoriteRepo, cfg.LockTTL, logger)
	profileService := services.NewProfileService(userRepo, followRepo, articleRepo)
	commentService := services.NewCommentService(commentRepo, articleRepo, userRepo, followRepo)
	rosterService := services.NewRosterService(userRepo, articleRepo, rosterCache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, httpHelper)
	articleHandler := handlers.NewArticleHandler(articleService, lockService, httpHelper)
	profileHandler := handlers.NewProfileHandler(profileService, coauthorService, httpHelper)
	commentHandler := handlers.NewCommentHandler(commentService, httpHelper)
	tagHandler := handlers.NewTagHandler(tagService, httpHelper)
	rosterHandler := handlers.NewRosterHandler(rosterService, httpHelper)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	requireAuth := middleware.AuthMiddleware(secret, httpHelper)
	optionalAuth := middleware.OptionalAuthMiddleware(secret)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		v1.GET("/user", requireAuth, authHandler.GetCurrentUser)
		v1.PUT("/user", requireAuth, authHandler.UpdateCurrentUser)

		profiles := v1.Group("/profiles")
		{
			profiles.GET("/:username", optionalAuth, profileHandler.GetProfile)
			profiles.POST("/:username/follow", requireAuth, profileHandler.Follow)
			profiles.DELETE("/:username/follow", requireAuth, profileHandler.Unfollow)
		}

		articles := v1.Group("/articles")
		{
			articles.GET("", optionalAuth, articleHandler.GetArticles)
			articles.GET("/feed", requireAuth, articleHandler.GetFeed)
			articles.POST("", requireAuth, articleHandler.CreateArticle)
			articles.GET("/:slug", optionalAuth, articleHandler.GetArticle)
			articles.PUT("/:slug", requireAuth, articleHandler.UpdateArticle)
			articles.DELETE("/:slug", requireAuth, articleHandler.DeleteArticle)

			articles.POST("/:slug/lock", requireAuth, articleHandler.LockArticle)
			articles.DELETE("/:slug/lock", requireAuth, articleHandler.UnlockArticle)
			articles.GET("/:slug/permissions", requireAuth, articleHandler.GetPermissions)

			articles.GET("/:slug/coauthors", optionalAuth, profileHandler.GetCoauthors)
			articles.POST("/:slug/authors/:username/follow", requireAuth, profileHandler.FollowArticleAuthor)
			articles.DELETE("/:slug/authors/:username/follow", requireAuth, profileHandler.UnfollowArticleAuthor)

			articles.POST("/:slug/favorite", requireAuth, articleHandler.Favorite)
			articles.DELETE("/:slug/favorite", requireAuth, articleHandler.Unfavorite)

			articles.GET("/:slug/comments", optionalAuth, commentHandler.GetComments)
			articles.POST("/:slug/comments", requireAuth, commentHandler.AddComment)
			articles.DELETE("/:slug/comments/:id", requireAuth, commentHandler.DeleteComment)
		}

		v1.GET("/tags", tagHandler.GetTags)
		v1.GET("/roster-profiles", rosterHandler.GetRoster)

		admin := v1.Group("/admin", requireAuth, middleware.RequireRole(httpHelper, string(models.RoleAdmin)))
		{
			admin.POST("/tags/refresh", tagHandler.RefreshStats)
		}
	}

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
