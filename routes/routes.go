package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartcampus/controllers"
	"smartcampus/middlewares"
	"smartcampus/repository"
)

// Options configures the backend router.
type Options struct {
	Store             *repository.Store
	JWTSecret         string
	CORSOrigins       []string
	RateLimiter       middlewares.Counter
	IssueRateLimit    int
	RateLimitWindow   time.Duration
	OutbreakThreshold int
}

// NewRouter builds the gin engine serving the campus API.
func NewRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	window := opts.RateLimitWindow
	if window <= 0 {
		window = 24 * time.Hour
	}

	IssueRoutes(r, controllers.NewIssueController(opts.Store.Issues), opts.JWTSecret,
		middlewares.IssueRateLimiter(opts.RateLimiter, opts.IssueRateLimit, window))
	HealthRoutes(r, controllers.NewHealthController(opts.Store.Health, opts.OutbreakThreshold))
	AuthRoutes(r, controllers.NewAuthController(opts.Store.Users, opts.JWTSecret), opts.JWTSecret)
	return r
}

// IssueRoutes sets up the issue routes
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, secret string, limiter gin.HandlerFunc) {
	issues := r.Group("/api/issues")
	{
		issues.GET("", ic.ListIssues)
		issues.POST("", middlewares.OptionalAuth(secret), limiter, ic.CreateIssue)
		issues.DELETE("/:id", middlewares.AuthMiddleware(secret), ic.DeleteIssue)
	}
}

// HealthRoutes sets up liveness and the health reporting routes
func HealthRoutes(r *gin.Engine, hc *controllers.HealthController) {
	r.GET("/api/health", controllers.Status)
	health := r.Group("/api/health")
	{
		health.GET("/summary", hc.Summary)
		health.POST("/report", hc.SubmitReport)
		health.POST("/chat", hc.Chat)
	}
}

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController, secret string) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", ac.RegisterUser)
		auth.POST("/login", ac.LoginUser)
		auth.GET("/me", middlewares.AuthMiddleware(secret), ac.GetMe)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		zap.S().Infow("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetHeader("X-Request-ID"),
		)
	}
}
