package api

import (
	"net/http" // HTTP status codes
	"time"     // CORS cache lifetime

	"hospital_insights/internal/analytics"  // Reporting pipeline
	"hospital_insights/internal/config"     // Configuration
	"hospital_insights/internal/middleware" // Session, flash and document store middleware
	"hospital_insights/internal/store"      // Credential store
	"hospital_insights/internal/web"        // Views

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// NewRouter wires every route. db is the process-wide relational pool and
// rdb the document store client whose connections are leased per request.
func NewRouter(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	useFormTagNames()

	renderer, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}

	r := gin.Default() // Gin router instance
	r.HTMLRender = renderer
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		return nil, err
	}

	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	users := store.NewCredentialStore(db)
	engine := analytics.NewEngine(cfg.StrokeDataPath, cfg.ChartsDir)

	r.Static("/static/charts", cfg.ChartsDir) // Generated chart files
	r.GET("/", IndexHandler(cfg.SecretKey))

	// Auth routes
	auth := r.Group("/auth")
	auth.Use(middleware.DocumentStore(rdb))             // Registration and profile changes are audited
	auth.GET("/login", LoginPageHandler(cfg.SecretKey)) // Sign-in form
	auth.POST("/login", LoginHandler(users, cfg))       // Sign-in
	auth.GET("/register", RegisterPageHandler())        // Sign-up form
	auth.POST("/register", RegisterHandler(users))      // Sign-up
	auth.GET("/logout", LogoutHandler())                // Sign-out
	auth.POST("/logout", LogoutHandler())               // Sign-out
	profile := auth.Group("/profile", middleware.RequireLogin(cfg.SecretKey), middleware.CurrentUser(users))
	profile.GET("", ProfilePageHandler())        // Profile form
	profile.POST("", ProfileHandler(users, cfg)) // Profile update

	// Patient routes (protected)
	patients := r.Group("/patients")
	patients.Use(middleware.RequireLogin(cfg.SecretKey), middleware.CurrentUser(users), middleware.DocumentStore(rdb))
	patients.GET("/", ListPatientsHandler())             // List and search
	patients.GET("/add", AddPatientPageHandler())        // Add form
	patients.POST("/add", AddPatientHandler())           // Create
	patients.GET("/:id/edit", EditPatientPageHandler())  // Edit form
	patients.POST("/:id/edit", EditPatientHandler())     // Update
	patients.GET("/:id/view", ViewPatientHandler())      // Detail
	patients.POST("/:id/delete", DeletePatientHandler()) // Delete

	// Insight routes (protected)
	insights := r.Group("/insights")
	insights.Use(middleware.RequireLogin(cfg.SecretKey), middleware.CurrentUser(users), middleware.DocumentStore(rdb))
	insights.GET("/dashboard", DashboardHandler(engine))                            // Headline metrics and charts
	insights.GET("/overview", OverviewHandler(engine))                              // Data-quality report
	insights.GET("/visuals", VisualsHandler(engine))                                // Chart gallery
	insights.GET("/activity", ActivityHandler(cfg.ActivityLimit))                   // Audit trail
	insights.GET("/upload", UploadPageHandler(cfg.StrokeDataPath))                  // Upload form
	insights.POST("/upload", UploadHandler(cfg.StrokeDataPath, cfg.MaxUploadBytes)) // Dataset replacement

	return r, nil
}
