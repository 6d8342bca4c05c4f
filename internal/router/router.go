package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/franciscosanchezn/gin-appointment-api/docs" // Import generated docs
	"github.com/franciscosanchezn/gin-appointment-api/internal/auth"
	"github.com/franciscosanchezn/gin-appointment-api/internal/controllers"
	"github.com/franciscosanchezn/gin-appointment-api/internal/middleware"
	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
	"github.com/franciscosanchezn/gin-appointment-api/internal/realtime"
	"github.com/franciscosanchezn/gin-appointment-api/internal/services"
)

const serviceName = "gin-appointment-api"

// Dependencies are the wired services the routes are built from
type Dependencies struct {
	AllowedOrigins []string

	Auth         services.AuthService
	Users        services.UserService
	Appointments services.AppointmentService
	Messages     services.MessageService
	Clients      services.ClientService

	OAuth *auth.OAuthService
	Hub   *realtime.Hub
}

// New initializes the Gin router and sets up the routes
func New(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(corsConfig(deps.AllowedOrigins)))

	setupRoutes(router, deps)
	return router
}

func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			conf.AllowAllOrigins = true
			return conf
		}
	}
	conf.AllowOrigins = origins
	conf.AllowCredentials = true
	return conf
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine, deps Dependencies) {
	authController := controllers.NewAuthController(deps.Auth, deps.Users)
	appointmentController := controllers.NewAppointmentController(deps.Appointments)
	userController := controllers.NewUserController(deps.Users)
	chatController := controllers.NewChatController(deps.Messages)
	clientController := controllers.NewClientController(deps.Clients)

	router.GET("/", homeHandler)
	router.GET("/health", healthCheckHandler)

	router.POST("/register", authController.Register)
	router.POST("/login", authController.Login)

	// Chat is open to anyone, as are its history and socket
	router.GET("/messages", chatController.GetMessages)
	if deps.Hub != nil {
		router.GET("/ws", realtime.NewHandler(deps.Hub, deps.Messages, deps.AllowedOrigins).ServeWS)
	}

	if deps.OAuth != nil {
		router.POST("/oauth/token", deps.OAuth.HandleToken)
	}

	// Protected routes (requires a valid bearer token)
	protected := router.Group("/")
	protected.Use(middleware.JWTAuth(deps.Auth))
	{
		protected.GET("/dashboard", authController.Dashboard)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		protected.GET("/appointments", appointmentController.ListAppointments)
		protected.POST("/appointments", appointmentController.CreateAppointment)
		protected.DELETE("/appointments/:id", appointmentController.DeleteAppointment)

		admin := protected.Group("/")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", userController.ListUsers)
			admin.DELETE("/users/:id", userController.DeleteUser)
			admin.PATCH("/users/:id/role", userController.UpdateRole)

			admin.GET("/clients", clientController.ListClients)
			admin.POST("/clients", clientController.CreateClient)
			admin.DELETE("/clients/:id", clientController.DeleteClient)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func homeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Appointment API is running")
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
	})
}
