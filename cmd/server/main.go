package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/teamboard/teamboard-api/internal/config"
	"github.com/teamboard/teamboard-api/internal/database"
	"github.com/teamboard/teamboard-api/internal/handlers"
	"github.com/teamboard/teamboard-api/internal/logger"
	"github.com/teamboard/teamboard-api/internal/middleware"
	"github.com/teamboard/teamboard-api/internal/repository"
	"github.com/teamboard/teamboard-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Init(cfg.LogLevel)
	log := logger.Get()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis store")
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions("teamboard_session", store))

	// Wire repositories and services over the shared connection
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	wsRepo := repository.NewWorkspaceRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	financeRepo := repository.NewFinanceRepository(db)

	authHandler := handlers.NewAuthHandler(services.NewAuthService(userRepo))
	wsHandler := handlers.NewWorkspaceHandler(services.NewWorkspaceService(wsRepo))
	projectHandler := handlers.NewProjectHandler(services.NewProjectService(projectRepo, wsRepo))
	boardHandler := handlers.NewBoardHandler(services.NewBoardService(boardRepo))
	taskHandler := handlers.NewTaskHandler(services.NewTaskService(taskRepo, boardRepo, wsRepo))
	financeHandler := handlers.NewFinanceHandler(services.NewFinanceService(financeRepo, projectRepo))
	reportHandler := handlers.NewReportHandler(services.NewReportService(financeRepo))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Teamboard API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public except /me and /profile)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
			auth.PATCH("/profile", middleware.RequireAuth(), authHandler.UpdateProfile)
		}

		// Workspace routes (protected)
		workspaces := api.Group("/workspaces")
		workspaces.Use(middleware.RequireAuth())
		{
			workspaces.POST("", wsHandler.CreateWorkspace)
			workspaces.GET("", wsHandler.ListWorkspaces)
			workspaces.POST("/join", wsHandler.JoinWorkspace)

			// Everything below requires membership in workspace :id
			scoped := workspaces.Group("/:id")
			scoped.Use(middleware.RequireWorkspaceAccess())
			{
				scoped.GET("", wsHandler.GetWorkspace)
				scoped.PUT("", middleware.RequireWorkspaceOwner(), wsHandler.UpdateWorkspace)
				scoped.DELETE("", middleware.RequireWorkspaceOwner(), wsHandler.DeleteWorkspace)
				scoped.POST("/regenerate-code", middleware.RequireWorkspaceOwner(), wsHandler.RegenerateInviteCode)
				scoped.DELETE("/members/:user_id", middleware.RequireWorkspaceOwner(), wsHandler.RemoveMember)

				scoped.POST("/projects", projectHandler.CreateProject)
				scoped.GET("/projects", projectHandler.ListProjects)

				scoped.POST("/accounts", financeHandler.CreateAccount)
				scoped.GET("/accounts", financeHandler.ListAccounts)
				scoped.GET("/accounts/:account_id", financeHandler.GetAccount)
				scoped.PATCH("/accounts/:account_id", financeHandler.UpdateAccount)
				scoped.DELETE("/accounts/:account_id", financeHandler.DeleteAccount)

				scoped.POST("/categories", financeHandler.CreateCategory)
				scoped.GET("/categories", financeHandler.ListCategories)

				scoped.POST("/transactions", financeHandler.CreateTransaction)
				scoped.GET("/transactions", financeHandler.ListTransactions)
				scoped.DELETE("/transactions/:transaction_id", financeHandler.DeleteTransaction)

				scoped.POST("/transfers", financeHandler.CreateTransfer)

				scoped.POST("/budgets", financeHandler.CreateBudget)
				scoped.GET("/budgets", financeHandler.ListBudgets)
				scoped.PATCH("/budgets/:budget_id/status", financeHandler.UpdateBudgetStatus)

				reports := scoped.Group("/reports")
				{
					reports.GET("/balances", reportHandler.AccountBalances)
					reports.GET("/categories", reportHandler.CategoryBreakdown)
					reports.GET("/monthly", reportHandler.MonthlyEvolution)
					reports.GET("/budgets", reportHandler.BudgetVsActual)
					reports.GET("/top-categories", reportHandler.TopCategories)
					reports.GET("/projects", reportHandler.ProjectExpenses)
				}
			}
		}

		// Project routes (protected, membership checked via the project's workspace)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(), middleware.RequireProjectAccess())
		{
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)

			projects.POST("/:id/columns", boardHandler.CreateColumn)
			projects.GET("/:id/columns", boardHandler.ListColumns)
			projects.GET("/:id/priorities", boardHandler.ListPriorities)

			projects.POST("/:id/tasks", taskHandler.CreateTask)
			projects.GET("/:id/tasks", taskHandler.ListTasks)

			projects.POST("/:id/links", projectHandler.AddProjectLink)
			projects.DELETE("/:id/links/:link_id", projectHandler.RemoveProjectLink)
			projects.POST("/:id/members", projectHandler.AddProjectMember)
			projects.DELETE("/:id/members/:user_id", projectHandler.RemoveProjectMember)
		}

		// Column routes (protected)
		columns := api.Group("/columns")
		columns.Use(middleware.RequireAuth(), middleware.RequireColumnAccess())
		{
			columns.PATCH("/:id", boardHandler.UpdateColumn)
			columns.DELETE("/:id", boardHandler.DeleteColumn)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(), middleware.RequireTaskAccess())
		{
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.POST("/:id/move", taskHandler.MoveTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	log.Info().Str("addr", ":8080").Msg("Server starting")
	if err := r.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}
