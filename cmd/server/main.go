package main

import (
	"flag"
	"log/slog"
	"os"

	"team-pdca/internal/config"
	"team-pdca/internal/handler"
	applog "team-pdca/internal/logger"
	"team-pdca/internal/middleware"
	"team-pdca/internal/model"
	"team-pdca/internal/policy"
	"team-pdca/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const loginRatePerSecond = 5

func main() {
	configFile := flag.String("config", "", "config file path (e.g. etc/config-dev.yaml)")
	flag.Parse()

	cfg := config.Load(*configFile)
	applog.Init(cfg.Log)

	db, err := cfg.OpenGormDB()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := db.AutoMigrate(&model.Team{}, &model.User{}, &model.Plan{}, &model.PdcaRecord{}); err != nil {
		slog.Error("migrate failed", "err", err)
		os.Exit(1)
	}
	if err := seed(db, cfg.Auth); err != nil {
		slog.Error("seed failed", "err", err)
		os.Exit(1)
	}

	rdb := cfg.NewRedisClient()
	if rdb != nil {
		slog.Info("rate limiting enabled", "redis", cfg.Redis.Addr)
	}

	authSvc := service.NewAuthService(db)
	userSvc := service.NewUserService(db)
	teamSvc := service.NewTeamService(db)
	planSvc := service.NewPlanService(db)
	reportSvc := service.NewReportService(db)
	pol := policy.New(userSvc)

	secret := []byte(cfg.Auth.JWTSecret)
	authH := handler.NewAuthHandler(authSvc, pol, secret)
	userH := handler.NewUserHandler(userSvc, pol)
	teamH := handler.NewTeamHandler(teamSvc, pol)
	planH := handler.NewPlanHandler(planSvc, reportSvc, pol)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	limited := middleware.RateLimit(rdb, loginRatePerSecond)
	r.POST("/api/auth/login", limited, authH.Login)
	r.POST("/api/auth/logout", authH.Logout)
	r.POST("/api/users/register", limited, userH.Register)
	r.GET("/api/teams", middleware.OptionalAuth(secret), teamH.List)

	api := r.Group("/api", middleware.Auth(secret))

	auth := api.Group("/auth")
	auth.GET("/me", authH.Me)
	auth.GET("/verify", authH.Verify)
	auth.PUT("/profile", authH.UpdateProfile)
	auth.PUT("/password", authH.ChangePassword)

	users := api.Group("/users")
	users.GET("", middleware.RequireAdmin(), userH.List)
	users.POST("", middleware.RequireAdmin(), userH.Create)
	users.GET("/admin/stats", middleware.RequireAdmin(), userH.Stats)
	users.GET("/:id", userH.Get)
	users.PUT("/:id", middleware.RequireAdmin(), userH.Update)
	users.DELETE("/:id", middleware.RequireAdmin(), userH.Delete)

	teams := api.Group("/teams")
	teams.POST("", teamH.Create)
	teams.PUT("/:teamId", teamH.Update)
	teams.DELETE("/:teamId", teamH.Delete)
	teams.GET("/:teamId/members", teamH.Members)

	plans := api.Group("/plans")
	plans.GET("", planH.List)
	plans.POST("", planH.Create)
	plans.GET("/report/weekly", planH.WeeklyReport)
	plans.GET("/:id", planH.Get)
	plans.PUT("/:id", planH.Update)
	plans.DELETE("/:id", planH.Delete)
	plans.POST("/:id/copy", planH.Copy)
	plans.GET("/:id/pdca", planH.GetPdca)
	plans.POST("/:id/pdca", planH.SavePdca)

	slog.Info("server starting", "addr", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		slog.Error("server failed", "err", err)
	}
}
