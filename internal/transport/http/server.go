package http

import (
	"github.com/gin-gonic/gin"

	"pdfinsight/internal/bootstrap"
	"pdfinsight/internal/transport/http/handler"
	"pdfinsight/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	authHandler := handler.NewAuthHandler(app.AuthService)
	documentHandler := handler.NewDocumentHandler(app.DocumentService)
	analysisHandler := handler.NewAnalysisHandler(app.AnalysisService, app.PreviewService)
	qaHandler := handler.NewQAHandler(app.QAService)

	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), authHandler.Me)

	authed := v1.Group("")
	authed.Use(middleware.AuthJWT(app.Config.Auth.JWTSecret))

	authed.POST("/documents", documentHandler.Create)
	authed.GET("/documents", documentHandler.List)
	authed.GET("/documents/:id", documentHandler.Detail)
	authed.DELETE("/documents/:id", documentHandler.Delete)
	authed.GET("/documents/:id/chunks", documentHandler.Chunks)

	authed.POST("/documents/:id/preview", analysisHandler.Preview)
	authed.POST("/documents/:id/analysis", analysisHandler.CreateFull)
	authed.GET("/jobs/:id", analysisHandler.JobStatus)

	authed.POST("/documents/:id/questions", qaHandler.Ask)

	authed.GET("/overview", documentHandler.Overview)
	authed.GET("/documents-recent", documentHandler.Recent)
	authed.GET("/events", documentHandler.Events)

	return router
}
