package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/progress-tracker/survey-backend/pkg/catalog"
	"github.com/progress-tracker/survey-backend/pkg/consent"
	"github.com/progress-tracker/survey-backend/pkg/httpclient"
	"github.com/progress-tracker/survey-backend/services/participant-api/apihandlers"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var conf ParticipantApiConfig

func main() {
	if surveyDBService == nil {
		slog.Error("Survey DB not available, exiting")
		return
	}
	if blobClient == nil {
		slog.Error("Blob store not available, exiting")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := blobClient.EnsureBucket(ctx); err != nil {
		cancel()
		slog.Error("Error preparing blob store bucket", slog.String("error", err.Error()))
		return
	}
	cancel()

	catalogService := catalog.NewService(httpclient.ClientConfig{
		RootURL: conf.ExternalServices.CatalogService.URL,
		APIKey:  conf.ExternalServices.CatalogService.APIKey,
		Timeout: conf.ExternalServices.CatalogService.RequestTimeout,
	}, surveyDBService, surveyDBService)

	consentClient := consent.NewClient(httpclient.ClientConfig{
		RootURL: conf.ExternalServices.ConsentService.URL,
		APIKey:  conf.ExternalServices.ConsentService.APIKey,
		Timeout: conf.ExternalServices.ConsentService.RequestTimeout,
	})

	// Start webserver
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     conf.GinConfig.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Content-Length"},
		ExposeHeaders:    []string{"Authorization", "Content-Type", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Add handlers
	router.GET("/", apihandlers.HealthCheckHandle)
	v1Root := router.Group("/v1")

	v1APIHandlers := apihandlers.NewHTTPHandler(
		conf.RespondentJWTConfig.SignKey,
		conf.RespondentJWTConfig.ExpiresIn,
		surveyDBService,
		catalogService,
		consentClient,
		blobClient,
		conf.SurveyConfigs.EndSurveyConditions,
		conf.SurveyConfigs.MaxUploadSizeMiB,
		conf.AdminAPIKeys,
	)
	v1APIHandlers.AddSurveyAPI(v1Root)

	// Start the server
	slog.Info("Starting Participant API on port " + conf.GinConfig.Port)
	if err := router.Run(":" + conf.GinConfig.Port); err != nil {
		slog.Error("Exited Participant API", slog.String("error", err.Error()))
		return
	}
}
