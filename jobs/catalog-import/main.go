package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/progress-tracker/survey-backend/pkg/catalog"
	"github.com/progress-tracker/survey-backend/pkg/httpclient"
)

func main() {
	if conf.TaskConfigs.CreateIndexes {
		surveyDBService.CreateDefaultIndexes()
		slog.Info("Created default indexes for Survey DB")
	}

	reimportCatalogs()
}

func reimportCatalogs() {
	if len(conf.TaskConfigs.ReimportRespondentIDs) == 0 {
		return
	}

	catalogService := catalog.NewService(httpclient.ClientConfig{
		RootURL: conf.CatalogService.URL,
		APIKey:  conf.CatalogService.APIKey,
		Timeout: conf.CatalogService.RequestTimeout,
	}, surveyDBService, surveyDBService)

	for _, respondentID := range conf.TaskConfigs.ReimportRespondentIDs {
		start := time.Now()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := catalogService.ImportForRespondent(ctx, respondentID)
		cancel()
		if err != nil {
			slog.Error("Failed to re-import catalog", slog.String("respondentID", respondentID), slog.String("error", err.Error()))
			continue
		}

		slog.Info("Re-imported catalog", slog.String("respondentID", respondentID), slog.Duration("duration", time.Since(start)))
	}
}
