package surveydb

import (
	"context"
	"log/slog"
	"time"

	"github.com/progress-tracker/survey-backend/pkg/db"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_QUESTIONS = "questions"
	COLLECTION_NAME_RESPONSES = "responses"
	COLLECTION_NAME_SETTINGS  = "settings"
)

type SurveyDBService struct {
	DBClient     *mongo.Client
	timeout      int
	DBNamePrefix string
}

func NewSurveyDBService(configs db.DBConfig) (*SurveyDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	sDBSc := &SurveyDBService{
		DBClient:     dbClient,
		timeout:      configs.Timeout,
		DBNamePrefix: configs.DBNamePrefix,
	}
	return sDBSc, nil
}

func (dbService *SurveyDBService) getDBName() string {
	return dbService.DBNamePrefix + "survey"
}

func (dbService *SurveyDBService) getContext(parent context.Context) (ctx context.Context, cancel context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, time.Duration(dbService.timeout)*time.Second)
}

func (dbService *SurveyDBService) collectionQuestions() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_QUESTIONS)
}

func (dbService *SurveyDBService) collectionResponses() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_RESPONSES)
}

func (dbService *SurveyDBService) collectionSettings() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_SETTINGS)
}

func (dbService *SurveyDBService) CreateDefaultIndexes() {
	if err := dbService.CreateIndexForQuestions(); err != nil {
		slog.Error("error creating indexes for questions", slog.String("error", err.Error()))
	}
	if err := dbService.CreateIndexForResponses(); err != nil {
		slog.Error("error creating indexes for responses", slog.String("error", err.Error()))
	}
	if err := dbService.CreateIndexForSettings(); err != nil {
		slog.Error("error creating indexes for settings", slog.String("error", err.Error()))
	}
}
