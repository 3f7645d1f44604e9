package surveydb

import (
	"context"
	"errors"

	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type settingsDoc struct {
	RespondentID         string `bson:"respondentID"`
	surveyengine.Settings `bson:",inline"`
}

func (dbService *SurveyDBService) CreateIndexForSettings() error {
	ctx, cancel := dbService.getContext(nil)
	defer cancel()

	_, err := dbService.collectionSettings().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "respondentID", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
	)
	return err
}

// GetSettings returns the respondent's progress state, falling back to the
// defaults when no document exists yet.
func (dbService *SurveyDBService) GetSettings(ctx context.Context, respondentID string) (surveyengine.Settings, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	var doc settingsDoc
	err := dbService.collectionSettings().FindOne(ctx, bson.M{"respondentID": respondentID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return surveyengine.DefaultSettings(), nil
		}
		return surveyengine.DefaultSettings(), err
	}
	return doc.Settings, nil
}

func (dbService *SurveyDBService) SaveSettings(ctx context.Context, respondentID string, settings surveyengine.Settings) error {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	doc := settingsDoc{
		RespondentID: respondentID,
		Settings:     settings,
	}
	_, err := dbService.collectionSettings().ReplaceOne(ctx,
		bson.M{"respondentID": respondentID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (dbService *SurveyDBService) DeleteSettings(ctx context.Context, respondentID string) error {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	_, err := dbService.collectionSettings().DeleteMany(ctx, bson.M{"respondentID": respondentID})
	return err
}
