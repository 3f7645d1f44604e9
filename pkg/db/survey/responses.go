package surveydb

import (
	"context"

	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type responseDoc struct {
	RespondentID         string `bson:"respondentID"`
	surveyengine.Response `bson:",inline"`
}

func (dbService *SurveyDBService) CreateIndexForResponses() error {
	ctx, cancel := dbService.getContext(nil)
	defer cancel()

	_, err := dbService.collectionResponses().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "respondentID", Value: 1},
					{Key: "questionID", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
	)
	return err
}

// GetResponses returns the respondent's answers keyed by question id. The map
// is empty when nothing has been answered yet.
func (dbService *SurveyDBService) GetResponses(ctx context.Context, respondentID string) (map[string]surveyengine.Response, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	cursor, err := dbService.collectionResponses().Find(ctx, bson.M{"respondentID": respondentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	responses := map[string]surveyengine.Response{}
	for cursor.Next(ctx) {
		var doc responseDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		responses[doc.QuestionID] = doc.Response
	}
	return responses, cursor.Err()
}

// SaveResponses upserts the given answers in one bulk write; answers not in
// the map are left untouched.
func (dbService *SurveyDBService) SaveResponses(ctx context.Context, respondentID string, responses map[string]surveyengine.Response) error {
	if len(responses) == 0 {
		return nil
	}

	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(responses))
	for questionID, response := range responses {
		doc := responseDoc{
			RespondentID: respondentID,
			Response:     response,
		}
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"respondentID": respondentID, "questionID": questionID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	_, err := dbService.collectionResponses().BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (dbService *SurveyDBService) DeleteResponses(ctx context.Context, respondentID string) error {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	_, err := dbService.collectionResponses().DeleteMany(ctx, bson.M{"respondentID": respondentID})
	return err
}
