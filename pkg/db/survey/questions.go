package surveydb

import (
	"context"

	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// questionDoc is the stored shape of a catalog entry, scoped per respondent
// so every respondent keeps the catalog version they started with.
type questionDoc struct {
	RespondentID         string `bson:"respondentID"`
	surveyengine.Question `bson:",inline"`
}

func (dbService *SurveyDBService) CreateIndexForQuestions() error {
	ctx, cancel := dbService.getContext(nil)
	defer cancel()

	_, err := dbService.collectionQuestions().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "respondentID", Value: 1},
					{Key: "questionID", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
			{
				Keys: bson.D{
					{Key: "respondentID", Value: 1},
					{Key: "page", Value: 1},
					{Key: "sequence", Value: 1},
				},
			},
		},
	)
	return err
}

// GetQuestions returns the respondent's catalog ordered by sequence. An empty
// slice and no error means the catalog has not been imported yet.
func (dbService *SurveyDBService) GetQuestions(ctx context.Context, respondentID string) ([]surveyengine.Question, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	filter := bson.M{"respondentID": respondentID}
	opts := options.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})

	cursor, err := dbService.collectionQuestions().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	questions := []surveyengine.Question{}
	for cursor.Next(ctx) {
		var doc questionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		questions = append(questions, doc.Question)
	}
	return questions, cursor.Err()
}

// ReplaceQuestions swaps the respondent's full catalog in one go.
func (dbService *SurveyDBService) ReplaceQuestions(ctx context.Context, respondentID string, questions []surveyengine.Question) error {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	if _, err := dbService.collectionQuestions().DeleteMany(ctx, bson.M{"respondentID": respondentID}); err != nil {
		return err
	}
	if len(questions) == 0 {
		return nil
	}

	docs := make([]interface{}, len(questions))
	for i, question := range questions {
		docs[i] = questionDoc{
			RespondentID: respondentID,
			Question:     question,
		}
	}
	_, err := dbService.collectionQuestions().InsertMany(ctx, docs)
	return err
}

func (dbService *SurveyDBService) DeleteQuestions(ctx context.Context, respondentID string) error {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	_, err := dbService.collectionQuestions().DeleteMany(ctx, bson.M{"respondentID": respondentID})
	return err
}
