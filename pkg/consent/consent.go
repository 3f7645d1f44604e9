// Package consent talks to the document renderer that turns a respondent's
// consent answers into a stored PDF.
package consent

import (
	"context"
	"fmt"

	"github.com/progress-tracker/survey-backend/pkg/httpclient"
	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
)

type Client struct {
	renderer httpclient.ClientConfig
}

func NewClient(renderer httpclient.ClientConfig) *Client {
	return &Client{renderer: renderer}
}

type generateRequest struct {
	RespondentID string                           `json:"respondentID"`
	Responses    map[string]surveyengine.Response `json:"responses"`
}

// Generate renders the consent document for the respondent's current answers
// and returns the storage path the renderer wrote it to.
func (c *Client) Generate(ctx context.Context, respondentID string, responses map[string]surveyengine.Response) (string, error) {
	payload := generateRequest{
		RespondentID: respondentID,
		Responses:    responses,
	}

	res, err := c.renderer.RunHTTPPost(ctx, "/generate", payload)
	if err != nil {
		return "", fmt.Errorf("consent renderer call failed: %w", err)
	}

	storagePath, ok := res["storagePath"].(string)
	if !ok || storagePath == "" {
		return "", fmt.Errorf("consent renderer returned no storage path")
	}
	return storagePath, nil
}
