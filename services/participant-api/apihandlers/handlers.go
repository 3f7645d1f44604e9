package apihandlers

import (
	"net/http"
	"time"

	"github.com/progress-tracker/survey-backend/pkg/blobstore"
	"github.com/progress-tracker/survey-backend/pkg/catalog"
	"github.com/progress-tracker/survey-backend/pkg/consent"
	surveyDB "github.com/progress-tracker/survey-backend/pkg/db/survey"
	"github.com/progress-tracker/survey-backend/pkg/surveysession"
	"github.com/gin-gonic/gin"
)

const DEFAULT_MAX_UPLOAD_SIZE_MIB = 10

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	tokenSignKey        string
	tokenExpiresIn      time.Duration
	surveyDBConn        *surveyDB.SurveyDBService
	catalogService      *catalog.Service
	consentClient       *consent.Client
	blobClient          *blobstore.Client
	endSurveyConditions []string
	maxUploadSizeMiB    int64
	adminAPIKeys        []string
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	surveyDBConn *surveyDB.SurveyDBService,
	catalogService *catalog.Service,
	consentClient *consent.Client,
	blobClient *blobstore.Client,
	endSurveyConditions []string,
	maxUploadSizeMiB int64,
	adminAPIKeys []string,
) *HttpEndpoints {
	if maxUploadSizeMiB <= 0 {
		maxUploadSizeMiB = DEFAULT_MAX_UPLOAD_SIZE_MIB
	}
	return &HttpEndpoints{
		tokenSignKey:        tokenSignKey,
		tokenExpiresIn:      tokenExpiresIn,
		surveyDBConn:        surveyDBConn,
		catalogService:      catalogService,
		consentClient:       consentClient,
		blobClient:          blobClient,
		endSurveyConditions: endSurveyConditions,
		maxUploadSizeMiB:    maxUploadSizeMiB,
		adminAPIKeys:        adminAPIKeys,
	}
}

// newSession wires a per-request session for one respondent. Sessions are
// rebuilt from the stores on every request.
func (h *HttpEndpoints) newSession(respondentID string) *surveysession.Session {
	return surveysession.NewSession(respondentID, surveysession.Deps{
		Catalog:           h.catalogService,
		Responses:         h.surveyDBConn,
		Settings:          h.surveyDBConn,
		Blobs:             h.blobClient,
		Consent:           h.consentClient,
		FallbackQuestions: catalog.DefaultQuestions,
	}, surveysession.Config{
		EndSurveyConditions: h.endSurveyConditions,
	})
}
