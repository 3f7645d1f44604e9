package apihandlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	mw "github.com/progress-tracker/survey-backend/pkg/apihelpers/middlewares"
	jwthandling "github.com/progress-tracker/survey-backend/pkg/jwt-handling"
	"github.com/progress-tracker/survey-backend/pkg/surveyengine"
	"github.com/progress-tracker/survey-backend/pkg/surveysession"
	"github.com/progress-tracker/survey-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedUploadTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
}

func (h *HttpEndpoints) AddSurveyAPI(rg *gin.RouterGroup) {
	surveyGroup := rg.Group("/survey")

	surveyGroup.POST("/respondent/register", h.registerRespondent)

	authGroup := surveyGroup.Group("")
	authGroup.Use(mw.GetAndValidateRespondentJWT(h.tokenSignKey))
	{
		authGroup.GET("/page", h.getCurrentPage)
		authGroup.POST("/page/answer", mw.RequirePayload(), h.setAnswer)
		authGroup.POST("/page/submit", mw.RequirePayload(), h.submitPage)

		authGroup.POST("/end-survey/confirm", mw.RequirePayload(), h.confirmEndSurvey)
		authGroup.POST("/end-survey/decline", mw.RequirePayload(), h.declineEndSurvey)

		authGroup.POST("/reopen", h.reopenSurvey)
		authGroup.POST("/language", mw.RequirePayload(), h.setLanguage)
		authGroup.POST("/extraction", mw.RequirePayload(), h.applyExtraction)

		authGroup.POST("/files", h.uploadAnswerFile)
		authGroup.GET("/files", h.downloadAnswerFile)
	}

	adminGroup := surveyGroup.Group("/admin")
	adminGroup.Use(mw.HasValidAPIKey(h.adminAPIKeys))
	{
		adminGroup.POST("/catalog/reimport", mw.RequirePayload(), h.reimportCatalog)
	}
}

// reimportCatalog replaces one respondent's stored question snapshot with the
// current upstream catalog. Answers are kept.
func (h *HttpEndpoints) reimportCatalog(c *gin.Context) {
	var req struct {
		RespondentID string `json:"respondentID"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RespondentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "respondentID is required"})
		return
	}

	if err := h.catalogService.ImportForRespondent(c.Request.Context(), req.RespondentID); err != nil {
		slog.Error("failed to re-import catalog", slog.String("error", err.Error()), slog.String("respondentID", req.RespondentID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to re-import catalog"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HttpEndpoints) registerRespondent(c *gin.Context) {
	var req struct {
		Language string `json:"language"`
	}
	// payload is optional, language defaults to English
	_ = c.ShouldBindJSON(&req)

	if req.Language == "" {
		req.Language = surveyengine.LANGUAGE_EN
	}
	if req.Language != surveyengine.LANGUAGE_EN && req.Language != surveyengine.LANGUAGE_FR {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported language"})
		return
	}

	respondentID := uuid.NewString()

	settings := surveyengine.DefaultSettings()
	settings.Language = req.Language
	if err := h.surveyDBConn.SaveSettings(c.Request.Context(), respondentID, settings); err != nil {
		slog.Error("failed to initialize respondent settings", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register respondent"})
		return
	}

	token, err := jwthandling.GenerateNewRespondentToken(h.tokenExpiresIn, respondentID, req.Language, nil, h.tokenSignKey)
	if err != nil {
		slog.Error("failed to generate respondent token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register respondent"})
		return
	}

	slog.Info("registered new respondent", slog.String("respondentID", respondentID))

	c.JSON(http.StatusOK, gin.H{
		"respondentID": respondentID,
		"accessToken":  token,
		"expiresAt":    time.Now().Add(h.tokenExpiresIn).Unix(),
	})
}

func respondentIDFromContext(c *gin.Context) string {
	token := c.MustGet("validatedToken").(*jwthandling.RespondentClaims)
	return token.Subject
}

// loadSession rebuilds the respondent's session from the stores. Writes the
// error response itself when loading fails.
func (h *HttpEndpoints) loadSession(c *gin.Context) (*surveysession.Session, bool) {
	respondentID := respondentIDFromContext(c)

	session := h.newSession(respondentID)
	if err := session.Load(c.Request.Context()); err != nil {
		if errors.Is(err, surveysession.ErrCatalogEmpty) {
			slog.Error("no questions available", slog.String("respondentID", respondentID))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no questions available"})
			return nil, false
		}
		slog.Error("failed to load survey session", slog.String("error", err.Error()), slog.String("respondentID", respondentID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load survey"})
		return nil, false
	}
	return session, true
}

type questionView struct {
	surveyengine.Question
	Options []surveyengine.Option `json:"options,omitempty"`
	Value   any                   `json:"value"`
}

type pageView struct {
	Page            int                            `json:"page"`
	TotalPages      int                            `json:"totalPages"`
	Language        string                         `json:"language"`
	SurveyCompleted bool                           `json:"surveyCompleted"`
	Questions       []questionView                 `json:"questions"`
	EndSurveyPrompt *surveysession.EndSurveyPrompt `json:"endSurveyPrompt,omitempty"`
}

func buildPageView(session *surveysession.Session) pageView {
	settings := session.Settings()

	questions := session.VisibleQuestions()
	views := make([]questionView, len(questions))
	for i, question := range questions {
		views[i] = questionView{
			Question: question,
			Options:  surveyengine.ParseOptions(question.RawOptions(settings.Language)),
			Value:    session.CurrentAnswerFor(question.ID),
		}
	}

	return pageView{
		Page:            session.CurrentPage(),
		TotalPages:      settings.TotalPages,
		Language:        settings.Language,
		SurveyCompleted: settings.SurveyCompleted,
		Questions:       views,
		EndSurveyPrompt: session.PendingEndPrompt(),
	}
}

func (h *HttpEndpoints) getCurrentPage(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, buildPageView(session))
}

func (h *HttpEndpoints) setAnswer(c *gin.Context) {
	var req struct {
		QuestionIndex *int `json:"questionIndex"`
		Value         any  `json:"value"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.QuestionIndex == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "questionIndex is required"})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	fieldError, prompt, err := session.SetAnswer(c.Request.Context(), *req.QuestionIndex, req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := session.PersistAnswers(c.Request.Context()); err != nil {
		slog.Error("failed to persist answer", slog.String("error", err.Error()), slog.String("respondentID", respondentIDFromContext(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save answer"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fieldError":      fieldError,
		"endSurveyPrompt": prompt,
	})
}

func (h *HttpEndpoints) submitPage(c *gin.Context) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	direction := surveysession.DIRECTION_FORWARD
	if req.Direction == string(surveysession.DIRECTION_BACKWARD) {
		direction = surveysession.DIRECTION_BACKWARD
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := session.SubmitPage(c.Request.Context(), direction); err != nil {
		var validationErr *surveysession.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      validationErr.Message,
				"questionID": validationErr.QuestionID,
				"page":       buildPageView(session),
			})
			return
		}
		slog.Error("failed to submit page", slog.String("error", err.Error()), slog.String("respondentID", respondentIDFromContext(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit page"})
		return
	}

	c.JSON(http.StatusOK, buildPageView(session))
}

func (h *HttpEndpoints) confirmEndSurvey(c *gin.Context) {
	var req struct {
		QuestionID string `json:"questionID"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if !session.RecallEndSurveyPrompt(req.QuestionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no end-of-survey condition matches"})
		return
	}

	if err := session.ConfirmEndSurvey(c.Request.Context()); err != nil {
		slog.Error("failed to confirm end of survey", slog.String("error", err.Error()), slog.String("respondentID", respondentIDFromContext(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end survey"})
		return
	}

	c.JSON(http.StatusOK, buildPageView(session))
}

func (h *HttpEndpoints) declineEndSurvey(c *gin.Context) {
	var req struct {
		QuestionID string `json:"questionID"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.QuestionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "questionID is required"})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if !session.RecallEndSurveyPrompt(req.QuestionID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no end-of-survey condition matches"})
		return
	}

	if err := session.DeclineEndSurvey(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// persist the cleared answer, otherwise the prompt would fire again
	if err := session.PersistAnswers(c.Request.Context()); err != nil {
		slog.Error("failed to persist declined answer", slog.String("error", err.Error()), slog.String("respondentID", respondentIDFromContext(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save answer"})
		return
	}

	c.JSON(http.StatusOK, buildPageView(session))
}

func (h *HttpEndpoints) reopenSurvey(c *gin.Context) {
	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := session.Reopen(c.Request.Context()); err != nil {
		slog.Error("failed to reopen survey", slog.String("error", err.Error()), slog.String("respondentID", respondentIDFromContext(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reopen survey"})
		return
	}

	c.JSON(http.StatusOK, buildPageView(session))
}

func (h *HttpEndpoints) setLanguage(c *gin.Context) {
	var req struct {
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	if err := session.SetLanguage(c.Request.Context(), req.Language); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buildPageView(session))
}

func (h *HttpEndpoints) applyExtraction(c *gin.Context) {
	var req struct {
		Extracted map[string]string `json:"extracted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("failed to bind request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	answersSet, err := session.ApplyExtraction(c.Request.Context(), req.Extracted)
	if err != nil {
		slog.Error("failed to apply extraction", slog.String("error", err.Error()), slog.String("respondentID", respondentIDFromContext(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply extraction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"answersSet": answersSet,
		"page":       buildPageView(session),
	})
}

func (h *HttpEndpoints) uploadAnswerFile(c *gin.Context) {
	questionIndex, err := parseQuestionIndex(c.PostForm("questionIndex"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > h.maxUploadSizeMiB<<20 {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	if _, err := utils.ValidateFileTypeFromContent(fileHeader, allowedUploadTypes); err != nil {
		slog.Warn("rejected answer file upload", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	session, ok := h.loadSession(c)
	if !ok {
		return
	}

	fieldError, prompt, err := session.SetAnswer(c.Request.Context(), questionIndex, data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := session.PersistAnswers(c.Request.Context()); err != nil {
		slog.Error("failed to store answer file", slog.String("error", err.Error()), slog.String("respondentID", respondentIDFromContext(c)))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fieldError":      fieldError,
		"endSurveyPrompt": prompt,
	})
}

// downloadAnswerFile streams a stored answer file. Only paths referenced by
// one of the respondent's own answers are served.
func (h *HttpEndpoints) downloadAnswerFile(c *gin.Context) {
	respondentID := respondentIDFromContext(c)

	storagePath := c.Query("path")
	if storagePath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	responses, err := h.surveyDBConn.GetResponses(c.Request.Context(), respondentID)
	if err != nil {
		slog.Error("failed to fetch responses", slog.String("error", err.Error()), slog.String("respondentID", respondentID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch file"})
		return
	}

	owned := false
	for _, response := range responses {
		if surveyengine.ValueToString(response.Value) == storagePath {
			owned = true
			break
		}
	}
	if !owned {
		slog.Warn("blocked file access outside own answers", slog.String("respondentID", respondentID), slog.String("path", storagePath))
		c.JSON(http.StatusForbidden, gin.H{"error": "file not available"})
		return
	}

	data, err := h.blobClient.Fetch(c.Request.Context(), storagePath)
	if err != nil {
		slog.Error("failed to fetch file", slog.String("error", err.Error()), slog.String("path", storagePath))
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	contentType := http.DetectContentType(data)
	filename := storagePath[strings.LastIndex(storagePath, "/")+1:] + utils.GetFileExtensionFromContentType(contentType)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
