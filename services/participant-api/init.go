package main

import (
	"os"
	"time"

	"log/slog"

	"github.com/progress-tracker/survey-backend/pkg/blobstore"
	"github.com/progress-tracker/survey-backend/pkg/db"
	surveyDB "github.com/progress-tracker/survey-backend/pkg/db/survey"
	"github.com/progress-tracker/survey-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v2"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_SURVEY_DB_USERNAME = "SURVEY_DB_USERNAME"
	ENV_SURVEY_DB_PASSWORD = "SURVEY_DB_PASSWORD"

	ENV_RESPONDENT_JWT_SIGN_KEY = "RESPONDENT_JWT_SIGN_KEY"

	ENV_CATALOG_API_KEY = "CATALOG_API_KEY"
	ENV_CONSENT_API_KEY = "CONSENT_API_KEY"

	ENV_BLOBSTORE_ACCESS_KEY = "BLOBSTORE_ACCESS_KEY"
	ENV_BLOBSTORE_SECRET_KEY = "BLOBSTORE_SECRET_KEY"
)

type externalServiceConfig struct {
	URL            string        `json:"url" yaml:"url"`
	APIKey         string        `json:"api_key" yaml:"api_key"`
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

type ParticipantApiConfig struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// Gin configs
	GinConfig struct {
		DebugMode    bool     `json:"debug_mode" yaml:"debug_mode"`
		AllowOrigins []string `json:"allow_origins" yaml:"allow_origins"`
		Port         string   `json:"port" yaml:"port"`
	} `json:"gin_config" yaml:"gin_config"`

	RespondentJWTConfig struct {
		SignKey   string        `json:"sign_key" yaml:"sign_key"`
		ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
	} `json:"respondent_jwt_config" yaml:"respondent_jwt_config"`

	// DB configs
	DBConfigs struct {
		SurveyDB db.DBConfigYaml `json:"survey_db" yaml:"survey_db"`
	} `json:"db_configs" yaml:"db_configs"`

	SurveyConfigs struct {
		EndSurveyConditions []string `json:"end_survey_conditions" yaml:"end_survey_conditions"`
		MaxUploadSizeMiB    int64    `json:"max_upload_size_mib" yaml:"max_upload_size_mib"`
	} `json:"survey_configs" yaml:"survey_configs"`

	BlobstoreConfig struct {
		Endpoint  string        `json:"endpoint" yaml:"endpoint"`
		AccessKey string        `json:"access_key" yaml:"access_key"`
		SecretKey string        `json:"secret_key" yaml:"secret_key"`
		Bucket    string        `json:"bucket" yaml:"bucket"`
		UseSSL    bool          `json:"use_ssl" yaml:"use_ssl"`
		URLExpiry time.Duration `json:"url_expiry" yaml:"url_expiry"`
	} `json:"blobstore_config" yaml:"blobstore_config"`

	// API keys accepted on the admin endpoints
	AdminAPIKeys []string `json:"admin_api_keys" yaml:"admin_api_keys"`

	ExternalServices struct {
		CatalogService externalServiceConfig `json:"catalog_service" yaml:"catalog_service"`
		ConsentService externalServiceConfig `json:"consent_service" yaml:"consent_service"`
	} `json:"external_services" yaml:"external_services"`
}

var (
	surveyDBService *surveyDB.SurveyDBService
	blobClient      *blobstore.Client
)

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	// Init logger:
	utils.InitLogger(
		conf.Logging.LogLevel,
		conf.Logging.IncludeSrc,
		conf.Logging.LogToFile,
		conf.Logging.Filename,
		conf.Logging.MaxSize,
		conf.Logging.MaxAge,
		conf.Logging.MaxBackups,
		conf.Logging.CompressOldLogs,
		conf.Logging.IncludeBuildInfo,
	)

	// Override secrets from environment variables
	secretsOverride()

	// Init DBs
	initDBs()

	initBlobstore()

	if !conf.GinConfig.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_SURVEY_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.SurveyDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_SURVEY_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.SurveyDB.Password = dbPassword
	}

	if signKey := os.Getenv(ENV_RESPONDENT_JWT_SIGN_KEY); signKey != "" {
		conf.RespondentJWTConfig.SignKey = signKey
	}

	if apiKey := os.Getenv(ENV_CATALOG_API_KEY); apiKey != "" {
		conf.ExternalServices.CatalogService.APIKey = apiKey
	}

	if apiKey := os.Getenv(ENV_CONSENT_API_KEY); apiKey != "" {
		conf.ExternalServices.ConsentService.APIKey = apiKey
	}

	if accessKey := os.Getenv(ENV_BLOBSTORE_ACCESS_KEY); accessKey != "" {
		conf.BlobstoreConfig.AccessKey = accessKey
	}

	if secretKey := os.Getenv(ENV_BLOBSTORE_SECRET_KEY); secretKey != "" {
		conf.BlobstoreConfig.SecretKey = secretKey
	}
}

func initDBs() {
	var err error
	surveyDBService, err = surveyDB.NewSurveyDBService(db.DBConfigFromYamlObj(conf.DBConfigs.SurveyDB))
	if err != nil {
		slog.Error("Error connecting to Survey DB", slog.String("error", err.Error()))
		return
	}
	surveyDBService.CreateDefaultIndexes()
}

func initBlobstore() {
	var err error
	blobClient, err = blobstore.NewClient(blobstore.Config{
		Endpoint:  conf.BlobstoreConfig.Endpoint,
		AccessKey: conf.BlobstoreConfig.AccessKey,
		SecretKey: conf.BlobstoreConfig.SecretKey,
		Bucket:    conf.BlobstoreConfig.Bucket,
		UseSSL:    conf.BlobstoreConfig.UseSSL,
		URLExpiry: conf.BlobstoreConfig.URLExpiry,
	})
	if err != nil {
		slog.Error("Error connecting to blob store", slog.String("error", err.Error()))
		return
	}
}
