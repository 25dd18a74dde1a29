package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

const (
	defaultSSMPrefix = "/remino/prod/"
	defaultSSMRegion = "us-east-2"
)

type Config struct {
	HTTPAddr     string `validate:"required"`
	DatabasePath string `validate:"required"`
	// SiteURL is the base of every link sent in notifications.
	SiteURL   string `validate:"required,url"`
	MachineID int64  `validate:"min=0,max=1023"`
	LogLevel  string `validate:"oneof=DEBUG INFO WARN ERROR"`

	AuthProvider       string        `validate:"oneof=local cognito"`
	JWTSecret          string        `validate:"required_if=AuthProvider local"`
	JWTTTL             time.Duration `validate:"gt=0"`
	CognitoRegion      string        `validate:"required_if=AuthProvider cognito"`
	CognitoUserPoolID  string        `validate:"required_if=AuthProvider cognito"`
	CognitoAppClientID string        `validate:"required_if=AuthProvider cognito"`

	// Attachments are disabled when S3BucketName is empty.
	S3Region     string `validate:"required_with=S3BucketName"`
	S3BucketName string

	MailDriver string `validate:"oneof=ses log"`
	MailFrom   string `validate:"required_if=MailDriver ses"`
	SESRegion  string `validate:"required_if=MailDriver ses"`

	ReminderEnabled bool
	ReminderHour    int `validate:"min=0,max=23"`
}

// Bootstrap populates the process environment: from AWS SSM Parameter Store in
// production, from a .env file otherwise.
func Bootstrap(ctx context.Context) error {
	if os.Getenv("GO_ENV") == "production" {
		return loadProdEnv(ctx, getString("SSM_PREFIX", defaultSSMPrefix))
	}

	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("no .env file found, relying on the process environment")
		return nil
	}
	return err
}

// Load reads the configuration from the environment and validates it.
func Load(validate *validator.Validate) (*Config, error) {
	var errs []error
	cfg := &Config{
		HTTPAddr:           getString("HTTP_ADDR", ":7070"),
		DatabasePath:       getString("DATABASE_PATH", "database.db"),
		SiteURL:            strings.TrimRight(getString("SITE_URL", ""), "/"),
		MachineID:          getInt64("MACHINE_ID", 1, &errs),
		LogLevel:           strings.ToUpper(getString("LOG_LEVEL", "INFO")),
		AuthProvider:       getString("AUTH_PROVIDER", "local"),
		JWTSecret:          getString("JWT_SECRET", ""),
		JWTTTL:             getDuration("JWT_TTL", 24*time.Hour, &errs),
		CognitoRegion:      getString("COGNITO_REGION", ""),
		CognitoUserPoolID:  getString("COGNITO_USER_POOL_ID", ""),
		CognitoAppClientID: getString("COGNITO_APP_CLIENT_ID", ""),
		S3Region:           getString("S3_REGION", ""),
		S3BucketName:       getString("S3_BUCKET_NAME", ""),
		MailDriver:         getString("MAIL_DRIVER", "log"),
		MailFrom:           getString("MAIL_FROM", ""),
		SESRegion:          getString("SES_REGION", ""),
		ReminderEnabled:    getBool("REMINDER_ENABLED", true, &errs),
		ReminderHour:       int(getInt64("REMINDER_HOUR", 9, &errs)),
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// AttachmentsEnabled reports whether an S3 bucket is configured.
func (c *Config) AttachmentsEnabled() bool {
	return c.S3BucketName != ""
}

// GommonLevel maps the configured level name to a gommon level.
func (c *Config) GommonLevel() log.Lvl {
	switch c.LogLevel {
	case "DEBUG":
		return log.DEBUG
	case "WARN":
		return log.WARN
	case "ERROR":
		return log.ERROR
	default:
		return log.INFO
	}
}

func loadProdEnv(ctx context.Context, prefix string) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(getString("SSM_REGION", defaultSSMRegion)))
	if err != nil {
		return fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})

	count := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("unable to load prod environment: %w", err)
		}

		for _, param := range out.Parameters {
			key := strings.TrimPrefix(aws.ToString(param.Name), prefix)
			if err := os.Setenv(key, aws.ToString(param.Value)); err != nil {
				return fmt.Errorf("unable to set environment variable %s: %w", key, err)
			}
			count++
		}
	}

	log.Debugf("loaded %d prod environment variables", count)
	return nil
}

func getString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getInt64(key string, def int64, errs *[]error) int64 {
	raw := getString(key, "")
	if raw == "" {
		return def
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: expected an integer, got %q", key, raw))
		return def
	}
	return v
}

func getBool(key string, def bool, errs *[]error) bool {
	raw := getString(key, "")
	if raw == "" {
		return def
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: expected a boolean, got %q", key, raw))
		return def
	}
	return v
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	raw := getString(key, "")
	if raw == "" {
		return def
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: expected a duration, got %q", key, raw))
		return def
	}
	return v
}
