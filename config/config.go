// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	validLogLevels    = []string{"debug", "info", "warn", "error", "fatal"}
	validStorageTypes = []string{"s3", "local"}
)

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can start
// working. Function will return an error if something is critically wrong
// and the application can't run because of that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")
	v.BindEnv("app.secret_key", "app_secret_key")
	v.BindEnv("app.base_url", "app_base_url")

	v.BindEnv("host.port", "host_port")

	v.BindEnv("db.path", "db_path")

	v.BindEnv("smtp.host", "smtp_host")
	v.BindEnv("smtp.port", "smtp_port")
	v.BindEnv("smtp.email", "smtp_email")
	v.BindEnv("smtp.password", "smtp_password")

	v.BindEnv("storage.type", "storage_type")
	v.BindEnv("storage.upload_dir", "storage_upload_dir")

	v.BindEnv("upload.max_size", "upload_max_size")

	v.BindEnv("aws.access_key_id", "aws_access_key_id")
	v.BindEnv("aws.secret_access_key", "aws_secret_access_key")
	v.BindEnv("aws.bucket", "aws_bucket")
	v.BindEnv("aws.region", "aws_region")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.base_url", "http://localhost:8080")

	v.SetDefault("host.port", 8080)

	v.SetDefault("db.path", "discover.db")

	v.SetDefault("smtp.host", "smtp.gmail.com")
	v.SetDefault("smtp.port", 587)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.upload_dir", "uploads")

	// In MiB, converted to bytes below
	v.SetDefault("upload.max_size", 16)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetInt("upload.max_size") <= 0 {
		return errors.New("upload.max_size must be bigger than 0")
	}

	if v.GetString("app.secret_key") == "" {
		v.Set("app.secret_key", genSecret())

		zap.L().Warn("No app.secret_key set, generated a random one. Sessions and pending activation links won't survive a restart")
	}

	switch v.GetString("storage.type") {
	case "s3":
		if v.GetString("aws.access_key_id") == "" {
			return errors.New("access key id can't be empty")
		}
		if v.GetString("aws.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("aws.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
	case "local":
		if v.GetString("storage.upload_dir") == "" {
			return errors.New("upload dir can't be empty")
		}
	default:
		return errors.New("invalid storage type provided")
	}

	if v.GetString("smtp.email") == "" || v.GetString("smtp.password") == "" {
		zap.L().Warn("SMTP credentials not set. Activation mails won't be sent, users will be shown the raw activation link instead")
	}

	v.Set("upload.max_size", v.GetInt64("upload.max_size")<<20)
	return nil
}
