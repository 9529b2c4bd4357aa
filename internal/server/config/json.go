package config

import (
	"encoding/json"
	"os"

	"github.com/dmatveev/authd/internal/flagx"
	"github.com/dmatveev/authd/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for interval fields, which allows parsing
// both string values such as "5m" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	VerificationCodeTTL         timex.Duration `json:"verification_code_ttl"`
	SendGridAPIKey              string         `json:"sendgrid_api_key"`
	SendGridFromName            string         `json:"sendgrid_from_name"`
	SendGridFromAddr            string         `json:"sendgrid_from_addr"`
	SendGridTemplateID          string         `json:"sendgrid_template_id"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; if neither is set, no JSON file is loaded. An unreadable or invalid
// file panics: a config file that was explicitly pointed at must not be
// silently ignored.
//
// Only fields present in the file override the current values; the caller
// merges them with defaults and command-line flags.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.VerificationCodeTTL.Duration != 0 {
		config.VerificationCodeTTL = c.VerificationCodeTTL.Duration
	}
	if c.SendGridAPIKey != "" {
		config.SendGridAPIKey = c.SendGridAPIKey
	}
	if c.SendGridFromName != "" {
		config.SendGridFromName = c.SendGridFromName
	}
	if c.SendGridFromAddr != "" {
		config.SendGridFromAddr = c.SendGridFromAddr
	}
	if c.SendGridTemplateID != "" {
		config.SendGridTemplateID = c.SendGridTemplateID
	}
}
