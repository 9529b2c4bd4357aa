package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmatveev/authd/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-v int      verification code TTL, minutes
//	-k string   SendGrid API key (empty = log codes instead of sending)
//	-n string   mail From name
//	-f string   mail From address
//	-m string   SendGrid dynamic template ID
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integer minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-v", "-k", "-n", "-f", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	verificationCodeTTL := fs.Int("v", int(config.VerificationCodeTTL.Minutes()), "verification code TTL (in minutes)")

	fs.StringVar(&config.SendGridAPIKey, "k", config.SendGridAPIKey, "SendGrid API key")
	fs.StringVar(&config.SendGridFromName, "n", config.SendGridFromName, "mail From name")
	fs.StringVar(&config.SendGridFromAddr, "f", config.SendGridFromAddr, "mail From address")
	fs.StringVar(&config.SendGridTemplateID, "m", config.SendGridTemplateID, "SendGrid template ID")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.VerificationCodeTTL = time.Duration(*verificationCodeTTL) * time.Minute
}
