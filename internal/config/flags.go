package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-base-url public base URL used in e-mail callback links
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-bearer-token-duration bearer token duration (e.g., "1h", "30m")
//	-confirm-token-duration e-mail confirmation code duration (e.g., "24h")
//	-reset-token-duration password-reset code duration (e.g., "1h")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-mail-host/-mail-port/-mail-username/-mail-password/-mail-from SMTP settings
//	-mail-queue-size outbound mail queue capacity
func ParseFlags() *StructuredConfig {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var baseURL string
	var tokenSignKey string
	var tokenIssuer string
	var bearerTokenDuration time.Duration
	var confirmTokenDuration time.Duration
	var resetTokenDuration time.Duration
	var requestTimeout time.Duration
	var mailHost string
	var mailPort int
	var mailUsername string
	var mailPassword string
	var mailFrom string
	var mailQueueSize int

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&baseURL, "base-url", "", "Public base URL for e-mail callback links")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&bearerTokenDuration, "bearer-token-duration", 0, "Bearer token duration (e.g., 1h, 30m)")
	flag.DurationVar(&confirmTokenDuration, "confirm-token-duration", 0, "E-mail confirmation code duration (e.g., 24h)")
	flag.DurationVar(&resetTokenDuration, "reset-token-duration", 0, "Password-reset code duration (e.g., 1h)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.StringVar(&mailHost, "mail-host", "", "SMTP host")
	flag.IntVar(&mailPort, "mail-port", 0, "SMTP port")
	flag.StringVar(&mailUsername, "mail-username", "", "SMTP username")
	flag.StringVar(&mailPassword, "mail-password", "", "SMTP password")
	flag.StringVar(&mailFrom, "mail-from", "", "Sender address for outbound e-mails")
	flag.IntVar(&mailQueueSize, "mail-queue-size", 0, "Outbound mail queue capacity")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			TokenSignKey:         tokenSignKey,
			TokenIssuer:          tokenIssuer,
			BearerTokenDuration:  bearerTokenDuration,
			ConfirmTokenDuration: confirmTokenDuration,
			ResetTokenDuration:   resetTokenDuration,
			BaseURL:              baseURL,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Mail: Mail{
			Host:     mailHost,
			Port:     mailPort,
			Username: mailUsername,
			Password: mailPassword,
			From:     mailFrom,
		},
		Workers: Workers{
			MailQueueSize: mailQueueSize,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
