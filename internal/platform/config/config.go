package config

import (
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// MinSecretLength is the shortest AUTH_SECRET accepted outside development.
	MinSecretLength = 32
)

// OwnerCacheTTL bounds how long the Safe owner list is trusted.
var OwnerCacheTTL = 5 * time.Minute

// ApplicationsCacheTTL bounds how long the admin applications list is reused.
var ApplicationsCacheTTL = 5 * time.Minute

// SessionTTL is the lifetime of the admin session cookie and token.
var SessionTTL = 7 * 24 * time.Hour

// HTTPClientTimeout applies to every outbound integration client.
var HTTPClientTimeout = 10 * time.Second

var (
	ErrMissingSecret = errors.New("AUTH_SECRET is not set")
	ErrWeakSecret    = fmt.Errorf("AUTH_SECRET must be at least %d characters", MinSecretLength)
)

// Config is the full process configuration.
type Config struct {
	Server    Server
	Auth      Auth
	Safe      Safe
	SMTP      SMTP
	Airtable  Airtable
	Ghost     Ghost
	Snapshot  Snapshot
	Turnstile Turnstile
	Listmonk  Listmonk
	Zapier    Zapier
	Upstream  Upstream
	RateLimit RateLimit
	Redis     RedisConfig
	Database  Database
	Kafka     Kafka
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr    string
	Env     string
	SiteURL string
	DevMode bool
	// TrustedProxies are the IPs or CIDRs whose X-Forwarded-For is believed.
	// Empty means rate limits key on the TCP peer.
	TrustedProxies []string
}

type Auth struct {
	Secret string
}

type Safe struct {
	Address string
	ChainID int64
	APIKey  string
	APIURL  string
}

// Enabled reports whether admin sign-in can work at all.
func (s Safe) Enabled() bool {
	return s.Address != "" && s.APIKey != ""
}

type SMTP struct {
	Host       string
	Port       int
	Secure     bool
	User       string
	Password   string
	From       string
	FromName   string
	AdminEmail string
}

type Airtable struct {
	APIKey            string
	BaseID            string
	ApplicationsTable string
	MembersTable      string
}

func (a Airtable) Enabled() bool {
	return a.APIKey != "" && a.BaseID != ""
}

type Ghost struct {
	URL        string
	ContentKey string
	AdminKey   string
}

type Snapshot struct {
	Space  string
	HubURL string
	// Voting windows shown to admins drafting proposals.
	ApplicationVoting time.Duration
	BlogVoting        time.Duration
}

type Turnstile struct {
	SecretKey string
}

type Listmonk struct {
	URL      string
	Username string
	Password string
	ListID   int
}

func (l Listmonk) Enabled() bool {
	return l.URL != "" && l.Username != ""
}

type Zapier struct {
	WebhookURL string
}

type Upstream struct {
	URL    string
	APIKey string
}

func (u Upstream) Enabled() bool {
	return u.URL != "" && u.APIKey != ""
}

// RateLimit holds the tunable contact-form limit; the other classes are fixed.
type RateLimit struct {
	ContactMaxRequests int
	ContactWindow      time.Duration
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type Database struct {
	URL string
}

type Kafka struct {
	Brokers []string
	Topic   string
}

// FromEnv builds the configuration from environment variables.
func FromEnv() Config {
	env := getenv("APP_ENV", EnvProduction)
	return Config{
		Server: Server{
			Addr:    getenv("ADDR", ":8080"),
			Env:     env,
			SiteURL: strings.TrimRight(getenv("SITE_URL", "https://ecohubs.community"), "/"),
			DevMode: env == EnvDevelopment,

			TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		},
		Auth: Auth{
			Secret: os.Getenv("AUTH_SECRET"),
		},
		Safe: Safe{
			Address: os.Getenv("SAFE_ADDRESS"),
			ChainID: int64(getint("SAFE_CHAIN_ID", 1)),
			APIKey:  os.Getenv("SAFE_API_KEY"),
			APIURL:  os.Getenv("SAFE_API_URL"),
		},
		SMTP: SMTP{
			Host:       getenv("SMTP_HOST", "localhost"),
			Port:       getint("SMTP_PORT", 1025),
			Secure:     os.Getenv("SMTP_SECURE") == "true",
			User:       os.Getenv("SMTP_USER"),
			Password:   os.Getenv("SMTP_PASSWORD"),
			From:       getenv("EMAIL_FROM", "noreply@ecohubs.community"),
			FromName:   getenv("EMAIL_FROM_NAME", "EcoHubs Community"),
			AdminEmail: getenv("ADMIN_EMAIL", "admin@ecohubs.community"),
		},
		Airtable: Airtable{
			APIKey:            os.Getenv("AIRTABLE_API_KEY"),
			BaseID:            os.Getenv("AIRTABLE_BASE_ID"),
			ApplicationsTable: getenv("AIRTABLE_APPLICATIONS_TABLE", "Applications"),
			MembersTable:      getenv("AIRTABLE_MEMBERS_TABLE", "Members"),
		},
		Ghost: Ghost{
			URL:        strings.TrimRight(os.Getenv("GHOST_URL"), "/"),
			ContentKey: os.Getenv("GHOST_CONTENT_API_KEY"),
			AdminKey:   os.Getenv("GHOST_ADMIN_API_KEY"),
		},
		Snapshot: Snapshot{
			Space:             getenv("SNAPSHOT_SPACE", "ecohubs.eth"),
			HubURL:            getenv("SNAPSHOT_HUB_URL", "https://hub.snapshot.org/graphql"),
			ApplicationVoting: time.Duration(getint("SNAPSHOT_VOTING_DURATION", 604800)) * time.Second,
			BlogVoting:        time.Duration(getint("SNAPSHOT_BLOG_VOTING_DURATION", 172800)) * time.Second,
		},
		Turnstile: Turnstile{
			SecretKey: os.Getenv("TURNSTILE_SECRET_KEY"),
		},
		Listmonk: Listmonk{
			URL:      strings.TrimRight(os.Getenv("LISTMONK_URL"), "/"),
			Username: os.Getenv("LISTMONK_USERNAME"),
			Password: os.Getenv("LISTMONK_PASSWORD"),
			ListID:   getint("LISTMONK_LIST_ID", 1),
		},
		Zapier: Zapier{
			WebhookURL: os.Getenv("ZAPIER_WEBHOOK_URL"),
		},
		Upstream: Upstream{
			URL:    strings.TrimRight(os.Getenv("ECOHUBSOS_API_URL"), "/"),
			APIKey: os.Getenv("ECOHUBSOS_API_KEY"),
		},
		RateLimit: RateLimit{
			ContactMaxRequests: getint("RATE_LIMIT_MAX_REQUESTS", 5),
			ContactWindow:      time.Duration(getint("RATE_LIMIT_WINDOW", 60000)) * time.Millisecond,
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getint("REDIS_POOL_SIZE", 10),
			MinIdleConns: getint("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Database: Database{
			URL: os.Getenv("DATABASE_URL"),
		},
		Kafka: Kafka{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getenv("KAFKA_TOPIC", "ecohubs.applications"),
		},
	}
}

// BindFlags registers command-line overrides for the most common settings.
// Flag defaults are the values already loaded from the environment.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.Server.Addr, "addr", c.Server.Addr, "listen address")
	fs.BoolVar(&c.Server.DevMode, "dev", c.Server.DevMode, "development mode: permits an ephemeral session secret")
	fs.StringVar(&c.Server.SiteURL, "site-url", c.Server.SiteURL, "public site URL used in feeds and sitemaps")
	fs.StringSliceVar(&c.Server.TrustedProxies, "trusted-proxies", c.Server.TrustedProxies, "proxy IPs or CIDRs whose X-Forwarded-For is trusted")
}

// IsProduction reports whether secure cookies apply. Development mode wins
// over APP_ENV so --dev works without editing the environment.
func (c Config) IsProduction() bool {
	return !c.Server.DevMode && c.Server.Env == EnvProduction
}

// SessionSecret applies the secret policy. A missing or short AUTH_SECRET is
// an error unless development mode was explicitly requested (APP_ENV or
// --dev), in which case a random ephemeral secret is returned and generated
// is true.
func (c Config) SessionSecret() (secret []byte, generated bool, err error) {
	s := c.Auth.Secret
	if len(s) >= MinSecretLength {
		return []byte(s), false, nil
	}
	if !c.Server.DevMode {
		if s == "" {
			return nil, false, ErrMissingSecret
		}
		return nil, false, ErrWeakSecret
	}
	buf := make([]byte, MinSecretLength)
	if _, err := rand.Read(buf); err != nil {
		return nil, false, fmt.Errorf("generate ephemeral secret: %w", err)
	}
	return buf, true, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
