package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ServerConfig represents the configuration for the verification front end
type ServerConfig struct {
	Frontend           string
	ListenAddress      string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	RequestTimeout     time.Duration
	CORSAllowedOrigins []string
}

// DNSConfig represents the configuration for MX resolution
type DNSConfig struct {
	Type       string
	Nameserver string
	Timeout    time.Duration
}

// SMTPConfig represents the configuration for mailbox probing
type SMTPConfig struct {
	Port          int
	Timeout       time.Duration
	HeloIdentity  string
	MailFrom      string
	ProxyAddress  string
	ProxyUsername string
	ProxyPassword string
	SkipDomains   []string
}

// DynamoDBConfig represents the configuration for the DynamoDB disposable store
type DynamoDBConfig struct {
	Table         string
	Region        string
	Endpoint      string
	GenerationTTL time.Duration
}

// DisposableConfig represents the configuration for the disposable domain store
type DisposableConfig struct {
	Store      string
	Key        string
	RedisURL   string
	SQLitePath string
	MySQLDSN   string
	DynamoDB   DynamoDBConfig
}

// RefreshConfig represents the configuration for the disposable list refresh job
type RefreshConfig struct {
	Enabled    bool
	OnStart    bool
	URL        string
	Interval   time.Duration
	Timeout    time.Duration
	MinDomains int
}

// GetServer returns the server configuration
func (c *Config) GetServer() (ServerConfig, error) {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	writeTimeout, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, err
	}
	requestTimeout, err := c.GetDuration("server.request_timeout")
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Frontend:           c.GetString("server.frontend"),
		ListenAddress:      c.GetString("server.listen_address"),
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		RequestTimeout:     requestTimeout,
		CORSAllowedOrigins: c.GetStringSlice("server.cors.allowed_origins"),
	}, nil
}

// GetDNS returns the DNS configuration
func (c *Config) GetDNS() (DNSConfig, error) {
	timeout, err := c.GetDuration("dns.timeout")
	if err != nil {
		return DNSConfig{}, err
	}

	return DNSConfig{
		Type:       c.GetString("dns.type"),
		Nameserver: c.GetString("dns.nameserver"),
		Timeout:    timeout,
	}, nil
}

// GetSMTP returns the SMTP probe configuration
func (c *Config) GetSMTP() (SMTPConfig, error) {
	timeout, err := c.GetDuration("smtp.timeout")
	if err != nil {
		return SMTPConfig{}, err
	}

	return SMTPConfig{
		Port:          c.GetInt("smtp.port"),
		Timeout:       timeout,
		HeloIdentity:  c.GetString("smtp.helo_identity"),
		MailFrom:      c.GetString("smtp.mail_from"),
		ProxyAddress:  c.GetString("smtp.proxy_address"),
		ProxyUsername: c.GetString("smtp.proxy_username"),
		ProxyPassword: c.GetString("smtp.proxy_password"),
		SkipDomains:   c.GetStringSlice("smtp.skip_domains"),
	}, nil
}

// GetDisposable returns the disposable domain store configuration
func (c *Config) GetDisposable() (DisposableConfig, error) {
	generationTTL, err := c.GetDuration("disposable.dynamodb.generation_ttl")
	if err != nil {
		return DisposableConfig{}, err
	}

	return DisposableConfig{
		Store:      c.GetString("disposable.store"),
		Key:        c.GetString("disposable.key"),
		RedisURL:   c.GetString("disposable.redis_url"),
		SQLitePath: c.GetString("disposable.sqlite_path"),
		MySQLDSN:   c.GetString("disposable.mysql_dsn"),
		DynamoDB: DynamoDBConfig{
			Table:         c.GetString("disposable.dynamodb.table"),
			Region:        c.GetString("disposable.dynamodb.region"),
			Endpoint:      c.GetString("disposable.dynamodb.endpoint"),
			GenerationTTL: generationTTL,
		},
	}, nil
}

// GetRefresh returns the disposable list refresh configuration
func (c *Config) GetRefresh() (RefreshConfig, error) {
	interval, err := c.GetDuration("disposable.refresh.interval")
	if err != nil {
		return RefreshConfig{}, err
	}
	timeout, err := c.GetDuration("disposable.refresh.timeout")
	if err != nil {
		return RefreshConfig{}, err
	}

	enabled, err := c.refreshEnabled()
	if err != nil {
		return RefreshConfig{}, err
	}

	return RefreshConfig{
		Enabled:    enabled,
		OnStart:    c.GetBool("disposable.refresh.on_start"),
		URL:        c.GetString("disposable.refresh.url"),
		Interval:   interval,
		Timeout:    timeout,
		MinDomains: c.GetInt("disposable.refresh.min_domains"),
	}, nil
}

// refreshEnabled resolves disposable.refresh.enabled, where "auto" means
// enabled for the memory store
func (c *Config) refreshEnabled() (bool, error) {
	value := strings.ToLower(strings.TrimSpace(c.GetString("disposable.refresh.enabled")))
	if value == "" || value == RefreshAuto {
		return c.GetString("disposable.store") == "memory", nil
	}

	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid value for disposable.refresh.enabled: %q (want true, false or auto)", value)
	}
	return enabled, nil
}
