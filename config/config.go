package config

import (
	_ "embed"
	"strings"
)

const (
	CurrentEnvProd    = "prod"
	CurrentEnvStaging = "staging"
)

//go:embed current-env
var CurrentEnv string

func init() {
	CurrentEnv = strings.TrimSpace(CurrentEnv)

	if CurrentEnv != CurrentEnvProd && CurrentEnv != CurrentEnvStaging {
		panic("invalid environment")
	}
}

// Common struct for values that differ between staging and production environments
type Differs[T any] struct {
	Staging T `yaml:"staging" comment:"Staging value" validate:"required"`
	Prod    T `yaml:"prod" comment:"Production value" validate:"required"`
}

func (d *Differs[T]) Parse() T {
	if CurrentEnv == CurrentEnvProd {
		return d.Prod
	} else if CurrentEnv == CurrentEnvStaging {
		return d.Staging
	} else {
		panic("invalid environment")
	}
}

func (d *Differs[T]) Production() T {
	return d.Prod
}

type Config struct {
	DiscordAuth   DiscordAuth         `yaml:"discord_auth" validate:"required"`
	Sites         Sites               `yaml:"sites" validate:"required"`
	Servers       Servers             `yaml:"servers" validate:"required"`
	Meta          Meta                `yaml:"meta" validate:"required"`
	Bot           Bot                 `yaml:"bot" validate:"required"`
	ObjectStorage ObjectStorageConfig `yaml:"object_storage" validate:"required"`
}

type DiscordAuth struct {
	Token     Differs[string] `yaml:"token" comment:"Discord bot token" validate:"required"`
	ClientID  Differs[string] `yaml:"client_id" default:"1063493342512664586" comment:"Discord Client ID" validate:"required"`
	RootUsers []string        `yaml:"root_users" default:"717578903312531476" comment:"Users treated as bot owners" validate:"required"`
}

type Sites struct {
	Frontend Differs[string] `yaml:"frontend" default:"https://cardinal.bot" comment:"Frontend URL" validate:"required"`
	API      Differs[string] `yaml:"api" default:"https://api.cardinal.bot" comment:"API URL" validate:"required"`
}

type Servers struct {
	Main Differs[string] `yaml:"main" default:"1063491848266223677" comment:"Main Server ID" validate:"required"`
}

type Meta struct {
	WebDisableRatelimits bool            `yaml:"web_disable_ratelimits" comment:"Disable ratelimits for the web server"`
	PostgresURL          string          `yaml:"postgres_url" default:"postgresql:///cardinal" comment:"Postgres URL" validate:"required"`
	RedisURL             Differs[string] `yaml:"redis_url" default:"redis://localhost:6379" comment:"Redis URL" validate:"required"`
	Port                 Differs[int]    `yaml:"port" default:"8081" comment:"Port to run the server on" validate:"required"`
	Proxy                string          `yaml:"proxy" default:"" comment:"(optional) Discord REST proxy, e.g. http://127.0.0.1:3221"`
}

type Bot struct {
	Prefix                 string `yaml:"prefix" default:">" comment:"Message command prefix" validate:"required,nospaces"`
	RestrictionBackend     string `yaml:"restriction_backend" default:"postgres" comment:"Where command restrictions are stored. Must be one of postgres, redis or memory" validate:"required,oneof=postgres redis memory"`
	CooldownSeconds        int    `yaml:"cooldown_seconds" default:"5" comment:"Default per-user command cooldown"`
	TemporaryMessageTTL    int    `yaml:"temporary_message_ttl" default:"10" comment:"Seconds before temporary replies are deleted"`
	ArchiveCleanedMessages bool   `yaml:"archive_cleaned_messages" default:"true" comment:"Whether clean saves a transcript to object storage"`
}

// Cleaned message transcripts are stored on a S3-like bucket or on local disk
type ObjectStorageConfig struct {
	Type        string `yaml:"type" comment:"Must be one of s3-like or local" validate:"required,oneof=s3-like local"`
	Path        string `yaml:"path" comment:"If s3-like, this should be the name of the bucket. Otherwise, should be the path to the location to store to" validate:"required"`
	Endpoint    string `yaml:"endpoint" comment:"Only for s3-like, this should be the endpoint to the bucket."`
	CdnEndpoint string `yaml:"cdn_endpoint" comment:"Only for s3-like, this should be the CDN endpoint to the bucket."`
	Secure      bool   `yaml:"secure" comment:"Only for s3-like, this should be whether or not to use a secure connection to the bucket."`
	CdnSecure   bool   `yaml:"cdn_secure" comment:"Only for s3-like, this should be whether or not to use a secure connection to the CDN."`
	AccessKey   string `yaml:"access_key" comment:"Only for s3-like, this should be the access key to the bucket."`
	SecretKey   string `yaml:"secret_key" comment:"Only for s3-like, this should be the secret key to the bucket."`
}
