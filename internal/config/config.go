package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type DB struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	PublicURL  string
}

type Media struct {
	StaticDir     string
	MediaDir      string
	Backend       string
	MaxPhotoSize  int
	MaxUploadSize int64
}

type Session struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
	RedisURL   string
}

type Config struct {
	Debug          bool
	SecretKey      string
	ServerPort     int
	DB             DB
	MinIO          MinIO
	Media          Media
	Session        Session
	LoginRateLimit int
	CKEditorPkg    string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DEBUG", true)
	v.SetDefault("SECRET_KEY", "dev")
	v.SetDefault("SERVER_PORT", 8080)

	v.SetDefault("DATABASE_URL", "sqlite:///project.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("STATIC_DIR", "static")
	v.SetDefault("MEDIA_DIR", "static/media")
	v.SetDefault("PHOTO_BACKEND", "local")
	v.SetDefault("PHOTO_MAX_SIZE", 512)
	v.SetDefault("MAX_UPLOAD_SIZE", 10<<20)

	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET_NAME", "photos")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_PUBLIC_URL", "")

	v.SetDefault("SESSION_COOKIE_NAME", "session")
	v.SetDefault("SESSION_TTL", "168h")
	v.SetDefault("SESSION_SECURE", false)
	v.SetDefault("REDIS_URL", "")

	v.SetDefault("LOGIN_RATE_LIMIT", 30)
	v.SetDefault("CKEDITOR_PKG_TYPE", "full")
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using environment variables")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Debug:      v.GetBool("DEBUG"),
		SecretKey:  v.GetString("SECRET_KEY"),
		ServerPort: v.GetInt("SERVER_PORT"),
		DB: DB{
			URL:             v.GetString("DATABASE_URL"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		MinIO: MinIO{
			Endpoint:   v.GetString("MINIO_ENDPOINT"),
			AccessKey:  v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:  v.GetString("MINIO_SECRET_KEY"),
			BucketName: v.GetString("MINIO_BUCKET_NAME"),
			UseSSL:     v.GetBool("MINIO_USE_SSL"),
			PublicURL:  v.GetString("MINIO_PUBLIC_URL"),
		},
		Media: Media{
			StaticDir:     v.GetString("STATIC_DIR"),
			MediaDir:      v.GetString("MEDIA_DIR"),
			Backend:       strings.ToLower(v.GetString("PHOTO_BACKEND")),
			MaxPhotoSize:  v.GetInt("PHOTO_MAX_SIZE"),
			MaxUploadSize: v.GetInt64("MAX_UPLOAD_SIZE"),
		},
		Session: Session{
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			TTL:        v.GetDuration("SESSION_TTL"),
			Secure:     v.GetBool("SESSION_SECURE"),
			RedisURL:   v.GetString("REDIS_URL"),
		},
		LoginRateLimit: v.GetInt("LOGIN_RATE_LIMIT"),
		CKEditorPkg:    v.GetString("CKEDITOR_PKG_TYPE"),
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY must not be empty")
	}
	if cfg.Session.TTL <= 0 {
		cfg.Session.TTL = 168 * time.Hour
	}
	if _, _, err := cfg.DB.Driver(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Driver translates the connection URL into a database/sql driver name and DSN.
//
//	sqlite:///project.db      -> sqlite3, project.db
//	sqlite:///:memory:        -> sqlite3, :memory:
//	postgres://u:p@host/name  -> postgres, unchanged
func (d DB) Driver() (string, string, error) {
	switch {
	case strings.HasPrefix(d.URL, "postgres://"), strings.HasPrefix(d.URL, "postgresql://"):
		return DriverPostgres, d.URL, nil
	case strings.HasPrefix(d.URL, "sqlite://"):
		path := strings.TrimPrefix(d.URL, "sqlite://")
		path = strings.TrimPrefix(path, "/")
		if path == "" {
			return "", "", fmt.Errorf("sqlite url %q has no database path", d.URL)
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return DriverSQLite, path + sep + "_foreign_keys=on", nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL %q", d.URL)
	}
}
