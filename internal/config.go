package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	FolderPath        string `json:"folder-path"`
	HTTPServerPort    uint16 `json:"http-server-port"`
	AdminPort         uint16 `json:"admin-port"`
	ReadTimeout       int64  `json:"read-timeout"`
	WriteTimeout      int64  `json:"write-timeout"`
	SecretKey         string `json:"secret-key"`
	EnableLogging     bool   `json:"enable-logging"`
	LogLevel          string `json:"log-level"`
	TemplateDirectory string `json:"template-directory"`
	StaticDirectory   string `json:"static-directory"`

	DBDriver string `json:"db-driver"`
	DBName   string `json:"db-name"`
	DBDSN    string `json:"db-dsn"`

	PostsPerPage  int   `json:"posts-per-page"`
	IndexCacheTTL int64 `json:"index-cache-ttl"`

	StorageBackend     string `json:"storage-backend"`
	MediaDirectory     string `json:"media-directory"`
	S3Region           string `json:"s3-region"`
	S3Bucket           string `json:"s3-bucket"`
	GCSBucket          string `json:"gcs-bucket"`
	GCSCredentialsFile string `json:"gcs-credentials-file"`
}

func DefaultConfig() *Config {
	return &Config{
		FolderPath:        ".",
		HTTPServerPort:    8000,
		AdminPort:         8001,
		ReadTimeout:       10,
		WriteTimeout:      10,
		EnableLogging:     true,
		LogLevel:          "info",
		TemplateDirectory: "templates",
		StaticDirectory:   "static",
		DBDriver:          "sqlite",
		DBName:            "blog.db",
		PostsPerPage:      10,
		IndexCacheTTL:     20,
		StorageBackend:    "local",
		MediaDirectory:    "media",
	}
}

// LoadConfig reads folderPath/.cfg over the defaults, then applies environment
// overrides. A .env file in the same folder is loaded into the environment first.
// A missing .cfg is not an error.
func LoadConfig(folderPath string) (*Config, error) {
	config := DefaultConfig()

	file, err := os.OpenFile(filepath.Join(folderPath, ".cfg"), os.O_RDONLY, 0755)
	switch {
	case err == nil:
		defer file.Close()
		payload, err := io.ReadAll(file)
		if err != nil {
			return nil, err
		}
		if err = json.Unmarshal(payload, config); err != nil {
			return nil, fmt.Errorf("parsing %s/.cfg: %w", folderPath, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, err
	}
	config.FolderPath = folderPath

	if err := godotenv.Load(filepath.Join(folderPath, ".env")); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	config.applyEnv()

	return config, nil
}

func (c *Config) applyEnv() {
	c.HTTPServerPort = uint16(getEnvAsInt("BLOG_HTTP_PORT", int(c.HTTPServerPort)))
	c.AdminPort = uint16(getEnvAsInt("BLOG_ADMIN_PORT", int(c.AdminPort)))
	c.SecretKey = getEnv("BLOG_SECRET_KEY", c.SecretKey)
	c.EnableLogging = getEnvAsBool("BLOG_ENABLE_LOGGING", c.EnableLogging)
	c.LogLevel = getEnv("BLOG_LOG_LEVEL", c.LogLevel)
	c.TemplateDirectory = getEnv("BLOG_TEMPLATE_DIR", c.TemplateDirectory)
	c.StaticDirectory = getEnv("BLOG_STATIC_DIR", c.StaticDirectory)
	c.DBDriver = getEnv("BLOG_DB_DRIVER", c.DBDriver)
	c.DBName = getEnv("BLOG_DB_NAME", c.DBName)
	c.DBDSN = getEnv("BLOG_DB_DSN", c.DBDSN)
	c.PostsPerPage = getEnvAsInt("BLOG_POSTS_PER_PAGE", c.PostsPerPage)
	c.IndexCacheTTL = int64(getEnvAsInt("BLOG_INDEX_CACHE_TTL", int(c.IndexCacheTTL)))
	c.StorageBackend = getEnv("BLOG_STORAGE_BACKEND", c.StorageBackend)
	c.MediaDirectory = getEnv("BLOG_MEDIA_DIR", c.MediaDirectory)
	c.S3Region = getEnv("BLOG_S3_REGION", c.S3Region)
	c.S3Bucket = getEnv("BLOG_S3_BUCKET", c.S3Bucket)
	c.GCSBucket = getEnv("BLOG_GCS_BUCKET", c.GCSBucket)
	c.GCSCredentialsFile = getEnv("BLOG_GCS_CREDENTIALS_FILE", c.GCSCredentialsFile)
}

func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("secret-key must be set")
	}
	if c.PostsPerPage <= 0 {
		return fmt.Errorf("posts-per-page must be positive, got %d", c.PostsPerPage)
	}
	if c.IndexCacheTTL < 0 {
		return fmt.Errorf("index-cache-ttl must not be negative, got %d", c.IndexCacheTTL)
	}

	switch c.DBDriver {
	case "sqlite":
		if c.DBName == "" {
			return fmt.Errorf("db-name is required for the sqlite driver")
		}
	case "postgres":
		if c.DBDSN == "" {
			return fmt.Errorf("db-dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown db-driver {%s}", c.DBDriver)
	}

	switch c.StorageBackend {
	case "local":
		if c.MediaDirectory == "" {
			return fmt.Errorf("media-directory is required for local storage")
		}
	case "s3":
		if c.S3Region == "" || c.S3Bucket == "" {
			return fmt.Errorf("s3-region and s3-bucket are required for s3 storage")
		}
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("gcs-bucket is required for gcs storage")
		}
	default:
		return fmt.Errorf("unknown storage-backend {%s}", c.StorageBackend)
	}
	return nil
}

// Resolve joins a configured relative path onto the config folder.
func (c *Config) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.FolderPath, path)
}

// RetrieveWebTemplates maps every page in templateDir to the list of files needed
// to parse it: all layouts first, the page itself last.
func RetrieveWebTemplates(templateDir string) (map[string][]string, error) {

	mapping := make(map[string][]string)

	layoutPath := filepath.Join(templateDir, "layouts")
	layoutFiles, err := filepath.Glob(filepath.Join(layoutPath, "*.html"))
	if err != nil {
		return nil, err
	}

	pageFiles, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	if len(pageFiles) == 0 {
		return nil, fmt.Errorf("no templates found in {%s}", templateDir)
	}

	for _, page := range pageFiles {
		files := append([]string{}, layoutFiles...)
		files = append(files, page)
		mapping[filepath.Base(page)] = files
	}

	return mapping, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}
