package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"imagescraper/internal/application/port/output"

	"github.com/joho/godotenv"
)

var _ output.ConfigPort = (*EnvService)(nil)

// EnvService reads settings from the process environment after loading
// dotenv files. Keys are looked up with the service prefix prepended.
type EnvService struct {
	prefix string
	loaded []string
}

// NewEnvService loads ".env" and then ".env.<APP_ENV>" (APP_ENV defaults to
// dev). Missing files are skipped; the second file overrides the first.
func NewEnvService(prefix string) *EnvService {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	s := &EnvService{prefix: prefix}
	if err := godotenv.Load(".env"); err == nil {
		s.loaded = append(s.loaded, ".env")
	}
	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		s.loaded = append(s.loaded, envFile)
	}
	return s
}

// Loaded lists the dotenv files that were found and applied.
func (e *EnvService) Loaded() []string {
	return e.loaded
}

func (e *EnvService) key(key string) string {
	return e.prefix + strings.ToUpper(key)
}

func (e *EnvService) Get(key string) string {
	return os.Getenv(e.key(key))
}

func (e *EnvService) MustGet(key string) string {
	val := e.Get(key)
	if val == "" {
		panic(fmt.Sprintf("ENV %s is missing", e.key(key)))
	}
	return val
}

func (e *EnvService) GetWithDefault(key string, defaultValue string) string {
	if val := e.Get(key); val != "" {
		return val
	}
	return defaultValue
}

func (e *EnvService) GetBool(key string, defaultValue bool) bool {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetInt(key string, defaultValue int) int {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func (e *EnvService) GetDuration(key string, defaultValue time.Duration) time.Duration {
	val := e.Get(key)
	if val == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
