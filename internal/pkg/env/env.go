package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var fileEnv map[string]string

// GetEnv resolves a key from the loaded .env file first, then from the
// process environment, then falls back to the default.
func GetEnv(key, def string) string {
	if val, ok := fileEnv[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// SetupEnvFile loads the nearest .env file. Containerized deployments
// configure through the process environment only, so a missing file is
// not fatal.
func SetupEnvFile() {
	for _, envFile := range []string{".env", "../../.env"} {
		if parsed, err := godotenv.Read(envFile); err == nil {
			fileEnv = parsed
			return
		}
	}
	log.Println("env: no .env file found, using process environment only")
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
