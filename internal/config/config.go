package config

import "os"

type Config struct {
	HTTPAddr   string
	DBPath     string
	JWTSecret  string
	AdminEmail string
	AdminPass  string
	GelfAddr   string
}

func Load() *Config {
	return &Config{
		HTTPAddr:   getEnv("FORGE_ADDR", ":8080"),
		DBPath:     getEnv("FORGE_DB_PATH", "formforge.db"),
		JWTSecret:  getEnv("FORGE_JWT_SECRET", "formforge-dev-secret-change-me"),
		AdminEmail: getEnv("FORGE_ADMIN_EMAIL", "admin@formforge.local"),
		AdminPass:  getEnv("FORGE_ADMIN_PASS", "admin123"),
		GelfAddr:   getEnv("FORGE_GELF_ADDR", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
