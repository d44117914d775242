package postgres

import (
	"fmt"
	"strings"

	"github.com/dateideas/date-ideas-api/config"
)

// DSN returns DB_DSN when set, otherwise a keyword/value connection string.
// An empty password is left out; "password= dbname=x" would be misparsed.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	parts := []string{
		fmt.Sprintf("host=%s", cfg.Host),
		fmt.Sprintf("port=%d", cfg.Port),
		fmt.Sprintf("user=%s", cfg.User),
	}
	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", cfg.Password))
	}
	parts = append(parts, fmt.Sprintf("dbname=%s", cfg.Name), fmt.Sprintf("sslmode=%s", sslMode))
	return strings.Join(parts, " ")
}
