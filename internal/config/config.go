package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type Config struct {
	Port int

	StoreDriver string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string
	DBDSN       string

	CORSOrigins []string
	SeedSample  bool
	Debug       bool
}

func Load() *Config {

	// Парсим PORT
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		port = 5000 // fallback
	}

	driver := strings.ToLower(strings.TrimSpace(os.Getenv("STORE_DRIVER")))
	if driver == "" {
		driver = DriverMemory
	}

	dbPort, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		dbPort = defaultDBPort(driver)
	}

	return &Config{
		Port: port,

		StoreDriver: driver,
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      dbPort,
		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBName:      os.Getenv("DB_NAME"),
		DBDSN:       os.Getenv("DB_DSN"),

		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS"), []string{"*"}),
		SeedSample:  boolEnv("SEED_SAMPLE", true),
		Debug:       os.Getenv("APP_ENV") == "development",
	}
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ConnString returns the DSN for the configured SQL driver.
// DB_DSN wins over the assembled one.
func (c *Config) ConnString() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.StoreDriver {
	case DriverMySQL:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
			c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
		)
	default:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName,
		)
	}
}

// ClientConfig is what the terminal client needs.
type ClientConfig struct {
	APIURL string
}

func LoadClient() *ClientConfig {
	url := strings.TrimSpace(os.Getenv("TASKBOARD_API_URL"))
	if url == "" {
		url = "http://localhost:5000"
	}
	return &ClientConfig{APIURL: strings.TrimRight(url, "/")}
}

func defaultDBPort(driver string) int {
	if driver == DriverMySQL {
		return 3306
	}
	return 5432
}

func boolEnv(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func splitList(v string, def []string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
