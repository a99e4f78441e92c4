package config

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/go-redis/redis/v8"
	gomysql "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	Console    bool   `yaml:"console"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"jwt_secret"`
	AdminUsername string `yaml:"admin_username"`
	AdminPassword string `yaml:"admin_password"`
	AdminName     string `yaml:"admin_name"`
	AdminEmail    string `yaml:"admin_email"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

func Load(configFile string) *Config {
	godotenv.Load()

	c := &Config{
		Server: ServerConfig{Port: 8087},
		Log:    LogConfig{Level: "info", Console: true, MaxSizeMB: 100, MaxBackups: 3, MaxAgeDays: 30},
		Auth: AuthConfig{
			JWTSecret:     "team-pdca-secret",
			AdminUsername: "admin",
			AdminPassword: "admin123",
			AdminName:     "Administrator",
			AdminEmail:    "admin@company.com",
		},
		Database: DatabaseConfig{Host: "127.0.0.1", Port: 3306, User: "root", Name: "team_pdca"},
	}

	paths := []string{"etc/config-dev.yaml", "/etc/team-pdca/config.yaml"}
	if configFile != "" {
		paths = []string{configFile}
	}
	for _, path := range paths {
		if data, err := os.ReadFile(path); err == nil {
			yaml.Unmarshal(data, c)
			break
		}
	}

	envOverride(&c.Auth.JWTSecret, "JWT_SECRET")
	envOverride(&c.Auth.AdminUsername, "ADMIN_USERNAME")
	envOverride(&c.Auth.AdminPassword, "ADMIN_PASSWORD")
	envOverride(&c.Database.Host, "MYSQL_HOST")
	envOverride(&c.Database.User, "MYSQL_USER")
	envOverride(&c.Database.Password, "MYSQL_PASSWORD")
	envOverride(&c.Database.Name, "MYSQL_DB")
	envOverride(&c.Redis.Addr, "REDIS_ADDR")
	envOverride(&c.Redis.Password, "REDIS_PASSWORD")
	envOverride(&c.Log.Level, "LOG_LEVEL")
	envOverride(&c.Log.File, "LOG_FILE")
	envOverrideInt(&c.Server.Port, "PORT")
	envOverrideInt(&c.Database.Port, "MYSQL_PORT")

	return c
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

func (c *Config) OpenGormDB() (*gorm.DB, error) {
	cfg := gomysql.NewConfig()
	cfg.User = c.Database.User
	cfg.Passwd = c.Database.Password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port)
	cfg.DBName = c.Database.Name
	cfg.ParseTime = true

	connector, err := gomysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// NewRedisClient returns nil when no redis address is configured;
// rate limiting is then skipped.
func (c *Config) NewRedisClient() *redis.Client {
	if c.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	})
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
