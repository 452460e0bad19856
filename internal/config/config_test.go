package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// writeTestConfig 写入临时配置文件并返回其目录
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return tempDir
}

const baseConfig = `
server:
  host: "localhost"
  port: 8080
  mode: "test"
  read_timeout: 30s
  write_timeout: 30s
  idle_timeout: 60s
  max_header_bytes: 1048576

database:
  mysql:
    enabled: false
  redis:
    enabled: false

log:
  level: "info"
  format: "json"
  output: "stdout"
  file_path: "logs/app.log"
  max_size: 100
  max_backups: 5
  max_age: 30
  compress: true
  caller: true
  stack_trace: true

security:
  auth:
    enabled: false
  cors:
    enabled: true
    allow_all_origins: true
  rate_limit:
    enabled: false

analytics:
  default_window_days: 14
  default_cluster_count: 4
  reliability_threshold: 95.0
  cache_ttl: 5m

scheduler:
  enabled: false

app:
  name: "flowinsight-test"
  version: "1.0.0"
  environment: "test"
  debug: false
  timezone: "UTC"
`

// TestLoadConfig 测试配置加载功能
func TestLoadConfig(t *testing.T) {
	tempDir := writeTestConfig(t, baseConfig)

	config, err := LoadConfig(tempDir, "test")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Server.Host != "localhost" {
		t.Errorf("Server.Host = %s, want localhost", config.Server.Host)
	}
	if config.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", config.Server.Port)
	}
	if config.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 30s", config.Server.ReadTimeout)
	}
	if config.Analytics.DefaultWindowDays != 14 {
		t.Errorf("Analytics.DefaultWindowDays = %d, want 14", config.Analytics.DefaultWindowDays)
	}
	if config.Analytics.DefaultClusterCount != 4 {
		t.Errorf("Analytics.DefaultClusterCount = %d, want 4", config.Analytics.DefaultClusterCount)
	}
	if config.Analytics.CacheTTL != 5*time.Minute {
		t.Errorf("Analytics.CacheTTL = %v, want 5m", config.Analytics.CacheTTL)
	}
	if !config.App.IsTest() {
		t.Errorf("App.IsTest() = false, want true")
	}
}

// TestAnalyticsDefaults 测试分析引擎配置默认值
func TestAnalyticsDefaults(t *testing.T) {
	var config Config
	config.Server = ServerConfig{Host: "localhost", Port: 8080, Mode: "test"}
	applyAnalyticsDefaults(&config)

	if config.Analytics.DefaultWindowDays != 30 {
		t.Errorf("DefaultWindowDays = %d, want 30", config.Analytics.DefaultWindowDays)
	}
	if config.Analytics.DefaultClusterCount != 3 {
		t.Errorf("DefaultClusterCount = %d, want 3", config.Analytics.DefaultClusterCount)
	}
	if config.Analytics.ReliabilityThreshold != 90.0 {
		t.Errorf("ReliabilityThreshold = %f, want 90.0", config.Analytics.ReliabilityThreshold)
	}
	if config.Analytics.VarianceRatioThreshold != 1.5 {
		t.Errorf("VarianceRatioThreshold = %f, want 1.5", config.Analytics.VarianceRatioThreshold)
	}
	if config.Analytics.HistoryLimitPerWorkflow != 50 {
		t.Errorf("HistoryLimitPerWorkflow = %d, want 50", config.Analytics.HistoryLimitPerWorkflow)
	}
	if config.Security.Auth.APIKeyHeader != "X-API-Key" {
		t.Errorf("Auth.APIKeyHeader = %s, want X-API-Key", config.Security.Auth.APIKeyHeader)
	}
	if config.Scheduler.RefreshCron != "0 * * * *" {
		t.Errorf("Scheduler.RefreshCron = %s, want hourly", config.Scheduler.RefreshCron)
	}
}

// TestValidateConfig 测试配置验证
func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid_config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "invalid_port",
			modify:  func(c *Config) { c.Server.Port = 0 },
			wantErr: true,
		},
		{
			name:    "invalid_mode",
			modify:  func(c *Config) { c.Server.Mode = "invalid" },
			wantErr: true,
		},
		{
			name:    "mysql_enabled_without_host",
			modify:  func(c *Config) { c.Database.MySQL.Enabled = true },
			wantErr: true,
		},
		{
			name:    "redis_enabled_without_host",
			modify:  func(c *Config) { c.Database.Redis.Enabled = true },
			wantErr: true,
		},
		{
			name:    "auth_enabled_without_key",
			modify:  func(c *Config) { c.Security.Auth.Enabled = true },
			wantErr: true,
		},
		{
			name:    "invalid_log_level",
			modify:  func(c *Config) { c.Log.Level = "verbose" },
			wantErr: true,
		},
		{
			name:    "file_output_without_path",
			modify:  func(c *Config) { c.Log.Output = "file"; c.Log.FilePath = "" },
			wantErr: true,
		},
		{
			name:    "reliability_threshold_above_100",
			modify:  func(c *Config) { c.Analytics.ReliabilityThreshold = 150 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{
				Server: ServerConfig{Host: "localhost", Port: 8080, Mode: "test"},
				Log:    LogConfig{Level: "info", Format: "json", Output: "stdout", FilePath: "logs/app.log"},
			}
			applyAnalyticsDefaults(config)
			tt.modify(config)

			err := validateConfig(config)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestEnvironmentOverride 测试环境变量覆盖配置
func TestEnvironmentOverride(t *testing.T) {
	tempDir := writeTestConfig(t, baseConfig)

	os.Setenv("FLOWINSIGHT_SERVER_PORT", "9090")
	os.Setenv("FLOWINSIGHT_ANALYTICS_WINDOW_DAYS", "7")
	defer os.Unsetenv("FLOWINSIGHT_SERVER_PORT")
	defer os.Unsetenv("FLOWINSIGHT_ANALYTICS_WINDOW_DAYS")

	config, err := LoadConfig(tempDir, "test")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090 (env override)", config.Server.Port)
	}
	if config.Analytics.DefaultWindowDays != 7 {
		t.Errorf("Analytics.DefaultWindowDays = %d, want 7 (env override)", config.Analytics.DefaultWindowDays)
	}
}

// TestGetConfigFileName 测试环境对应配置文件选择
func TestGetConfigFileName(t *testing.T) {
	tempDir := t.TempDir()
	defaultFile := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(defaultFile, []byte("server: {}"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	// 生产配置不存在时回落到默认配置
	got := getConfigFileName(tempDir, "production")
	if got != defaultFile {
		t.Errorf("getConfigFileName() = %s, want %s", got, defaultFile)
	}

	// 生产配置存在时使用生产配置
	prodFile := filepath.Join(tempDir, "config.prod.yaml")
	if err := os.WriteFile(prodFile, []byte("server: {}"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	got = getConfigFileName(tempDir, "production")
	if got != prodFile {
		t.Errorf("getConfigFileName() = %s, want %s", got, prodFile)
	}
}
