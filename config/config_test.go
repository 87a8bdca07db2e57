package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/junyouava/openapi-sdk-go/errors"
	"github.com/junyouava/openapi-sdk-go/logger"
)

type openAPISection struct {
	AccessID  string `mapstructure:"access_id"`
	AccessKey string `mapstructure:"access_key"`
	Address   string `mapstructure:"address"`
	Version   string `mapstructure:"version"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	OpenAPI       openAPISection `mapstructure:"openapi"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty config", func(t *testing.T) {
		cfg := ServiceConfig{}
		cfg.ApplyDefaults()
		if cfg.Name != "openapi" {
			t.Errorf("expected name 'openapi', got %q", cfg.Name)
		}
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected logging defaults to be applied, got level %q", cfg.Logging.Level)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "cli", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	validLogging := logger.Config{Level: "info", Format: "json", Output: "stderr"}
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
		errMsg  string
	}{
		{"valid", ServiceConfig{Name: "cli", Environment: "staging", Logging: validLogging}, false, ""},
		{"missing name", ServiceConfig{Environment: "production", Logging: validLogging}, true, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "cli", Environment: "qa", Logging: validLogging}, true, "config.environment must be one of"},
		{"invalid logging", ServiceConfig{Name: "cli", Environment: "production", Logging: logger.Config{Level: "loud"}}, true, "config.logging"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", `
name: openapi-cli
environment: staging
logging:
  level: debug
  format: json
openapi:
  access_id: from-file
  address: https://sandbox.example.com
  version: v2
`)

	var cfg testConfig
	if err := LoadConfig("openapi", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Name != "openapi-cli" {
		t.Errorf("expected name 'openapi-cli', got %q", cfg.Name)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected logging format 'json', got %q", cfg.Logging.Format)
	}
	if cfg.OpenAPI.AccessID != "from-file" {
		t.Errorf("expected access id from file, got %q", cfg.OpenAPI.AccessID)
	}
	if cfg.OpenAPI.Version != "v2" {
		t.Errorf("expected version v2, got %q", cfg.OpenAPI.Version)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "openapi:\n  access_id: from-file\n")
	t.Setenv("OPENAPI_ACCESS_ID", "from-env")
	t.Setenv("OPENAPI_ACCESS_KEY", "c2VjcmV0")

	var cfg testConfig
	if err := LoadConfig("openapi", &cfg, WithConfigFile(configPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.OpenAPI.AccessID != "from-env" {
		t.Errorf("expected env to override file, got %q", cfg.OpenAPI.AccessID)
	}
	if cfg.OpenAPI.AccessKey != "c2VjcmV0" {
		t.Errorf("expected access key from env, got %q", cfg.OpenAPI.AccessKey)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "OPENAPI_ADDRESS=https://dotenv.example.com\n")
	t.Setenv("OPENAPI_ADDRESS", "")
	os.Unsetenv("OPENAPI_ADDRESS")

	var cfg testConfig
	if err := LoadConfig("openapi", &cfg, WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.OpenAPI.Address != "https://dotenv.example.com" {
		t.Errorf("expected address from .env, got %q", cfg.OpenAPI.Address)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("openapi", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected CONFIGURATION_ERROR, got %v", err)
	}

	err = LoadConfig("openapi", &cfg, WithEnvFile("/nonexistent/.env"))
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Errorf("expected CONFIGURATION_ERROR for env file, got %v", err)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := writeFile(t, dir, "config.yml", "openapi: [unterminated\n")

	var cfg testConfig
	err := LoadConfig("openapi", &cfg, WithConfigFile(configPath))
	if !errors.HasCode(err, errors.ErrCodeConfiguration) {
		t.Fatalf("expected CONFIGURATION_ERROR, got %v", err)
	}
}

func TestLoadConfigNothingFound(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("openapi", &cfg, WithFileSystem(&mockFS{files: map[string]bool{}}))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed without files, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/openapi/config.yml": true,
		"./config/.env":            true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("openapi", LoaderConfig{})
	if files.ConfigFile != "./cmd/openapi/config.yml" {
		t.Errorf("expected config file at ./cmd/openapi/config.yml, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./config/.env" {
		t.Errorf("expected env file at ./config/.env, got %q", files.EnvFile)
	}
}

func TestResolverShortName(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/openapi/config.yml": true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("junyou-openapi", LoaderConfig{})
	if files.ConfigFile != "./cmd/openapi/config.yml" {
		t.Errorf("expected short name lookup, got %q", files.ConfigFile)
	}
}

func TestResolverExplicitPathsWin(t *testing.T) {
	fs := &mockFS{files: map[string]bool{"./config.yml": true}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("openapi", LoaderConfig{ConfigFile: "custom.yml", EnvFile: "custom.env"})
	if files.ConfigFile != "custom.yml" || files.EnvFile != "custom.env" {
		t.Errorf("expected explicit paths to be kept, got %+v", files)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	variants := generateEnvKeyVariants("OPENAPI_ACCESS_ID")
	want := []string{"openapi_access_id", "openapi.access_id", "openapi.access.id"}
	for _, w := range want {
		found := false
		for _, v := range variants {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", w, variants)
		}
	}

	if got := generateEnvKeyVariants("HOME"); len(got) != 1 || got[0] != "home" {
		t.Errorf("expected single variant for HOME, got %v", got)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) Getwd() (string, error)    { return "/mock", nil }

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/to/config.yml")(&lc)
	WithEnvFile("/path/to/.env")(&lc)

	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
}
