package config

import (
	"os"
	"os/exec"
	"testing"
	"time"
)

// TestLoadConfig_Defaults verifies that defaults are loaded for every section.
func TestLoadConfig_Defaults(t *testing.T) {
	// Clear relevant env vars to ensure defaults are used
	_ = os.Unsetenv("SERVER_PORT")
	_ = os.Unsetenv("NSE_BASE_URL")
	_ = os.Unsetenv("YAHOO_BASE_URL")
	_ = os.Unsetenv("USER_AGENT")
	_ = os.Unsetenv("HTTP_TIMEOUT_SECONDS")
	_ = os.Unsetenv("MAX_DROP_RATIO")
	_ = os.Unsetenv("TOP_STRIKES")

	LoadConfig()

	if AppConfig.Server.Port != "8080" {
		t.Fatalf("expected default SERVER_PORT=8080, got %q", AppConfig.Server.Port)
	}
	if AppConfig.Upstream.NSEBaseURL != "https://www.nseindia.com" {
		t.Fatalf("unexpected NSE base url: %q", AppConfig.Upstream.NSEBaseURL)
	}
	if AppConfig.Upstream.YahooBaseURL != "https://query2.finance.yahoo.com" {
		t.Fatalf("unexpected Yahoo base url: %q", AppConfig.Upstream.YahooBaseURL)
	}
	if AppConfig.Upstream.UserAgent == "" {
		t.Fatalf("expected non-empty default USER_AGENT")
	}
	if AppConfig.Upstream.Timeout != 10*time.Second {
		t.Fatalf("expected default timeout 10s, got %v", AppConfig.Upstream.Timeout)
	}
	if AppConfig.Pipeline.MaxDropRatio != 0.5 {
		t.Fatalf("expected default MAX_DROP_RATIO=0.5, got %v", AppConfig.Pipeline.MaxDropRatio)
	}
	if AppConfig.Pipeline.TopStrikes != 20 {
		t.Fatalf("expected default TOP_STRIKES=20, got %d", AppConfig.Pipeline.TopStrikes)
	}
}

// TestLoadConfig_EnvOverride verifies that environment variables win over defaults.
func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")
	t.Setenv("MAX_DROP_RATIO", "0.25")

	LoadConfig()

	if AppConfig.Upstream.Timeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", AppConfig.Upstream.Timeout)
	}
	if AppConfig.Pipeline.MaxDropRatio != 0.25 {
		t.Fatalf("expected 0.25 drop ratio, got %v", AppConfig.Pipeline.MaxDropRatio)
	}
}

// TestValidateConfig_Fatal uses a subprocess to assert that validateConfig triggers a fatal exit
// when required fields are missing.
func TestValidateConfig_Fatal(t *testing.T) {
	if os.Getenv("RUN_VALIDATE_FATAL") == "1" {
		// In child process: set empty AppConfig and call validateConfig() to trigger log.Fatalf (os.Exit)
		AppConfig = Config{}
		validateConfig()
		t.Fatalf("validateConfig should have exited the process")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run", "TestValidateConfig_Fatal")
	cmd.Env = append(os.Environ(), "RUN_VALIDATE_FATAL=1")
	err := cmd.Run()
	if err == nil {
		t.Fatalf("expected process to exit with error, got nil")
	}
}
