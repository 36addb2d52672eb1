package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir string `toml:"work_dir"`
	LogDir  string `toml:"log_dir"`
}

// Storage contains object storage (MinIO/S3) connection settings.
type Storage struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

// Queue contains job intake settings for the message broker.
type Queue struct {
	URL       string `toml:"url"`
	QueueName string `toml:"queue_name"`
	Prefetch  int    `toml:"prefetch"`
}

// StatusAPI contains settings for the job-tracking API that owns job state.
type StatusAPI struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// ASR contains speech-recognition collaborator settings.
type ASR struct {
	Backend        string `toml:"backend"`
	WhisperURL     string `toml:"whisper_url"`
	OpenAIAPIKey   string `toml:"openai_api_key"`
	OpenAIModel    string `toml:"openai_model"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Translate contains translation collaborator settings.
type Translate struct {
	URL            string `toml:"url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// TTS contains speech-synthesis collaborator settings.
type TTS struct {
	URL            string `toml:"url"`
	Voice          string `toml:"voice"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Workflow contains per-job processing knobs.
type Workflow struct {
	SegmentWorkers    int `toml:"segment_workers"`
	HeartbeatInterval int `toml:"heartbeat_interval"`
	JobTimeout        int `toml:"job_timeout"`
	OutputSampleRate  int `toml:"output_sample_rate"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the dubbing worker.
//
// Configuration sections by subsystem:
//   - Paths: working/scratch and log directories
//   - Storage: MinIO object storage holding source and dubbed videos
//   - Queue: RabbitMQ intake of job.created messages
//   - StatusAPI: the external job-tracking API updated via PATCH
//   - ASR / Translate / TTS: collaborator service endpoints
//   - Workflow: pool size, heartbeat cadence, job deadline
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Storage   Storage   `toml:"storage"`
	Queue     Queue     `toml:"queue"`
	StatusAPI StatusAPI `toml:"status_api"`
	ASR       ASR       `toml:"asr"`
	Translate Translate `toml:"translate"`
	TTS       TTS       `toml:"tts"`
	Workflow  Workflow  `toml:"workflow"`
	Logging   Logging   `toml:"logging"`
}

// credentials mirrors the secret-bearing fields that may be supplied through
// the environment instead of the config file.
type credentials struct {
	StorageAccessKey string `envconfig:"STORAGE_ACCESS_KEY"`
	StorageSecretKey string `envconfig:"STORAGE_SECRET_KEY"`
	QueueURL         string `envconfig:"QUEUE_URL"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
}

const envPrefix = "DUBBER"

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dubber/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and environment credentials applied.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnvCredentials(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func (c *Config) applyEnvCredentials() error {
	var creds credentials
	if err := envconfig.Process(envPrefix, &creds); err != nil {
		return fmt.Errorf("read environment credentials: %w", err)
	}
	if v := strings.TrimSpace(creds.StorageAccessKey); v != "" {
		c.Storage.AccessKey = v
	}
	if v := strings.TrimSpace(creds.StorageSecretKey); v != "" {
		c.Storage.SecretKey = v
	}
	if v := strings.TrimSpace(creds.QueueURL); v != "" {
		c.Queue.URL = v
	}
	if v := strings.TrimSpace(creds.OpenAIAPIKey); v != "" {
		c.ASR.OpenAIAPIKey = v
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dubber.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for worker operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for extraction and muxing.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
