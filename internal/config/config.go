package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	AI       AIConfig
	Face     FaceConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	face, err := loadFaceConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		Database: loadDatabaseConfig(),
		AI:       ai,
		Face:     face,
	}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// DatabaseConfig 描述 SQLite 持久化配置。
type DatabaseConfig struct {
	Path string
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Path: getEnvOrDefault("DB_PATH", "data/chat.db"),
	}
}

// FaceConfig 描述外部表情分类器读数的采信窗口。
type FaceConfig struct {
	// StaleAfter 超过该时长的表情读数不再采信（分类器约每500ms推送一次）。
	StaleAfter time.Duration
}

func loadFaceConfig() (FaceConfig, error) {
	staleMs, err := parseOptionalIntEnv("FACE_STALE_AFTER_MS")
	if err != nil {
		return FaceConfig{}, err
	}

	staleAfter := 3 * time.Second
	if staleMs != nil && *staleMs > 0 {
		staleAfter = time.Duration(*staleMs) * time.Millisecond
	}

	return FaceConfig{StaleAfter: staleAfter}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey                string
	AccessKey             string
	SecretKey             string
	Model                 string
	BaseURL               string
	Region                string
	Temperature           *float64
	TopP                  *float64
	MaxTokens             *int
	ResponderEnabled      bool
	ResponderHistoryLimit int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	responderEnabled, err := parseBoolEnv("AI_RESPONDER_ENABLED", false)
	if err != nil {
		return AIConfig{}, err
	}

	historyLimit := 6
	if historyOverride, err := parseOptionalIntEnv("AI_RESPONDER_HISTORY_LIMIT"); err != nil {
		return AIConfig{}, err
	} else if historyOverride != nil {
		if *historyOverride < 1 {
			historyLimit = 1
		} else {
			historyLimit = *historyOverride
		}
	}

	return AIConfig{
		APIKey:                strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:             strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:             strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:                 strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:               getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:                getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature:           temperature,
		TopP:                  topP,
		MaxTokens:             maxTokens,
		ResponderEnabled:      responderEnabled,
		ResponderHistoryLimit: historyLimit,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
