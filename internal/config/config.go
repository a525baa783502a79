package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Configuration struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Logging  LoggingConfig  `json:"logging"`
	IPFS     IPFSConfig     `json:"ipfs"`
	Chain    ChainConfig    `json:"chain"`
	Auth     AuthConfig     `json:"auth"`
}

type ServerConfig struct {
	Port         string        `json:"port"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
	IdleTimeout  time.Duration `json:"idle_timeout"`
}

type DatabaseConfig struct {
	Host            string `json:"host"`
	Port            string `json:"port"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	Name            string `json:"name"`
	SSLMode         string `json:"ssl_mode"`
	MaxIdleConns    int    `json:"max_idle_conns"`
	MaxOpenConns    int    `json:"max_open_conns"`
	ConnMaxLifetime int    `json:"conn_max_lifetime"`
}

type LoggingConfig struct {
	Environment string `json:"environment"`
	Level       string `json:"level"`
}

type IPFSConfig struct {
	UploadURL     string        `json:"upload_url"`
	GatewayURL    string        `json:"gateway_url"`
	PinataJWT     string        `json:"pinata_jwt"`
	PinataAPIKey  string        `json:"pinata_api_key"`
	PinataSecret  string        `json:"pinata_secret"`
	UploadTimeout time.Duration `json:"upload_timeout"`
}

type ChainConfig struct {
	RPCURL         string        `json:"rpc_url"`
	Network        string        `json:"network"`
	ExplorerURL    string        `json:"explorer_url"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

type AuthConfig struct {
	JWTSecret string        `json:"jwt_secret"`
	TokenTTL  time.Duration `json:"token_ttl"`
}

var (
	config     *Configuration
	configOnce sync.Once
	configLock sync.RWMutex
)

func LoadConfig(filePath string) (*Configuration, error) {
	var err error

	configOnce.Do(func() {
		var file *os.File
		file, err = os.Open(filePath)
		if err != nil {
			err = fmt.Errorf("failed to open config file: %w", err)
			return
		}
		defer file.Close()

		config = &Configuration{}
		if derr := json.NewDecoder(file).Decode(config); derr != nil {
			err = fmt.Errorf("failed to decode config file: %w", derr)
			return
		}
		applyDefaults(config)
		applyEnvOverrides(config)
	})

	return config, err
}

func GetConfig() *Configuration {
	configLock.RLock()
	defer configLock.RUnlock()
	return config
}

func InitializeDefaultConfig() *Configuration {
	configLock.Lock()
	defer configLock.Unlock()

	config = &Configuration{}
	applyDefaults(config)
	applyEnvOverrides(config)
	return config
}

func applyDefaults(cfg *Configuration) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8000"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 10 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}

	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.Username == "" {
		cfg.Database.Username = "postgres"
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = "password"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "municipal_fund"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 100
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 300
	}

	if cfg.Logging.Environment == "" {
		cfg.Logging.Environment = "development"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.IPFS.UploadURL == "" {
		cfg.IPFS.UploadURL = "https://api.pinata.cloud/pinning/pinFileToIPFS"
	}
	if cfg.IPFS.GatewayURL == "" {
		cfg.IPFS.GatewayURL = "https://gateway.pinata.cloud/ipfs"
	}
	if cfg.IPFS.UploadTimeout == 0 {
		cfg.IPFS.UploadTimeout = 10 * time.Second
	}

	if cfg.Chain.RPCURL == "" {
		cfg.Chain.RPCURL = "https://rpc-mumbai.maticvigil.com"
	}
	if cfg.Chain.Network == "" {
		cfg.Chain.Network = "Polygon Mumbai"
	}
	if cfg.Chain.ExplorerURL == "" {
		cfg.Chain.ExplorerURL = "https://mumbai.polygonscan.com"
	}
	if cfg.Chain.RequestTimeout == 0 {
		cfg.Chain.RequestTimeout = 10 * time.Second
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = "municipal-fund-secret-key"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
}

func applyEnvOverrides(cfg *Configuration) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Logging.Environment = v
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.Username = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("PINATA_JWT"); v != "" {
		cfg.IPFS.PinataJWT = v
	}
	if v := os.Getenv("PINATA_API_KEY"); v != "" {
		cfg.IPFS.PinataAPIKey = v
	}
	if v := os.Getenv("PINATA_SECRET_KEY"); v != "" {
		cfg.IPFS.PinataSecret = v
	}
	if v := os.Getenv("POLYGON_RPC_URL"); v != "" {
		cfg.Chain.RPCURL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

func LogConfig(logger *zap.Logger) {
	configLock.RLock()
	defer configLock.RUnlock()

	logger.Info("Application configuration",
		zap.String("port", config.Server.Port),
		zap.Duration("read_timeout", config.Server.ReadTimeout),
		zap.Duration("write_timeout", config.Server.WriteTimeout),
		zap.String("database_host", config.Database.Host),
		zap.String("database_name", config.Database.Name),
		zap.String("ipfs_gateway", config.IPFS.GatewayURL),
		zap.Bool("pinata_configured", config.IPFS.PinataJWT != "" || config.IPFS.PinataAPIKey != ""),
		zap.String("chain_network", config.Chain.Network),
		zap.String("chain_rpc", config.Chain.RPCURL),
	)
}
