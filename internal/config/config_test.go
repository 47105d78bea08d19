package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvGatewayAPIKey, EnvGatewayBaseURL, EnvDatabasePassword, EnvRabbitMQPassword} {
		t.Setenv(key, "")
	}
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			Database: "piwork_db",
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		RabbitMQ: RabbitMQConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    5672,
			Exchange: ExchangeConfig{
				Name: "piwork.events",
			},
			Queue: QueueConfig{
				Name: "payments.incomplete",
			},
		},
		Gateway: GatewayConfig{APIKey: "key"},
		Worker: WorkerConfig{
			Concurrency:     2,
			JobTimeout:      time.Second,
			ShutdownTimeout: time.Second,
		},
	}
}

func TestLoad(t *testing.T) {
	clearEnvOverrides(t)

	tests := []struct {
		name      string
		filePath  string
		wantErr   bool
		errString string
	}{
		{
			name:     "valid config file",
			filePath: "testdata/valid_config.yaml",
			wantErr:  false,
		},
		{
			name:      "non-existent file",
			filePath:  "testdata/nonexistent.yaml",
			wantErr:   true,
			errString: "failed to read config file",
		},
		{
			name:      "malformed yaml",
			filePath:  "testdata/malformed.yaml",
			wantErr:   true,
			errString: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.filePath)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)

				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "piwork_db", cfg.Database.Database)
				assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
				assert.True(t, cfg.Storage.SeedJobs)
				assert.Equal(t, "piwork.events", cfg.RabbitMQ.Exchange.Name)
				assert.Equal(t, "payments.incomplete", cfg.RabbitMQ.Queue.Name)
				assert.Equal(t, "payment.incomplete", cfg.RabbitMQ.BindingKey)
				assert.Equal(t, 10, cfg.RabbitMQ.Consumer.PrefetchCount)
				assert.Equal(t, "test-api-key", cfg.Gateway.APIKey)
				assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
				assert.Equal(t, "piwork-api", cfg.App.Name)
				assert.Equal(t, 4, cfg.Worker.Concurrency)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvOverrides(t)

	cfg, err := Load("testdata/invalid_port.yaml")
	require.NoError(t, err)

	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 10*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnvOverrides(t)
	t.Setenv(EnvGatewayAPIKey, "env-api-key")
	t.Setenv(EnvDatabasePassword, "env-db-secret")
	t.Setenv(EnvRabbitMQPassword, "env-mq-secret")

	cfg, err := Load("testdata/valid_config.yaml")
	require.NoError(t, err)

	assert.Equal(t, "env-api-key", cfg.Gateway.APIKey)
	assert.Equal(t, "env-db-secret", cfg.Database.Password)
	assert.Equal(t, "env-mq-secret", cfg.RabbitMQ.Password)
	assert.Equal(t, "https://api.minepi.com", cfg.Gateway.BaseURL)
}

func TestConfig_ValidateAPIConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "invalid server port - too low",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "invalid server port - too high",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantErr:   true,
			errString: "invalid server port",
		},
		{
			name:      "empty database host",
			mutate:    func(c *Config) { c.Database.Host = "" },
			wantErr:   true,
			errString: "database host is required",
		},
		{
			name:      "empty database name",
			mutate:    func(c *Config) { c.Database.Database = "" },
			wantErr:   true,
			errString: "database name is required",
		},
		{
			name: "memory driver skips database",
			mutate: func(c *Config) {
				c.Storage.Driver = StorageDriverMemory
				c.Database = DatabaseConfig{}
			},
			wantErr: false,
		},
		{
			name:      "unknown storage driver",
			mutate:    func(c *Config) { c.Storage.Driver = "sqlite" },
			wantErr:   true,
			errString: "unknown storage driver",
		},
		{
			name:      "empty rabbitmq host",
			mutate:    func(c *Config) { c.RabbitMQ.Host = "" },
			wantErr:   true,
			errString: "rabbitmq host is required",
		},
		{
			name: "rabbitmq disabled skips broker settings",
			mutate: func(c *Config) {
				c.RabbitMQ = RabbitMQConfig{Enabled: false}
			},
			wantErr: false,
		},
		{
			name:      "empty exchange name",
			mutate:    func(c *Config) { c.RabbitMQ.Exchange.Name = "" },
			wantErr:   true,
			errString: "rabbitmq exchange name is required",
		},
		{
			name:      "empty queue name",
			mutate:    func(c *Config) { c.RabbitMQ.Queue.Name = "" },
			wantErr:   true,
			errString: "rabbitmq queue name is required",
		},
		{
			name:      "missing gateway api key",
			mutate:    func(c *Config) { c.Gateway.APIKey = "" },
			wantErr:   true,
			errString: "gateway api key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateAPIConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateWorkerConfig(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *Config)
		wantErr   bool
		errString string
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:      "zero concurrency",
			mutate:    func(c *Config) { c.Worker.Concurrency = 0 },
			wantErr:   true,
			errString: "worker concurrency",
		},
		{
			name:      "zero job timeout",
			mutate:    func(c *Config) { c.Worker.JobTimeout = 0 },
			wantErr:   true,
			errString: "worker job_timeout",
		},
		{
			name:      "zero shutdown timeout",
			mutate:    func(c *Config) { c.Worker.ShutdownTimeout = 0 },
			wantErr:   true,
			errString: "worker shutdown_timeout",
		},
		{
			name:      "memory driver",
			mutate:    func(c *Config) { c.Storage.Driver = StorageDriverMemory },
			wantErr:   true,
			errString: "requires the \"postgres\" storage driver",
		},
		{
			name:      "rabbitmq disabled",
			mutate:    func(c *Config) { c.RabbitMQ.Enabled = false },
			wantErr:   true,
			errString: "requires rabbitmq",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.ValidateWorkerConfig()

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errString)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestLoad_ValidateIntegration(t *testing.T) {
	clearEnvOverrides(t)

	t.Run("load and validate valid config", func(t *testing.T) {
		cfg, err := Load("testdata/valid_config.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		require.NoError(t, cfg.ValidateAPIConfig())
		require.NoError(t, cfg.ValidateWorkerConfig())
	})

	t.Run("load config with invalid port", func(t *testing.T) {
		cfg, err := Load("testdata/invalid_port.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid server port")
	})

	t.Run("load config with missing database", func(t *testing.T) {
		cfg, err := Load("testdata/missing_database.yaml")
		require.NoError(t, err)
		require.NotNil(t, cfg)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database name is required")
	})

	t.Run("memory config requires api key", func(t *testing.T) {
		cfg, err := Load("testdata/memory_config.yaml")
		require.NoError(t, err)
		assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)

		err = cfg.ValidateAPIConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gateway api key is required")
	})
}

func TestPortConstants(t *testing.T) {
	assert.Equal(t, 1, MinPort)
	assert.Equal(t, 65535, MaxPort)
}
