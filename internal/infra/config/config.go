package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// AppConfig は環境変数を読み取りアプリ全体に渡す設定です。
type AppConfig struct {
	Port            string `env:"PORT" envDefault:"8080"`
	LogProvider     string `env:"LOG_PROVIDER"`     // gcp
	LogLevel        string `env:"LOG_LEVEL"`        // -4 | 0 | 4 | 8 or debug/info/warn/error
	MaintenanceMode string `env:"MAINTENANCE_MODE"` // on | off

	DBDriver     string `env:"DB_DRIVER"`     // sqlite
	SqliteSource string `env:"SQLITE_SOURCE"` // local | gcs

	StorageProvider string `env:"STORAGE_PROVIDER"` // gcs | local(no-op)
	SqliteBucket    string `env:"SQLITE_BUCKET"`    // バケット名

	PeriodicBackup       string `env:"PERIODIC_BACKUP"`                        // on | off (default off)
	PeriodicBackupMinute int    `env:"PERIODIC_BACKUP_MINUTE" envDefault:"10"` // interval minutes
}

// NewFromEnv loads configuration from environment variables.
func NewFromEnv() (AppConfig, error) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// SnapshotEnabled はスナップショット同期を有効化すべきかの判定です。
func (c AppConfig) SnapshotEnabled() bool {
	return c.StorageProvider == "gcs" && c.SqliteBucket != ""
}

// PeriodicBackupEnabled は定期バックアップが有効か判定します（既定は off）。
func (c AppConfig) PeriodicBackupEnabled() bool { return c.PeriodicBackup == "on" }

// PeriodicBackupIntervalMinutes は間隔（分）を返します（未設定・不正値は 10）。
func (c AppConfig) PeriodicBackupIntervalMinutes() int {
	if c.PeriodicBackupMinute <= 0 {
		return 10
	}
	return c.PeriodicBackupMinute
}
