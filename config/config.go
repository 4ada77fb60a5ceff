package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

type Configs struct {
	Env string `toml:"env"`

	Database    DatabaseConfigs    `toml:"database"`
	Redis       RedisConfigs       `toml:"redis"`
	Kafka       KafkaConfigs       `toml:"kafka"`
	Classifier  ClassifierConfigs  `toml:"classifier"`
	Bookkeeping BookkeepingConfigs `toml:"bookkeeping"`
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr string `toml:"addr"`
}

type ClassifierConfigs struct {
	URL     string        `toml:"url"`
	APIKey  string        `toml:"api_key"`
	Model   string        `toml:"model"`
	Timeout time.Duration `toml:"timeout"`
}

type BookkeepingConfigs struct {
	Topic         string        `toml:"topic"`
	FlushInterval time.Duration `toml:"flush_interval"`
	EvictAfter    time.Duration `toml:"evict_after"`
	EvictInterval time.Duration `toml:"evict_interval"`
}

// LoadFile reads a TOML configuration file over the defaults.
func LoadFile(path string, cfg *Configs) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("cannot decode config file %s: %w", path, err)
	}

	return nil
}
