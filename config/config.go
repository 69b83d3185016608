package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration decodes "30s"-style TOML strings.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}

	*d = Duration(parsed)
	return nil
}

type Configs struct {
	Env string `toml:"env"`

	Database  DatabaseConfigs `toml:"database"`
	ApiServer ServerConfigs   `toml:"api_server"`
	Redis     RedisConfigs    `toml:"redis"`
	Kafka     KafkaConfigs    `toml:"kafka"`
	Eth       EthConfigs      `toml:"eth"`
	Raffle    RaffleConfigs   `toml:"raffle"`
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

type ServerConfigs struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

func (s *ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type KafkaConfigs struct {
	Addr  string `toml:"addr"`
	Topic string `toml:"topic"`
}

type EthConfigs struct {
	Chain   string   `toml:"chain"`
	Rpcs    []string `toml:"rpcs"`
	PrivKey string   `toml:"priv_key"`
}

// RaffleConfigs is fixed at startup and never mutated afterwards. The
// oracle parameters mirror what the randomness coordinator expects for a
// single-word native-payment request.
type RaffleConfigs struct {
	EntryFee       uint64   `toml:"entry_fee"`
	SettleInterval Duration `toml:"settle_interval"`

	SubscriptionID       uint64 `toml:"subscription_id"`
	KeyHash              string `toml:"key_hash"`
	CallbackGasLimit     uint32 `toml:"callback_gas_limit"`
	RequestConfirmations uint16 `toml:"request_confirmations"`
}

// Load reads the TOML config file pointed to by path. An empty path
// falls back to the CONFIG_FILE environment variable.
func Load(path string) (Configs, error) {
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}

	if path == "" {
		path = "config.toml"
	}

	var cfg Configs
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Configs{}, err
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}

	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}

	if privKey := os.Getenv("ETH_PRIV_KEY"); privKey != "" {
		cfg.Eth.PrivKey = privKey
	}

	return cfg, nil
}
