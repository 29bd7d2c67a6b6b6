package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Configuration holds every recognized setting with its default. Unknown keys
// in the config file are rejected at load time rather than silently ignored.
type Configuration struct {
	Host         string       `mapstructure:"host"`
	Port         int          `mapstructure:"port"`
	GAM          GAM          `mapstructure:"gam"`
	Database     Database     `mapstructure:"database"`
	Provisioning Provisioning `mapstructure:"provisioning"`
}

// GAM locates the ad-manager inventory bridge.
type GAM struct {
	Endpoint     string `mapstructure:"endpoint"`
	APIKey       string `mapstructure:"api_key"`
	NetworkCode  string `mapstructure:"network_code"`
	AdvertiserID int64  `mapstructure:"advertiser_id"`
}

// Database configures the Postgres order config store. When disabled, order
// configs live in process memory only.
type Database struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString assembles the lib/pq connection string.
func (d *Database) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, d.SSLMode)
}

// Provisioning holds the knobs of the provisioning engine.
type Provisioning struct {
	PriceKeyName     string `mapstructure:"price_key_name"`
	BidderKeyName    string `mapstructure:"bidder_key_name"`
	CreativePoolSize int    `mapstructure:"creative_pool_size"`
	LicaBatchSize    int    `mapstructure:"lica_batch_size"`
	RevenueShare     int    `mapstructure:"revenue_share"`
}

// New unmarshals and validates the viper config. Run SetupViper first.
func New(v *viper.Viper) (*Configuration, error) {
	var c Configuration
	if err := v.Unmarshal(&c, func(dc *mapstructure.DecoderConfig) { dc.ErrorUnused = true }); err != nil {
		return nil, fmt.Errorf("viper failed to unmarshal app config: %v", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	glog.Infof("Config loaded: listening on %s:%d, network code %s", c.Host, c.Port, c.GAM.NetworkCode)
	return &c, nil
}

func (cfg *Configuration) validate() error {
	var errs []string
	if cfg.Port <= 0 {
		errs = append(errs, fmt.Sprintf("port must be positive, got %d", cfg.Port))
	}
	if cfg.GAM.Endpoint == "" {
		errs = append(errs, "gam.endpoint is required")
	}
	if cfg.GAM.NetworkCode == "" {
		errs = append(errs, "gam.network_code is required")
	}
	if cfg.Provisioning.RevenueShare < 0 || cfg.Provisioning.RevenueShare > 100 {
		errs = append(errs, fmt.Sprintf("provisioning.revenue_share must be 0-100, got %d", cfg.Provisioning.RevenueShare))
	}
	if cfg.Provisioning.LicaBatchSize <= 0 {
		errs = append(errs, fmt.Sprintf("provisioning.lica_batch_size must be positive, got %d", cfg.Provisioning.LicaBatchSize))
	}
	if cfg.Provisioning.CreativePoolSize <= 0 {
		errs = append(errs, fmt.Sprintf("provisioning.creative_pool_size must be positive, got %d", cfg.Provisioning.CreativePoolSize))
	}
	if len(errs) > 0 {
		return errors.New("invalid configuration: " + strings.Join(errs, "; "))
	}
	return nil
}

// SetupViper sets the default config values and wires environment overrides
// (prefix NEWSPACK_ADS, dots become underscores).
func SetupViper(v *viper.Viper, filename string) {
	if filename != "" {
		v.SetConfigName(filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/newspack-ads/")
	}

	v.SetDefault("host", "")
	v.SetDefault("port", 8000)
	v.SetDefault("gam.endpoint", "")
	v.SetDefault("gam.api_key", "")
	v.SetDefault("gam.network_code", "")
	v.SetDefault("gam.advertiser_id", 0)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "newspack_ads")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("provisioning.price_key_name", "hb_pb")
	v.SetDefault("provisioning.bidder_key_name", "hb_bidder")
	v.SetDefault("provisioning.creative_pool_size", 1)
	v.SetDefault("provisioning.lica_batch_size", 500)
	v.SetDefault("provisioning.revenue_share", 0)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("NEWSPACK_ADS")
	v.AutomaticEnv()
	v.ReadInConfig()
}
