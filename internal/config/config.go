package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const EnvPrefix = "STOREFRONT"

const (
	StorageDriverMemory = "memory"
	StorageDriverFile   = "file"
	StorageDriverRedis  = "redis"
)

var (
	ErrInvalidStorageDriver = errors.New("invalid storage driver")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrAdminTokenRequired   = errors.New("admin token required when admin routes are enabled")
	ErrInvalidRateLimit     = errors.New("invalid rate limit")
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	Checkout  CheckoutConfig  `mapstructure:"checkout"`
	Order     OrderConfig     `mapstructure:"order"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
}

type ServerConfig struct {
	Addr  string      `mapstructure:"addr"`
	Admin AdminConfig `mapstructure:"admin"`
}

// AdminConfig 管理路由（列出所有訂單、改狀態），預設不掛載
// 請求需帶 X-Admin-Token
type AdminConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Token   string `mapstructure:"token"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StorageConfig struct {
	Driver string      `mapstructure:"driver"`
	Dir    string      `mapstructure:"dir"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// 金額以字串設定，交給 decimal 解析
type PricingConfig struct {
	FreeShippingThreshold string `mapstructure:"free_shipping_threshold"`
	ShippingCost          string `mapstructure:"shipping_cost"`
}

type CheckoutConfig struct {
	SimulatedDelay time.Duration `mapstructure:"simulated_delay"`
}

type OrderConfig struct {
	StrictTransitions bool `mapstructure:"strict_transitions"`
}

// Path 為空時使用內嵌目錄
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// RateLimitConfig 以 client ip 為 key
// storage.driver 為 redis 時 bucket 放在 redis，其他情況放在記憶體
type RateLimitConfig struct {
	Enabled  bool        `mapstructure:"enabled"`
	Checkout LimitConfig `mapstructure:"checkout"`
	Track    LimitConfig `mapstructure:"track"`
}

type LimitConfig struct {
	Capacity int     `mapstructure:"capacity"`
	RatePS   float64 `mapstructure:"rate_per_second"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.admin.enabled", false)
	v.SetDefault("server.admin.token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", StorageDriverFile)
	v.SetDefault("storage.dir", "./data")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.password", "")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("storage.redis.prefix", "storefront")
	v.SetDefault("pricing.free_shipping_threshold", "100")
	v.SetDefault("pricing.shipping_cost", "7")
	v.SetDefault("checkout.simulated_delay", 1500*time.Millisecond)
	v.SetDefault("order.strict_transitions", true)
	v.SetDefault("catalog.path", "")
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.checkout.capacity", 5)
	v.SetDefault("ratelimit.checkout.rate_per_second", 0.1)
	v.SetDefault("ratelimit.track.capacity", 10)
	v.SetDefault("ratelimit.track.rate_per_second", 0.5)
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageDriverMemory, StorageDriverFile, StorageDriverRedis:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStorageDriver, c.Storage.Driver)
	}
	if _, err := c.Pricing.Threshold(); err != nil {
		return err
	}
	if _, err := c.Pricing.Cost(); err != nil {
		return err
	}
	if c.Server.Admin.Enabled && strings.TrimSpace(c.Server.Admin.Token) == "" {
		return ErrAdminTokenRequired
	}
	if c.RateLimit.Enabled {
		for name, l := range map[string]LimitConfig{"checkout": c.RateLimit.Checkout, "track": c.RateLimit.Track} {
			if l.Capacity <= 0 || l.RatePS < 0 {
				return fmt.Errorf("%w: ratelimit.%s capacity=%d rate_per_second=%v", ErrInvalidRateLimit, name, l.Capacity, l.RatePS)
			}
		}
	}
	return nil
}

func parseAmount(key, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s=%q", ErrInvalidAmount, key, raw)
	}
	return d, nil
}

func (p PricingConfig) Threshold() (decimal.Decimal, error) {
	return parseAmount("pricing.free_shipping_threshold", p.FreeShippingThreshold)
}

func (p PricingConfig) Cost() (decimal.Decimal, error) {
	return parseAmount("pricing.shipping_cost", p.ShippingCost)
}

/*
Loader 讀取設定檔並可監聽檔案變動
init : 建立 viper 並讀檔
watch : 檔案變動時重新讀取，讀取失敗保留舊設定
*/
type Loader struct {
	v   *viper.Viper
	mu  sync.RWMutex
	cfg *Config
}

// NewLoader path 為空時依序搜尋 ./、./deploy/、$HOME/.storefront/ 下的 config.yaml
// 找不到設定檔時只使用預設值與環境變數
func NewLoader(path string) (*Loader, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./deploy")
		v.AddConfigPath("$HOME/.storefront")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	l := &Loader{v: v}
	cfg, err := l.unmarshal()
	if err != nil {
		return nil, err
	}
	l.cfg = cfg
	return l, nil
}

// LoadConfig 單純回傳錯誤，由外部決定要不要 Fatal
func LoadConfig(path string) (*Config, error) {
	l, err := NewLoader(path)
	if err != nil {
		return nil, err
	}
	return l.Config(), nil
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (l *Loader) Config() *Config {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg
}

// ConfigFileUsed 沒有使用設定檔時回傳空字串
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Watch 設定檔變動且重新讀取成功時呼叫 onChange
// onErr 可為 nil
func (l *Loader) Watch(onChange func(*Config), onErr func(error)) {
	if l.v.ConfigFileUsed() == "" {
		return
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := l.unmarshal()
		if err != nil {
			if onErr != nil {
				onErr(fmt.Errorf("reload %s: %w", e.Name, err))
			}
			return
		}
		l.mu.Lock()
		l.cfg = cfg
		l.mu.Unlock()
		if onChange != nil {
			onChange(cfg)
		}
	})
	l.v.WatchConfig()
}
