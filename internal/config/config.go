package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	Telegram struct {
		Token      string
		PollSec    int `mapstructure:"poll_sec"`
		GoodsPage  int `mapstructure:"goods_page"`  // товаров на странице
		PricesPage int `mapstructure:"prices_page"` // цен на странице
	} `mapstructure:"telegram"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Payroll struct {
		Base              int     `mapstructure:"base"`
		CommissionRate    float64 `mapstructure:"commission_rate"`
		BonusThreshold    int     `mapstructure:"bonus_threshold"`
		BonusPerThreshold int     `mapstructure:"bonus_per_threshold"`
		Forecast          bool    `mapstructure:"forecast"`
	} `mapstructure:"payroll"`
}

func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	// Переопределение через ENV: APP_TELEGRAM_TOKEN и т.п.
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("telegram.poll_sec", 30)
	v.SetDefault("telegram.goods_page", 15)
	v.SetDefault("telegram.prices_page", 15)
	v.SetDefault("payroll.forecast", true)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
