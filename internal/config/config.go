package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Host        string `mapstructure:"host"`
		Port        int    `mapstructure:"port"`
		APIPrefix   string `mapstructure:"api_prefix"`
		MetricsPort string `mapstructure:"metrics_port"`
		LogLevel    string `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Containers struct {
		Engine    string `mapstructure:"engine"`
		Scheduler string `mapstructure:"scheduler"`
	} `mapstructure:"containers"`
	Scheduler struct {
		BaseURL     string `mapstructure:"base_url"`
		NowEndpoint string `mapstructure:"now_endpoint"`
	} `mapstructure:"scheduler"`
	Icecast struct {
		Scheme     string `mapstructure:"scheme"`
		Host       string `mapstructure:"host"`
		Port       int    `mapstructure:"port"`
		Mount      string `mapstructure:"mount"`
		StatusPath string `mapstructure:"status_path"`
		PublicURL  string `mapstructure:"public_url"`
	} `mapstructure:"icecast"`
	Compose struct {
		Path             string `mapstructure:"path"`
		ServiceEngine    string `mapstructure:"service_engine"`
		ServiceScheduler string `mapstructure:"service_scheduler"`
		ProjectDir       string `mapstructure:"project_dir"`
		EnvFile          string `mapstructure:"env_file"`
		ImageRepo        string `mapstructure:"image_repo"`
		TagKey           string `mapstructure:"tag_key"`
	} `mapstructure:"compose"`
	Logs struct {
		TailDefault int `mapstructure:"tail_default"`
		TailMax     int `mapstructure:"tail_max"`
	} `mapstructure:"logs"`
	Reconcile struct {
		UpcomingLimit       int `mapstructure:"upcoming_limit"`
		RecentWindowSeconds int `mapstructure:"recent_window_seconds"`
	} `mapstructure:"reconcile"`
	Auth struct {
		Secret string `mapstructure:"secret"`
	} `mapstructure:"auth"`
}

func Load() *Config {
	viper.SetEnvPrefix("CONTROL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("server.host")
	viper.BindEnv("server.port")
	viper.BindEnv("server.api_prefix")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.log_level")
	viper.BindEnv("containers.engine")
	viper.BindEnv("containers.scheduler")
	viper.BindEnv("scheduler.base_url")
	viper.BindEnv("scheduler.now_endpoint")
	viper.BindEnv("icecast.scheme")
	viper.BindEnv("icecast.host")
	viper.BindEnv("icecast.port")
	viper.BindEnv("icecast.mount")
	viper.BindEnv("icecast.status_path")
	viper.BindEnv("icecast.public_url")
	viper.BindEnv("compose.path")
	viper.BindEnv("compose.service_engine")
	viper.BindEnv("compose.service_scheduler")
	viper.BindEnv("compose.project_dir")
	viper.BindEnv("compose.env_file")
	viper.BindEnv("compose.image_repo")
	viper.BindEnv("compose.tag_key")
	viper.BindEnv("logs.tail_default")
	viper.BindEnv("logs.tail_max")
	viper.BindEnv("reconcile.upcoming_limit")
	viper.BindEnv("reconcile.recent_window_seconds")
	viper.BindEnv("auth.secret")

	// Defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8088)
	viper.SetDefault("server.api_prefix", "/api")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.log_level", "info")
	viper.SetDefault("containers.engine", "azursmartmix_engine")
	viper.SetDefault("containers.scheduler", "azursmartmix_scheduler")
	viper.SetDefault("scheduler.base_url", "http://azursmartmix_scheduler:8001")
	viper.SetDefault("icecast.scheme", "http")
	viper.SetDefault("icecast.host", "web")
	viper.SetDefault("icecast.port", 8000)
	viper.SetDefault("icecast.mount", "/gst-test.mp3")
	viper.SetDefault("icecast.status_path", "/status-json.xsl")
	viper.SetDefault("compose.path", "/compose/docker-compose.yml")
	viper.SetDefault("compose.service_engine", "azursmartmix_engine")
	viper.SetDefault("compose.service_scheduler", "azursmartmix_scheduler")
	viper.SetDefault("compose.project_dir", "/compose")
	viper.SetDefault("compose.env_file", "/compose/.env")
	viper.SetDefault("compose.image_repo", "chourmovs/azursmartmix")
	viper.SetDefault("compose.tag_key", "ENGINE_IMAGE_TAG")
	viper.SetDefault("logs.tail_default", 400)
	viper.SetDefault("logs.tail_max", 2000)
	viper.SetDefault("reconcile.upcoming_limit", 10)
	viper.SetDefault("reconcile.recent_window_seconds", 10)

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/azursmartmix-control/")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	return &cfg
}
