package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/corray333/backend-labs/orderdesk/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func MustInit() {
	if err := godotenv.Load("./.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("error while loading .env file: " + err.Error())
	}

	SetDefaults()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/orderdesk")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("ORDERDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		panic("error while reading config file: " + err.Error())
	}
	SetupLogger()
}

// SetDefaults registers the values used when config.yaml leaves a key out.
func SetDefaults() {
	viper.SetDefault("server.http.port", "8080")
	viper.SetDefault("server.grpc.port", "9090")
	viper.SetDefault("api.timeout_seconds", 10)
	viper.SetDefault("catalog.client_search_limit", 50)
	viper.SetDefault("catalog.refresh_interval_seconds", 300)
	viper.SetDefault("display.currency", "ARS")
	viper.SetDefault("audit.enabled", false)
	viper.SetDefault("audit.queue", "orderdesk.order.submitted")
	viper.SetDefault("rabbitmq.host", "rabbitmq")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("logger.level", "info")
}

func SetupLogger() {
	handler := logger.NewHandler(&slog.HandlerOptions{
		Level: logger.ParseLevel(viper.GetString("logger.level")),
	})
	log := slog.New(handler)
	slog.SetDefault(log)
}
