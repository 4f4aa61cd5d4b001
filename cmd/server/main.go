package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eduplay/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	upstreamURL = configVar[string]{
		envKey:       "SERVER_UPSTREAM_URL",
		flagKey:      "upstream-url",
		defaultValue: "http://localhost:8000",
	}
	appOrigin = configVar[string]{
		envKey:       "SERVER_APP_ORIGIN",
		flagKey:      "app-origin",
		defaultValue: "http://localhost:3000",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	pageLimit = configVar[int]{
		envKey:       "SERVER_PAGE_LIMIT",
		flagKey:      "page-limit",
		defaultValue: 8,
	}
	cacheTTLHours = configVar[int]{
		envKey:       "SERVER_CACHE_TTL_HOURS",
		flagKey:      "cache-ttl-hours",
		defaultValue: 24,
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(upstreamURL.flagKey, upstreamURL.defaultValue, "Base URL of the video API")
	pflag.String(appOrigin.flagKey, appOrigin.defaultValue, "Origin the frontend is served from")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.Int(pageLimit.flagKey, pageLimit.defaultValue, "Number of videos per page")
	pflag.Int(cacheTTLHours.flagKey, cacheTTLHours.defaultValue, "Cache entry lifetime in hours")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(upstreamURL.flagKey, upstreamURL.envKey)
	viper.BindEnv(appOrigin.flagKey, appOrigin.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(pageLimit.flagKey, pageLimit.envKey)
	viper.BindEnv(cacheTTLHours.flagKey, cacheTTLHours.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(upstreamURL.flagKey, upstreamURL.defaultValue)
	viper.SetDefault(appOrigin.flagKey, appOrigin.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(pageLimit.flagKey, pageLimit.defaultValue)
	viper.SetDefault(cacheTTLHours.flagKey, cacheTTLHours.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		UpstreamURL:   viper.GetString(upstreamURL.flagKey),
		AppOrigin:     viper.GetString(appOrigin.flagKey),
		Host:          viper.GetString(host.flagKey),
		Port:          viper.GetInt(port.flagKey),
		LogLevel:      viper.GetString(logLevel.flagKey),
		PageLimit:     viper.GetInt(pageLimit.flagKey),
		CacheTTLHours: viper.GetInt(cacheTTLHours.flagKey),
		RedisPort:     viper.GetInt(redisPort.flagKey),
		RedisHost:     viper.GetString(redisHost.flagKey),
		RedisPassword: viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatal(err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
