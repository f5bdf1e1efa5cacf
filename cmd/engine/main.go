package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/moovidex/engine/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	port = configVar[int]{
		envKey:       "ENGINE_PORT",
		flagKey:      "port",
		defaultValue: 8080,
	}
	host = configVar[string]{
		envKey:       "ENGINE_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	logLevel = configVar[string]{
		envKey:       "ENGINE_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	apiBaseURL = configVar[string]{
		envKey:       "ENGINE_API_BASE_URL",
		flagKey:      "api-base-url",
		defaultValue: "",
	}
	imageCDNBaseURL = configVar[string]{
		envKey:       "ENGINE_IMAGE_CDN_BASE_URL",
		flagKey:      "image-cdn-base-url",
		defaultValue: "https://image.tmdb.org",
	}
	requestTimeoutSeconds = configVar[int]{
		envKey:       "ENGINE_REQUEST_TIMEOUT_SECONDS",
		flagKey:      "request-timeout-seconds",
		defaultValue: 10,
	}
	searchDebounceMs = configVar[int]{
		envKey:       "ENGINE_SEARCH_DEBOUNCE_MS",
		flagKey:      "search-debounce-ms",
		defaultValue: 200,
	}
	minQueryLength = configVar[int]{
		envKey:       "ENGINE_MIN_QUERY_LENGTH",
		flagKey:      "min-query-length",
		defaultValue: 3,
	}
	idleHideSeconds = configVar[int]{
		envKey:       "ENGINE_IDLE_HIDE_SECONDS",
		flagKey:      "idle-hide-seconds",
		defaultValue: 3,
	}
	tokenRefreshHours = configVar[int]{
		envKey:       "ENGINE_TOKEN_REFRESH_HOURS",
		flagKey:      "token-refresh-hours",
		defaultValue: 6,
	}
	strmDir = configVar[string]{
		envKey:       "ENGINE_STRM_DIR",
		flagKey:      "strm-dir",
		defaultValue: "",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(apiBaseURL.flagKey, apiBaseURL.defaultValue, "Catalog backend base URL")
	pflag.String(imageCDNBaseURL.flagKey, imageCDNBaseURL.defaultValue, "Image CDN base URL")
	pflag.Int(requestTimeoutSeconds.flagKey, requestTimeoutSeconds.defaultValue, "Catalog request timeout in seconds")
	pflag.Int(searchDebounceMs.flagKey, searchDebounceMs.defaultValue, "Search debounce in milliseconds")
	pflag.Int(minQueryLength.flagKey, minQueryLength.defaultValue, "Minimum search query length")
	pflag.Int(idleHideSeconds.flagKey, idleHideSeconds.defaultValue, "Seconds of inactivity before controls hide")
	pflag.Int(tokenRefreshHours.flagKey, tokenRefreshHours.defaultValue, "Stream token refresh interval in hours")
	pflag.String(strmDir.flagKey, strmDir.defaultValue, "Directory for exported .strm files")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host (empty keeps resume markers in memory)")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(apiBaseURL.flagKey, apiBaseURL.envKey)
	viper.BindEnv(imageCDNBaseURL.flagKey, imageCDNBaseURL.envKey)
	viper.BindEnv(requestTimeoutSeconds.flagKey, requestTimeoutSeconds.envKey)
	viper.BindEnv(searchDebounceMs.flagKey, searchDebounceMs.envKey)
	viper.BindEnv(minQueryLength.flagKey, minQueryLength.envKey)
	viper.BindEnv(idleHideSeconds.flagKey, idleHideSeconds.envKey)
	viper.BindEnv(tokenRefreshHours.flagKey, tokenRefreshHours.envKey)
	viper.BindEnv(strmDir.flagKey, strmDir.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(apiBaseURL.flagKey, apiBaseURL.defaultValue)
	viper.SetDefault(imageCDNBaseURL.flagKey, imageCDNBaseURL.defaultValue)
	viper.SetDefault(requestTimeoutSeconds.flagKey, requestTimeoutSeconds.defaultValue)
	viper.SetDefault(searchDebounceMs.flagKey, searchDebounceMs.defaultValue)
	viper.SetDefault(minQueryLength.flagKey, minQueryLength.defaultValue)
	viper.SetDefault(idleHideSeconds.flagKey, idleHideSeconds.defaultValue)
	viper.SetDefault(tokenRefreshHours.flagKey, tokenRefreshHours.defaultValue)
	viper.SetDefault(strmDir.flagKey, strmDir.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	config := &app.AppConfig{
		Host:                 viper.GetString(host.flagKey),
		Port:                 viper.GetInt(port.flagKey),
		LogLevel:             viper.GetString(logLevel.flagKey),
		APIBaseURL:           viper.GetString(apiBaseURL.flagKey),
		ImageCDNBaseURL:      viper.GetString(imageCDNBaseURL.flagKey),
		RequestTimeout:       time.Duration(viper.GetInt(requestTimeoutSeconds.flagKey)) * time.Second,
		SearchDebounce:       time.Duration(viper.GetInt(searchDebounceMs.flagKey)) * time.Millisecond,
		MinQueryLength:       viper.GetInt(minQueryLength.flagKey),
		IdleHideDelay:        time.Duration(viper.GetInt(idleHideSeconds.flagKey)) * time.Second,
		TokenRefreshInterval: time.Duration(viper.GetInt(tokenRefreshHours.flagKey)) * time.Hour,
		StrmDir:              viper.GetString(strmDir.flagKey),
		RedisPort:            viper.GetInt(redisPort.flagKey),
		RedisHost:            viper.GetString(redisHost.flagKey),
		RedisPassword:        viper.GetString(redisPassword.flagKey),
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
