package configuration

import (
	"fmt"
	"os"
	"strconv"

	"media-catalog/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Cache       Cache       `json:"cache"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	MediaStore  MediaStore  `json:"mediaStore"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port        int    `json:"port"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type Database struct {
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Password     string `json:"password"`
	DatabaseName string `json:"databaseName"`
	Username     string `json:"username"`
}

type Cache struct {
	// TTLSeconds bounds how long listing and entity payloads live in Redis
	TTLSeconds int `json:"ttlSeconds"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type MediaStore struct {
	Host   string `json:"host"`
	APIKey string `json:"apiKey"`
	Folder string `json:"folder"`
}

type Logger struct {
	Format string `json:"format"`
}

var C Config

func init() {
	LoadEnvFromFile("config.env", ".env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if C.Database.Mongo.Name == "" {
		C.Database.Mongo.Name = os.Getenv("MONGO_DB_NAME")
	}
	if C.Database.Mongo.Host == "" {
		C.Database.Mongo.Host = os.Getenv("MONGO_HOST")
	}
	if C.Database.Mongo.Port == "" {
		C.Database.Mongo.Port = os.Getenv("MONGO_PORT")
	}
	if C.Database.Mongo.User == "" {
		C.Database.Mongo.User = os.Getenv("MONGO_USER")
	}
	if C.Database.Mongo.Password == "" {
		C.Database.Mongo.Password = os.Getenv("MONGO_PASSWORD")
	}

	if C.RedisClient.Host == "" {
		C.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = os.Getenv("REDIS_PORT")
	}
	if C.RedisClient.Username == "" {
		C.RedisClient.Username = os.Getenv("REDIS_USERNAME")
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func initApp(C *Config) {
	if C.App.Port == 0 {
		if p := os.Getenv("APP_PORT"); p != "" {
			if port, err := strconv.Atoi(p); err == nil {
				C.App.Port = port
			}
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8080
	}
	if C.Cache.TTLSeconds == 0 {
		if t := os.Getenv("CACHE_TTL_SECONDS"); t != "" {
			if ttl, err := strconv.Atoi(t); err == nil {
				C.Cache.TTLSeconds = ttl
			}
		}
	}
	if C.Pubsub.ProjectID == "" {
		C.Pubsub.ProjectID = os.Getenv("PUBSUB_PROJECT_ID")
	}
	if C.ServiceBus.Namespace == "" {
		C.ServiceBus.Namespace = os.Getenv("SERVICEBUS_NAMESPACE")
	}
	if C.MediaStore.Host == "" {
		C.MediaStore.Host = os.Getenv("MEDIA_STORE_HOST")
	}
	if C.MediaStore.APIKey == "" {
		C.MediaStore.APIKey = os.Getenv("MEDIA_STORE_API_KEY")
	}
}
