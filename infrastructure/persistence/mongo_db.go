package persistence

import (
	"fmt"

	"media-catalog/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// NewMongoDb connects the record store client once at process start
func NewMongoDb(host, port, user, password, name string) (*mongo.Client, error) {
	uri := fmt.Sprintf("mongodb://%s:%s", host, port)
	if user != "" {
		uri = fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin", user, password, host, port, name)
	}

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot connect to MongoDB")
		return nil, err
	}
	return client, nil
}
