package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoOptions MongoDB 属性源选项
type MongoOptions struct {
	Uri        string
	Username   string
	Password   string
	Database   string
	Collection string        // 默认 "properties"
	Timeout    time.Duration // 默认 10 秒
}

func (o MongoOptions) withDefaults() MongoOptions {
	if o.Collection == "" {
		o.Collection = "properties"
	}
	if o.Timeout == 0 {
		o.Timeout = 10 * time.Second
	}
	return o
}

// Validate 验证配置
func (o MongoOptions) Validate() error {
	if o.Uri == "" {
		return fmt.Errorf("mongo uri is required")
	}
	if o.Database == "" {
		return fmt.Errorf("mongo database is required")
	}
	return nil
}

// mongoProperty 是集合中的一个 {key, value} 文档。
type mongoProperty struct {
	Key   string `bson:"key"`
	Value any    `bson:"value"`
}

// MongoSource 从 MongoDB 集合读取 {key, value} 文档。
type MongoSource struct {
	Options MongoOptions
}

func (s *MongoSource) Name() string {
	return fmt.Sprintf("Mongo(%s.%s)", s.Options.Database, s.Options.Collection)
}

func (s *MongoSource) Load() (map[string]any, error) {
	if err := s.Options.Validate(); err != nil {
		return nil, err
	}

	clientOpts := options.Client().ApplyURI(s.Options.Uri).SetTimeout(s.Options.Timeout)
	if s.Options.Username != "" || s.Options.Password != "" {
		clientOpts.SetAuth(options.Credential{
			Username: s.Options.Username,
			Password: s.Options.Password,
		})
	}

	client, err := mongo.Connect(clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.Options.Timeout)
	defer cancel()
	defer client.Disconnect(ctx)

	coll := client.Database(s.Options.Database).Collection(s.Options.Collection)
	return loadMongoProperties(ctx, coll)
}

func loadMongoProperties(ctx context.Context, coll *mongo.Collection) (map[string]any, error) {
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", coll.Name(), err)
	}

	var docs []mongoProperty
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}

	result := make(map[string]any, len(docs))
	for _, doc := range docs {
		if doc.Key == "" {
			continue
		}
		result[doc.Key] = doc.Value
	}
	return result, nil
}
