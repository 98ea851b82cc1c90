package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
)

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Client wraps the Redis client. It is registered with the startup lifecycle, which
// verifies the connection before the server accepts traffic.
type Client struct {
	cfg    Config
	rdb    *redis.Client
	logger ectologger.Logger
}

// NewClient creates a Redis client. No connection is made until first use.
func NewClient(cfg Config, logger ectologger.Logger) *Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Client{
		cfg:    cfg,
		rdb:    rdb,
		logger: logger,
	}
}

func (c *Client) GetName() string {
	return "redis"
}

func (c *Client) DependsOn() []string {
	return nil
}

func (c *Client) Start(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", c.cfg.Addr(), err)
	}

	c.logger.Infof("Connected to Redis at %s", c.cfg.Addr())
	return nil
}

func (c *Client) Stop(ctx context.Context) error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Del deletes one or more keys
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}
