package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	connectTimeout  = 10 * time.Second
	defaultDatabase = "leetracker"
)

var errNoClient = errors.New("mongo client not connected")

// Client is a connected driver client that has answered a ping.
type Client struct{ raw *mongo.Client }

// NewClient connects to uri and pings the primary before returning.
func NewClient(ctx context.Context, uri string) (*Client, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName("leetracker").
		SetServerSelectionTimeout(connectTimeout)
	raw, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := raw.Ping(ctx, readpref.Primary()); err != nil {
		raw.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Client{raw: raw}, nil
}

// DB returns the named database, "leetracker" when name is empty.
func (c *Client) DB(name string) (*mongo.Database, error) {
	if c == nil || c.raw == nil {
		return nil, errNoClient
	}
	if name == "" {
		name = defaultDatabase
	}
	return c.raw.Database(name), nil
}

// Disconnect is safe on a nil client.
func (c *Client) Disconnect(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Disconnect(ctx)
}
