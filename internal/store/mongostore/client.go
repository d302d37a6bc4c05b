// Package mongostore persists manifests and the change log to MongoDB,
// translating driver errors into domain sentinel errors at the boundary.
package mongostore

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Client lazily connects to MongoDB on first use rather than at process
// init, so a prefork server model never opens a connection in the parent
// before it forks workers.
type Client struct {
	dsn    string
	dbName string

	mu     sync.Mutex
	client *mongo.Client
}

// NewClient returns a Client that has not yet connected.
func NewClient(dsn, dbName string) *Client {
	return &Client{dsn: dsn, dbName: dbName}
}

// Database returns the target database, connecting on the first call.
func (c *Client) Database(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(c.dsn))
		if err != nil {
			return nil, err
		}
		c.client = client
	}
	return c.client.Database(c.dbName), nil
}

// Disconnect closes the underlying connection, if one was ever opened.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Disconnect(ctx)
	c.client = nil
	return err
}
