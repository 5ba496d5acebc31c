package repositories

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// IDGenerator produces collision-free record ids.
type IDGenerator interface {
	NewID() string
}

type uuidGenerator struct{}

// NewUUIDGenerator returns a generator of random (v4) UUIDs.
func NewUUIDGenerator() IDGenerator {
	return uuidGenerator{}
}

func (uuidGenerator) NewID() string {
	return uuid.NewString()
}

type snowflakeGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeGenerator returns a generator of time-ordered snowflake ids for the given node (0-1023).
func NewSnowflakeGenerator(nodeID int64) (IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node %d: %w", nodeID, err)
	}
	return &snowflakeGenerator{node: node}, nil
}

func (g *snowflakeGenerator) NewID() string {
	return g.node.Generate().String()
}
