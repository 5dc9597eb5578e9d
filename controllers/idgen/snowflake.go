package idgen

import (
	"fmt"
	"sync"

	"fleetops/types"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	mu   sync.Mutex
)

// Init configures the generator for this process. nodeID must be unique per
// running instance (0..1023).
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return fmt.Errorf("init snowflake node %d: %w", nodeID, err)
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// GenerateID returns a new public reference. It lazily initialises node 1 so
// tests and one-off tools do not have to call Init.
func GenerateID() types.SnowflakeID {
	mu.Lock()
	if node == nil {
		node, _ = snowflake.NewNode(1)
	}
	n := node
	mu.Unlock()
	return types.SnowflakeID(n.Generate().Int64())
}
