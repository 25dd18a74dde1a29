package uid

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	mu   sync.Mutex
)

// Init configures the snowflake node backing every primary key in the database.
// Subsequent calls are ignored once a node exists.
func Init(machineID int64) error {
	mu.Lock()
	defer mu.Unlock()

	if node != nil {
		return nil
	}

	n, err := snowflake.NewNode(machineID)
	if err != nil {
		return fmt.Errorf("failed to initialize snowflake node: %w", err)
	}
	node = n
	return nil
}

func Generate() int64 {
	mu.Lock()
	n := node
	mu.Unlock()

	if n == nil {
		panic("uid: Init must be called before Generate")
	}
	return n.Generate().Int64()
}
