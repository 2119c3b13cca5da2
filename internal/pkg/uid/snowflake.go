package uid

import "github.com/bwmarrin/snowflake"

// Snowflake generates sortable int64 IDs using a snowflake node.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake creates a generator for the given node number.
func NewSnowflake(nodeNumber int64) (*Snowflake, error) {
	node, err := snowflake.NewNode(nodeNumber)
	if err != nil {
		return nil, err
	}
	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
