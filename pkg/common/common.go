package common

import (
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var node *snowflake.Node

func init() {
	var err error
	node, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDString returns a snowflake id in decimal form. Ids are unique and
// increase monotonically within the process.
func UUIDString() string {
	return node.Generate().String()
}

// UUID returns a random RFC 4122 uuid.
func UUID() string {
	return uuid.NewString()
}
