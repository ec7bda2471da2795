package ids

import (
	"encoding/hex"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
	"golang.org/x/crypto/blake2b"
)

const orderPrefix = "ORD-"

// SnowflakeOrderNumbers gera números "ORD-<snowflake>" por nó da API
type SnowflakeOrderNumbers struct {
	node *snowflake.Node
}

// NewSnowflakeOrderNumbers cria o gerador para o nó informado (0..1023)
func NewSnowflakeOrderNumbers(nodeID int64) (*SnowflakeOrderNumbers, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}
	return &SnowflakeOrderNumbers{node: node}, nil
}

func (g *SnowflakeOrderNumbers) NextOrderNumber() string {
	return orderPrefix + g.node.Generate().String()
}

// KSUIDCartTokens emite tokens ksuid e guarda apenas o hash blake2b-256
type KSUIDCartTokens struct{}

func NewKSUIDCartTokens() KSUIDCartTokens {
	return KSUIDCartTokens{}
}

func (KSUIDCartTokens) NewToken() string {
	return ksuid.New().String()
}

func (KSUIDCartTokens) Hash(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
