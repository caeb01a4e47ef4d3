package bridge

import "github.com/0xPolygonHermez/zkevm-node/config/types"

// Config represents the configuration of the bridge adapter
type Config struct {
	// TxMinedTimeout bounds the wait for approvals and priority operations to be mined
	TxMinedTimeout types.Duration `mapstructure:"TxMinedTimeout"`
}
