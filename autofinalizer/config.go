package autofinalizer

import "github.com/0xPolygonHermez/zkevm-node/config/types"

// Config represents the configuration of the AutoFinalizer
type Config struct {
	// FinalizeInterval is time between each iteration
	FinalizeInterval types.Duration `mapstructure:"FinalizeInterval"`
	// FinalizeTxTimeout is how long a sent finalize tx may stay unmined before it is considered dropped
	FinalizeTxTimeout types.Duration `mapstructure:"FinalizeTxTimeout"`
	// MaxAttempts is the number of failed finalization txs after which a withdrawal is marked as failed
	MaxAttempts uint `mapstructure:"MaxAttempts"`
	// BatchSize is the maximum number of pending withdrawals processed per iteration
	BatchSize uint `mapstructure:"BatchSize"`
	// CacheSize is the number of finalized withdrawals remembered in memory
	CacheSize int `mapstructure:"CacheSize"`
}
