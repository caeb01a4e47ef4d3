package etherman

// Config represents the configuration of the etherman
type Config struct {
	// L1URL is the RPC endpoint of the settlement layer
	L1URL string `mapstructure:"L1URL"`
	// L2URL is the RPC endpoint of the rollup node, it must expose the zks namespace
	L2URL string `mapstructure:"L2URL"`
}
