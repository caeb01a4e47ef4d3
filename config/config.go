package config

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/0xPolygonHermez/zkevm-node/config/types"
	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/zkstack-labs/bridgehub-sdk/autofinalizer"
	"github.com/zkstack-labs/bridgehub-sdk/bridge"
	"github.com/zkstack-labs/bridgehub-sdk/db"
	"github.com/zkstack-labs/bridgehub-sdk/etherman"
	"github.com/zkstack-labs/bridgehub-sdk/messagepush"
	"github.com/zkstack-labs/bridgehub-sdk/metrics"
)

const envPrefix = "BRIDGEHUB_SDK"

// SignerConfig holds the key used to sign L1 and L2 transactions. The hex key
// takes precedence over the keystore when set.
type SignerConfig struct {
	PrivateKey    types.KeystoreFileConfig `mapstructure:"PrivateKey"`
	HexPrivateKey string                   `mapstructure:"HexPrivateKey"`
}

// Config struct
type Config struct {
	Log           log.Config
	Etherman      etherman.Config
	Signer        SignerConfig
	Bridge        bridge.Config
	AutoFinalizer autofinalizer.Config
	Storage       db.Config
	Metrics       metrics.Config
	MessagePush   messagepush.Config
}

// Default parses the default configuration values.
func Default() (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewBufferString(DefaultValues)); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHooks()...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads the configuration. Values are taken from the defaults, then the
// file, then the environment variables prefixed with BRIDGEHUB_SDK.
func Load(configFilePath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewBufferString(DefaultValues)); err != nil {
		return nil, err
	}

	if configFilePath != "" {
		dirName, fileName := filepath.Split(configFilePath)

		fileExtension := strings.TrimPrefix(filepath.Ext(fileName), ".")
		fileNameWithoutExtension := strings.TrimSuffix(fileName, "."+fileExtension)

		v.AddConfigPath(dirName)
		v.SetConfigName(fileNameWithoutExtension)
		v.SetConfigType(fileExtension)
		if err := v.MergeInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Infof("config file not found")
			} else {
				log.Infof("error reading config file: %v", err)
				return nil, err
			}
		}
	}

	v.AutomaticEnv()
	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.SetEnvPrefix(envPrefix)

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHooks()...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeHooks() []viper.DecoderConfigOption {
	return []viper.DecoderConfigOption{
		// this allows arrays to be decoded from env var separated by ",", e.g. MY_VAR="value1,value2,value3"
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(mapstructure.TextUnmarshallerHookFunc(), mapstructure.StringToSliceHookFunc(","))),
	}
}
