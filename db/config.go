package db

import "github.com/zkstack-labs/bridgehub-sdk/redisstorage"

// Config struct
type Config struct {
	// Database type, postgres or redis
	Database string `mapstructure:"Database"`

	// Database name
	Name string `mapstructure:"Name"`

	// User name
	User string `mapstructure:"User"`

	// Password of the user
	Password string `mapstructure:"Password"`

	// Host address
	Host string `mapstructure:"Host"`

	// Port Number
	Port string `mapstructure:"Port"`

	// MaxConns is the maximum number of connections in the pool.
	MaxConns int `mapstructure:"MaxConns"`

	// Redis is used when Database is redis
	Redis redisstorage.Config `mapstructure:"Redis"`
}
