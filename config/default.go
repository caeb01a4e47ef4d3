package config

// DefaultValues is the default configuration
const DefaultValues = `
[Log]
Level = "info"
Outputs = ["stderr"]

[Etherman]
L1URL = "http://localhost:8545"
L2URL = "http://localhost:3050"

[Signer]
PrivateKey = {Path = "", Password = ""}
HexPrivateKey = ""

[Bridge]
TxMinedTimeout = "2m"

[AutoFinalizer]
FinalizeInterval = "1m"
FinalizeTxTimeout = "10m"
MaxAttempts = 5
BatchSize = 100
CacheSize = 1000

[Storage]
Database = "postgres"
User = "test_user"
Password = "test_password"
Name = "test_db"
Host = "localhost"
Port = "5432"
MaxConns = 20
	[Storage.Redis]
	IsClusterMode = false
	Addrs = ["localhost:6379"]
	Username = ""
	Password = ""
	DB = 0
	KeyPrefix = "bridgehub"

[Metrics]
Enabled = false
Port = "9091"
Endpoint = "/metrics"
Env = ""

[MessagePush]
Enabled = false
UseFakeProducer = false
Brokers = ["localhost:9092"]
Topic = "bridgehub_withdrawal"
PushKey = ""
BizCode = "bridgehub_withdrawal"
`
