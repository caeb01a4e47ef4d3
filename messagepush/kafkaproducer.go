package messagepush

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"github.com/zkstack-labs/bridgehub-sdk/models"
)

type produceOptions struct {
	topic   string
	pushKey string
}

type produceOptFunc func(opts *produceOptions)

// WithTopic overrides the default topic
func WithTopic(topic string) produceOptFunc {
	return func(opts *produceOptions) {
		opts.topic = topic
	}
}

// WithPushKey overrides the default message key
func WithPushKey(key string) produceOptFunc {
	return func(opts *produceOptions) {
		opts.pushKey = key
	}
}

// KafkaProducer pushes notifications about tracked withdrawals
type KafkaProducer interface {
	Produce(msg interface{}, optFns ...produceOptFunc) error
	PushWithdrawalUpdate(w *models.Withdrawal, optFns ...produceOptFunc) error
	Close() error

	// GetFakeMessages returns the messages from the fake producer
	// Not available for real kafka producer
	GetFakeMessages(topic string) []string
}

const (
	clientID       = "bridgehub-sdk"
	produceRetries = 5
)

type kafkaProducerImpl struct {
	producer       sarama.SyncProducer
	defaultTopic   string
	defaultPushKey string
	bizCode        string
}

// NewKafkaProducer creates the producer selected by the config
func NewKafkaProducer(cfg Config) (KafkaProducer, error) {
	if cfg.BizCode == "" {
		cfg.BizCode = BizCodeWithdrawalUpdate
	}
	if cfg.UseFakeProducer {
		log.Infof("start to init fake kafka producer!")
		return newFakeProducer(cfg), nil
	}
	log.Infof("start to init real kafka producer!")
	saramaCfg, err := newSaramaConfig(cfg)
	if err != nil {
		return nil, err
	}
	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, errors.Wrap(err, "NewKafkaProducer: NewSyncProducer error")
	}
	return newKafkaProducer(producer, cfg), nil
}

// newSaramaConfig waits for every in-sync replica so a pushed status is never lost on leader failover
func newSaramaConfig(cfg Config) (*sarama.Config, error) {
	saramaCfg := sarama.NewConfig()
	saramaCfg.ClientID = clientID
	saramaCfg.Producer.Return.Successes = true
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = produceRetries

	if cfg.Username == "" || cfg.Password == "" || cfg.RootCAPath == "" {
		return saramaCfg, nil
	}
	saramaCfg.Net.SASL.Enable = true
	saramaCfg.Net.SASL.User = cfg.Username
	saramaCfg.Net.SASL.Password = cfg.Password

	rootCA, err := os.ReadFile(cfg.RootCAPath)
	if err != nil {
		return nil, errors.Wrap(err, "read kafka root CA cert")
	}
	caCertPool := x509.NewCertPool()
	if ok := caCertPool.AppendCertsFromPEM(rootCA); !ok {
		return nil, errors.Errorf("no certificate found in %s", cfg.RootCAPath)
	}
	saramaCfg.Net.TLS.Enable = true
	saramaCfg.Net.TLS.Config = &tls.Config{RootCAs: caCertPool, MinVersion: tls.VersionTLS12}
	return saramaCfg, nil
}

func newKafkaProducer(producer sarama.SyncProducer, cfg Config) *kafkaProducerImpl {
	return &kafkaProducerImpl{
		producer:       producer,
		defaultTopic:   cfg.Topic,
		defaultPushKey: cfg.PushKey,
		bizCode:        cfg.BizCode,
	}
}

// Produce send a message to the Kafka topic
// msg should be either a string or an object
// If msg is an object, it will be encoded to JSON before being sent
func (p *kafkaProducerImpl) Produce(msg interface{}, optFns ...produceOptFunc) error {
	if p == nil || p.producer == nil {
		log.Debugf("Kafka producer is nil")
		return nil
	}
	opts := &produceOptions{
		topic:   p.defaultTopic,
		pushKey: p.defaultPushKey,
	}
	for _, f := range optFns {
		f(opts)
	}

	msgString, err := convertMsgToString(msg)
	if err != nil {
		return err
	}

	produceMsg := &sarama.ProducerMessage{
		Topic: opts.topic,
		Value: sarama.StringEncoder(msgString),
	}
	if opts.pushKey != "" {
		produceMsg.Key = sarama.StringEncoder(opts.pushKey)
	}

	partition, offset, err := p.producer.SendMessage(produceMsg)
	if err != nil {
		return errors.Wrap(err, "kafka SendMessage error")
	}

	log.Debugf("Produced to Kafka: topic[%v] msg[%v] partition[%v] offset[%v]", opts.topic, msgString, partition, offset)
	return nil
}

func (p *kafkaProducerImpl) PushWithdrawalUpdate(w *models.Withdrawal, optFns ...produceOptFunc) error {
	if w == nil {
		return nil
	}
	msg, err := buildWithdrawalMessage(p.bizCode, w)
	if err != nil {
		return err
	}
	// updates of one withdrawal share a partition so consumers see them in order
	opts := append([]produceOptFunc{WithPushKey(w.Key())}, optFns...)
	return p.Produce(msg, opts...)
}

func (p *kafkaProducerImpl) Close() error {
	return p.producer.Close()
}

func (p *kafkaProducerImpl) GetFakeMessages(string) []string {
	log.Warnf("GetFakeMessages should only be called from fakeProducer")
	return nil
}
