package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/0xPolygonHermez/zkevm-node/log"
	"github.com/urfave/cli/v2"
	"github.com/zkstack-labs/bridgehub-sdk/config"
	"github.com/zkstack-labs/bridgehub-sdk/messagepush"
	"github.com/zkstack-labs/bridgehub-sdk/metrics"
)

func start(ctx *cli.Context) error {
	c, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	runCtx, cancel := context.WithCancel(ctx.Context)
	defer cancel()

	adapter, err := newAdapter(runCtx, c)
	if err != nil {
		log.Error(err)
		return err
	}
	af, err := newAutoFinalizer(runCtx, c, adapter)
	if err != nil {
		log.Error(err)
		return err
	}

	if c.Metrics.Enabled {
		go metrics.StartMetricsHttpServer(runCtx, c.Metrics)
	}
	go af.Start()
	log.Infof("auto finalizer started for signer %s", adapter.Address())

	// Wait for an in interrupt.
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	<-ch

	return nil
}

func newProducer(c *config.Config) (messagepush.KafkaProducer, error) {
	if !c.MessagePush.Enabled {
		return nil, nil
	}
	producer, err := messagepush.NewKafkaProducer(c.MessagePush)
	if err != nil {
		log.Errorf("error creating the kafka producer: %v", err)
		return nil, err
	}
	return producer, nil
}
