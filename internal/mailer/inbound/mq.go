package inbound

import (
	"context"
	"log/slog"
	"slices"

	"github.com/shandysiswandi/mailbus/internal/pkg/config"
	"github.com/shandysiswandi/mailbus/internal/pkg/goroutine"
	"github.com/shandysiswandi/mailbus/internal/pkg/instrument"
	"github.com/shandysiswandi/mailbus/internal/pkg/messaging"
	"github.com/shandysiswandi/mailbus/internal/pkg/uid"
	"github.com/shandysiswandi/mailbus/internal/shared/event"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.mailer.consumer_names")

	var consumers = []struct {
		name              string
		topic             string // destination where publisher sent message
		nsqConsumerName   string // for nsq
		natsConsumerName  string // for nats
		kafkaConsumerName string // for kafka
		handler           messaging.Handler
	}{
		{
			name:              event.MailRequestedConsumerMailer,
			topic:             event.MailRequestedDestination,
			nsqConsumerName:   event.MailRequestedConsumerMailer,
			natsConsumerName:  event.MailRequestedConsumerMailer,
			kafkaConsumerName: event.MailRequestedConsumerMailer,
			handler:           mqHandler.MailRequested,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)
				return messenger.Consume(pCtx,
					consumer.topic,
					consumer.handler,
					messaging.WithChannel(consumer.nsqConsumerName),
					messaging.WithQueueGroup(consumer.natsConsumerName),
					messaging.WithGroup(consumer.kafkaConsumerName),
					messaging.WithAutoAck(true),
					messaging.WithConcurrency(10),
					messaging.WithMaxInFlight(10),
				)
			})
		}
	}
}
