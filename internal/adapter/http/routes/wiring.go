package routes

import (
	"context"
	"fmt"

	"invoice_ledger/internal/adapter/http/handlers"
	"invoice_ledger/internal/adapter/messaging"
	"invoice_ledger/internal/adapter/persistence/postgres"
	"invoice_ledger/internal/adapter/persistence/repository"
	"invoice_ledger/internal/domain/entities"
	"invoice_ledger/internal/infrastructure/config"
	"invoice_ledger/internal/infrastructure/database"
	"invoice_ledger/internal/infrastructure/logger"
	"invoice_ledger/internal/infrastructure/notification"
	"invoice_ledger/internal/infrastructure/payments"
	"invoice_ledger/internal/usecase"
	"invoice_ledger/internal/usecase/interfaces"
)

type application struct {
	invoiceHandler    *handlers.InvoiceHandler
	collectionHandler *handlers.CollectionHandler
	closers           []func() error
}

func (a *application) Close() {
	log := logger.WithComponent("server")
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

// buildApplication wires stores, the event bus and the use cases. The
// notification dispatcher runs in the background until ctx is done.
func buildApplication(ctx context.Context, cfg config.Config) (*application, error) {
	app := &application{}

	repo, refs, err := buildStores(ctx, cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	notificationUseCase := usecase.NewNotificationUseCase(repo, notification.JSONDocumentRenderer{}, notification.NewLogNotifier())
	publisher, err := buildEventBus(ctx, cfg, app, messaging.InvoiceSentHandler(notificationUseCase.HandleInvoiceSent))
	if err != nil {
		app.Close()
		return nil, err
	}

	invoiceUseCase := usecase.NewInvoiceUseCase(repo, refs, publisher,
		usecase.WithNumberFormat(entities.NumberFormat(cfg.NumberFormat)),
		usecase.WithMaxAttempts(cfg.NumberingMaxAttempts),
	)

	log := logger.WithComponent("server")
	var gateway interfaces.IPaymentGateway
	mpGateway, err := payments.NewMercadoPagoGateway(cfg.MercadoPagoAccessToken, cfg.PaymentGatewayMock)
	if err != nil {
		log.Warn().Err(err).Msg("mercado pago gateway not configured")
	} else {
		gateway = mpGateway
	}
	collectionUseCase := usecase.NewCollectionUseCase(invoiceUseCase, gateway, cfg.PaymentGatewayMock)

	app.invoiceHandler = handlers.NewInvoiceHandler(invoiceUseCase)
	app.collectionHandler = handlers.NewCollectionHandler(collectionUseCase, cfg.PaymentGatewayMock)
	return app, nil
}

func buildStores(ctx context.Context, cfg config.Config, app *application) (interfaces.IInvoiceRepository, interfaces.IReferenceResolver, error) {
	switch cfg.InvoiceStore {
	case config.StoreDynamoDB:
		ddb, err := database.ConnectDynamoDB(ctx)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewInvoiceDynamoRepository(ddb), repository.NewReferenceDynamoResolver(ddb), nil
	case config.StorePostgres:
		db, err := database.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		app.closers = append(app.closers, db.Close)
		return postgres.NewInvoicePostgresRepository(db), postgres.NewReferencePostgresResolver(db), nil
	case config.StoreMemory:
		return repository.NewInvoiceMemoryRepository(), repository.NewReferenceMemoryResolver(), nil
	}
	return nil, nil, fmt.Errorf("unsupported INVOICE_STORE %q", cfg.InvoiceStore)
}

func buildEventBus(ctx context.Context, cfg config.Config, app *application, handle messaging.HandlerFunc) (interfaces.IEventPublisher, error) {
	log := logger.WithComponent("server")

	switch cfg.EventBus {
	case config.EventBusRabbitMQ:
		pubClient, err := messaging.NewRabbitMQClient(cfg.RabbitMQURL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, pubClient.Close)
		publisher, err := messaging.NewRabbitMQPublisher(pubClient, cfg.InvoiceEventsQueue)
		if err != nil {
			return nil, err
		}

		consumerClient, err := messaging.NewRabbitMQClient(cfg.RabbitMQURL)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, consumerClient.Close)
		if err := consumerClient.DeclareQueue(cfg.InvoiceEventsQueue); err != nil {
			return nil, err
		}
		deliveries, err := consumerClient.Consume(cfg.InvoiceEventsQueue, cfg.NotifierWorkers)
		if err != nil {
			return nil, err
		}
		go messaging.RunConsumer(ctx, deliveries, cfg.NotifierWorkers, handle)
		return publisher, nil

	case config.EventBusKafka:
		publisher := messaging.NewKafkaPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		app.closers = append(app.closers, publisher.Close)

		reader := messaging.NewKafkaReader(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaGroupID)
		app.closers = append(app.closers, reader.Close)
		go func() {
			if err := messaging.RunKafkaConsumer(ctx, reader, handle); err != nil {
				log.Error().Err(err).Msg("kafka consumer stopped")
			}
		}()
		return publisher, nil

	case config.EventBusNone:
		log.Warn().Msg("no event bus configured, sent invoices will not be announced")
		return nil, nil
	}
	return nil, fmt.Errorf("unsupported EVENT_BUS %q", cfg.EventBus)
}
