package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smarthealth-service/internal/app/config"
	"smarthealth-service/internal/app/delivery/http/controllers"
	"smarthealth-service/internal/app/delivery/http/middlewares"
	"smarthealth-service/internal/app/delivery/http/routers"
	"smarthealth-service/internal/app/drivers/database"
	"smarthealth-service/internal/app/drivers/logger"
	"smarthealth-service/internal/app/drivers/messaging"
	"smarthealth-service/internal/app/drivers/storage"
	"smarthealth-service/internal/app/services/core/callqueue"
	"smarthealth-service/internal/app/services/core/cases"
	"smarthealth-service/internal/app/services/core/doctors"
	"smarthealth-service/internal/app/services/core/offers"
	"smarthealth-service/internal/app/services/core/payments"
	"smarthealth-service/internal/app/services/core/sessions"
	"smarthealth-service/internal/app/services/core/smsinbound"
	"smarthealth-service/internal/app/services/core/subscribers"
	"smarthealth-service/internal/app/services/core/transactions"
	"smarthealth-service/internal/app/services/core/ussd"
	"smarthealth-service/internal/app/services/core/voice"
	"smarthealth-service/internal/app/services/shared/locker"
	paymentgateway "smarthealth-service/internal/app/services/shared/payment_gateway"
	"smarthealth-service/internal/app/services/shared/ratelimiter"
	"smarthealth-service/internal/app/services/shared/recordings"
	redisrepo "smarthealth-service/internal/app/services/shared/redis"
	"smarthealth-service/internal/app/services/shared/sms"
	"smarthealth-service/internal/app/services/shared/smsqueue"
	"smarthealth-service/internal/app/services/shared/sweeper"
	"smarthealth-service/internal/app/services/shared/voicedialer"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewLogrusLogger(internalConfig)
	zapLogger := logger.NewZapLogger(driverConfig, internalConfig)

	mongoClient := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)
	minioClient := storage.NewMinio(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrap := &config.Bootstrap{
		Router:         chiRouter,
		MongoClient:    mongoClient,
		Redis:          redisClient,
		RabbitMQ:       rabbitConn,
		Minio:          minioClient,
		Logger:         zapLogger,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	if err := bootstrapTheApp(bootstrap); err != nil {
		log.Fatalf("Failed to bootstrap application: %v", err)
	}

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	logrus.Println("Waiting for pending requests that already received by server to be processed..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Failed to shutdown cleanly: %v", err)
	}

	log.Println("Server exiting")
}

func bootstrapTheApp(bootstrap *config.Bootstrap) error {
	internalConfig := bootstrap.InternalConfig
	zapLogger := bootstrap.Logger
	dbName := bootstrap.DriverConfig.MongoDB.DbName

	// Shared infrastructure
	redisRepository := redisrepo.NewRedisRepository(bootstrap.Redis)
	lockerService := locker.NewLockService(redisRepository, zapLogger)
	attemptLimiter := ratelimiter.NewAttemptLimiter(
		redisRepository,
		zapLogger,
		internalConfig.App.LoginMaxAttempts,
		time.Duration(internalConfig.App.LoginAttemptWindowInMinute)*time.Minute,
	)

	smsQueue, err := smsqueue.NewService(
		bootstrap.RabbitMQ,
		zapLogger,
		internalConfig.App.RabbitMQSMSQueue,
		internalConfig.App.RabbitMQSMSDeadLetterQueue,
		10,
	)
	if err != nil {
		return err
	}
	smsService := sms.NewSMSService(smsQueue, zapLogger)
	smsProvider := sms.NewAfricasTalkingClient(internalConfig, zapLogger)

	paymentGateway := paymentgateway.NewZenopayService(internalConfig, zapLogger)
	voiceDialer := voicedialer.NewAfricasTalkingDialer(internalConfig, zapLogger)

	// Repositories
	subscriberRepository := subscribers.NewSubscriberMongoRepository(bootstrap.MongoClient, dbName)
	doctorRepository := doctors.NewDoctorMongoRepository(bootstrap.MongoClient, dbName)
	caseRepository := cases.NewCaseMongoRepository(bootstrap.MongoClient, dbName)
	offerRepository := offers.NewOfferMongoRepository(bootstrap.MongoClient, dbName)
	transactionRepository := transactions.NewTransactionMongoRepository(bootstrap.MongoClient, dbName)
	callQueueRepository := callqueue.NewCallQueueMongoRepository(bootstrap.MongoClient, dbName)

	// Core services
	sessionService := sessions.NewSessionService(
		redisRepository,
		zapLogger,
		time.Duration(internalConfig.App.SessionTTLInMinute)*time.Minute,
	)
	offerService := offers.NewOfferService(
		offerRepository,
		zapLogger,
		time.Duration(internalConfig.App.OfferTTLInDay)*24*time.Hour,
	)
	recordingArchiver := recordings.NewRecordingArchiver(
		redisRepository,
		caseRepository,
		bootstrap.Minio,
		bootstrap.DriverConfig.Minio.BucketName,
		internalConfig.App.RedisRecordingArchiveQueue,
		zapLogger,
	)

	// Usecases
	ussdUsecase := ussd.NewUSSDUsecase(
		sessionService,
		lockerService,
		attemptLimiter,
		subscriberRepository,
		doctorRepository,
		caseRepository,
		offerRepository,
		offerService,
		transactionRepository,
		paymentGateway,
		smsService,
		internalConfig,
		zapLogger,
	)
	voiceUsecase := voice.NewVoiceUsecase(
		sessionService,
		subscriberRepository,
		doctorRepository,
		caseRepository,
		callQueueRepository,
		offerService,
		smsService,
		recordingArchiver,
		voiceDialer,
		internalConfig,
		zapLogger,
	)
	paymentUsecase := payments.NewPaymentUsecase(
		transactionRepository,
		caseRepository,
		subscriberRepository,
		paymentGateway,
		smsService,
		internalConfig.App.USSDShortCode,
		zapLogger,
	)
	smsInboundUsecase := smsinbound.NewSMSInboundUsecase(
		subscriberRepository,
		doctorRepository,
		caseRepository,
		offerService,
		smsService,
		internalConfig,
		zapLogger,
	)

	// Controllers
	ussdController := controllers.NewUSSDController(zapLogger, ussdUsecase)
	voiceController := controllers.NewVoiceController(zapLogger, voiceUsecase)
	paymentController := controllers.NewPaymentController(zapLogger, paymentUsecase)
	smsController := controllers.NewSMSController(zapLogger, smsInboundUsecase)

	// Background workers
	workerCtx := context.Background()
	smsWorker := sms.NewWorker(zapLogger, lockerService, smsQueue, smsProvider, 15*time.Second, 10)
	stopSMSWorker := smsWorker.Start(workerCtx)

	recordingWorker := recordings.NewWorker(zapLogger, recordingArchiver, 30*time.Second)
	stopRecordingWorker := recordingWorker.Start(workerCtx)

	sweepWorker := sweeper.NewWorker(
		zapLogger,
		lockerService,
		callQueueRepository,
		offerRepository,
		caseRepository,
		time.Duration(internalConfig.App.SweepIntervalInSecond)*time.Second,
		time.Duration(internalConfig.App.CallQueueTimeoutInMinute)*time.Minute,
		time.Duration(internalConfig.App.ProvisionalCaseTTLInHour)*time.Hour,
	)
	stopSweepWorker := sweepWorker.Start(workerCtx)

	bootstrap.WorkerStop = func() {
		stopSMSWorker()
		stopRecordingWorker()
		stopSweepWorker()
	}

	httpMiddlewares := middlewares.NewMiddlewares(zapLogger, internalConfig)
	routers.SetupRoutes(
		bootstrap.Router,
		internalConfig,
		httpMiddlewares,
		ussdController,
		voiceController,
		paymentController,
		smsController,
	)
	return nil
}
