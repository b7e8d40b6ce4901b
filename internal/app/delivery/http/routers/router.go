package routers

import (
	"smarthealth-service/internal/app/config"
	"smarthealth-service/internal/app/delivery/http/controllers"
	"smarthealth-service/internal/app/delivery/http/middlewares"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

func SetupRoutes(
	router *chi.Mux,
	internalConfig *config.InternalConfig,
	middlewares *middlewares.Middlewares,
	ussdController *controllers.USSDController,
	voiceController *controllers.VoiceController,
	paymentController *controllers.PaymentController,
	smsController *controllers.SMSController,
) {
	corsOptions := cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	router.Use(cors.Handler(corsOptions))

	rateLimiter := httprate.LimitByIP(internalConfig.App.MaxRequests, time.Second)
	router.Use(rateLimiter)

	router.Use(middlewares.RequestIDMiddleware)
	router.Use(middlewares.Logging(middlewares.Log))
	router.Use(middlewares.ErrorHandler)

	router.Route(internalConfig.App.EndpointPrefix, func(r chi.Router) {
		r.Route("/ussd", func(r chi.Router) {
			attachUSSDRoutes(r, ussdController)
		})

		r.Route("/voice", func(r chi.Router) {
			attachVoiceRoutes(r, voiceController)
		})

		r.Route("/payments", func(r chi.Router) {
			attachPaymentRoutes(r, paymentController)
		})

		r.Route("/sms", func(r chi.Router) {
			attachSMSRoutes(r, smsController)
		})
	})
}
