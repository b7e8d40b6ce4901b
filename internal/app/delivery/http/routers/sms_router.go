package routers

import (
	"smarthealth-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachSMSRoutes(router chi.Router, smsController *controllers.SMSController) {
	router.Post("/incoming", smsController.Incoming)
}
