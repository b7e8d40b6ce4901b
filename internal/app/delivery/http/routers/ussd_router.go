package routers

import (
	"smarthealth-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachUSSDRoutes(router chi.Router, ussdController *controllers.USSDController) {
	router.Post("/", ussdController.Handle)
}
