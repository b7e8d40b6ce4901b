package routers

import (
	"smarthealth-service/internal/app/delivery/http/controllers"

	"github.com/go-chi/chi/v5"
)

func attachVoiceRoutes(router chi.Router, voiceController *controllers.VoiceController) {
	router.Post("/incoming", voiceController.Incoming)
	router.Post("/menu", voiceController.Menu)
	router.Post("/select-doctor", voiceController.SelectDoctor)
	router.Post("/process-symptoms", voiceController.ProcessSymptoms)
	router.Post("/wait-for-doctor", voiceController.WaitForDoctor)
	router.Post("/call-completed", voiceController.CallCompleted)
	router.Post("/transcription", voiceController.Transcription)
	router.Post("/doctor-call", voiceController.DoctorCall)
	router.Post("/doctor-response", voiceController.DoctorResponse)
}
