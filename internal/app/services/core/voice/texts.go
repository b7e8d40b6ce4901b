package voice

import (
	"fmt"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
)

func pick(lang, en, sw string) string {
	if lang == constvars.LanguageKiswahili {
		return sw
	}
	return en
}

type callTexts struct{}

func (t *callTexts) mainMenuPrompt(lang string) string {
	return pick(lang,
		"Welcome to SmartHealth. Press 1 for a free trial consultation. Press 2 to speak to a doctor. Press 3 for your consultation history.",
		"Karibu SmartHealth. Bonyeza 1 kwa ushauri wa majaribio bila malipo. Bonyeza 2 kuongea na daktari. Bonyeza 3 kwa historia ya ushauri wako.",
	)
}

func (t *callTexts) trialEnded(lang string) string {
	return pick(lang,
		"Your free trial has ended. Press 2 to speak to a doctor, or press 3 for your consultation history.",
		"Majaribio yako bila malipo yameisha. Bonyeza 2 kuongea na daktari, au bonyeza 3 kwa historia ya ushauri wako.",
	)
}

func (t *callTexts) trialReceived(lang string) string {
	return pick(lang,
		"Thank you. Your symptoms have been recorded and a doctor will call you back shortly. Goodbye.",
		"Asante. Dalili zako zimerekodiwa na daktari atakupigia hivi karibuni. Kwaheri.",
	)
}

func (t *callTexts) trialReceivedSMS(lang, caseID string) string {
	return pick(lang,
		fmt.Sprintf("SmartHealth: your trial consultation #%s has been received. A doctor will call you back shortly.", caseID),
		fmt.Sprintf("SmartHealth: ushauri wako wa majaribio #%s umepokelewa. Daktari atakupigia hivi karibuni.", caseID),
	)
}

func (t *callTexts) completionSMS(lang, caseID string) string {
	return pick(lang,
		fmt.Sprintf("SmartHealth: your consultation #%s is complete. Thank you for using SmartHealth.", caseID),
		fmt.Sprintf("SmartHealth: ushauri wako #%s umekamilika. Asante kutumia SmartHealth.", caseID),
	)
}

func (t *callTexts) doctorListPrompt(lang string, doctors []models.DoctorOption) string {
	prompt := pick(lang, "Select a doctor. ", "Chagua daktari. ")
	for i, doc := range doctors {
		prompt += pick(lang,
			fmt.Sprintf("Press %d for Doctor %s, %s, %.0f shillings. ", i+1, doc.Name, doc.Specialization, doc.Fee),
			fmt.Sprintf("Bonyeza %d kwa Daktari %s, %s, shilingi %.0f. ", i+1, doc.Name, doc.Specialization, doc.Fee),
		)
	}
	return prompt
}

func (t *callTexts) symptomsPrompt(lang string) string {
	return pick(lang,
		"Describe your symptoms after the tone. Press the hash key when done.",
		"Eleza dalili zako baada ya mlio. Bonyeza alama ya reli ukimaliza.",
	)
}

func (t *callTexts) noDoctorsAvailable(lang string) string {
	return pick(lang,
		"Sorry, no doctors are available right now. Please try again later.",
		"Samahani, hakuna madaktari wanaopatikana sasa. Tafadhali jaribu tena baadaye.",
	)
}

func (t *callTexts) noHistory(lang string) string {
	return pick(lang,
		"You have no consultation history yet. Thank you for calling SmartHealth.",
		"Huna historia ya ushauri bado. Asante kwa kupiga SmartHealth.",
	)
}

func (t *callTexts) historyLine(lang string, position int, status string) string {
	return pick(lang,
		fmt.Sprintf("Consultation %d, status %s. ", position, status),
		fmt.Sprintf("Ushauri %d, hali %s. ", position, status),
	)
}

func (t *callTexts) sessionExpired(lang string) string {
	return pick(lang,
		"Your session has expired. Please call again.",
		"Session yako imeisha. Tafadhali piga tena.",
	)
}

func (t *callTexts) invalidSelection(lang string) string {
	return pick(lang,
		"Invalid selection. ",
		"Chaguo si sahihi. ",
	)
}

func (t *callTexts) doctorUnavailable(lang string) string {
	return pick(lang,
		"The doctor could not take your call. You will receive an SMS follow up. Thank you.",
		"Daktari hakuweza kupokea simu yako. Utapokea SMS ya ufuatiliaji. Asante.",
	)
}

func (t *callTexts) callEnded(lang string) string {
	return pick(lang,
		"Your consultation is complete. Thank you for using SmartHealth.",
		"Ushauri wako umekamilika. Asante kutumia SmartHealth.",
	)
}

func (t *callTexts) doctorPrompt(subscriberPhone string) string {
	return fmt.Sprintf(
		"New SmartHealth consultation from %s. Press 1 to accept, press 2 to decline.",
		subscriberPhone,
	)
}

func (t *callTexts) doctorAccepted() string {
	return "Accepted. Please hang up, the patient will be connected to you shortly."
}

func (t *callTexts) doctorDeclined() string {
	return "Declined. The patient will be notified."
}

func (t *callTexts) doctorAlreadyHandled() string {
	return "This consultation has already been handled."
}
