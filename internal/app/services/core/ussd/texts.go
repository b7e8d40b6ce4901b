package ussd

import (
	"fmt"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
)

// screenTexts renders every USSD screen in the subscriber's language. All
// bodies are returned without the CON/END prefix; the reply's Continue flag
// carries that distinction.
type screenTexts struct {
	shortCode string
}

func pick(lang, en, sw string) string {
	if lang == constvars.LanguageKiswahili {
		return sw
	}
	return en
}

func (t *screenTexts) registrationWelcome() string {
	return "SmartHealth\nWelcome!\nYou are a new user.\nGet 3 FREE consultations!\nPlease enter your full name:"
}

func (t *screenTexts) registrationNameTooShort() string {
	return fmt.Sprintf("Name Too Short\n\nName must be at least 3 characters.\n\nPlease dial again:\n%s\n\nThank you!", t.shortCode)
}

func (t *screenTexts) registrationAskPin(name string) string {
	return fmt.Sprintf("Hello %s!\nCreate a 4-digit PIN:\n(This will protect your medical records)\nExample: 1234", name)
}

func (t *screenTexts) registrationInvalidPin() string {
	return fmt.Sprintf("Invalid PIN\n\nPIN must be exactly 4 digits.\nExample: 1234\n\nPlease dial again:\n%s\n\nThank you!", t.shortCode)
}

func (t *screenTexts) registrationSuccess(name, phone string) string {
	return fmt.Sprintf("Registration Successful!\n\nName: %s\nPhone: %s\nTrial: 3 FREE consultations\n\nDial to start:\n%s\n\nWelcome to SmartHealth!", name, phone, t.shortCode)
}

func (t *screenTexts) welcomeSMS(lang, name string) string {
	return pick(lang,
		fmt.Sprintf("Welcome to SmartHealth, %s!\n\nRegistration successful.\nYou have 3 FREE consultations!\n\nDial: %s\n\nThank you!", name, t.shortCode),
		fmt.Sprintf("Karibu SmartHealth, %s!\n\nUmesajiliwa kikamilifu.\nUna ushauri 3 wa BURE!\n\nPiga: %s\n\nAsante!", name, t.shortCode),
	)
}

func (t *screenTexts) loginAskPin(name string) string {
	if name == "" {
		name = "User"
	}
	return fmt.Sprintf("SmartHealth\nWelcome back %s\nEnter your 4-digit PIN:", name)
}

func (t *screenTexts) loginWrongPin() string {
	return fmt.Sprintf("Incorrect PIN\n\nThe PIN you entered is wrong.\n\nPlease dial again:\n%s\n\nForgot PIN? Contact support.\nThank you!", t.shortCode)
}

func (t *screenTexts) loginLockedOut() string {
	return fmt.Sprintf("Too Many Attempts\n\nToo many wrong PIN entries.\nPlease wait a few minutes.\n\nDial again later:\n%s\n\nThank you!", t.shortCode)
}

func (t *screenTexts) mainMenu(lang, name string, trialRemaining int) string {
	if name == "" {
		name = pick(lang, "User", "Mtumiaji")
	}
	trialEN := " (Expired)"
	trialSW := " (Imeisha)"
	if trialRemaining > 0 {
		trialEN = fmt.Sprintf(" (%d left)", trialRemaining)
		trialSW = fmt.Sprintf(" (%d zimebaki)", trialRemaining)
	}
	return pick(lang,
		fmt.Sprintf("SmartHealth\nWelcome %s\n\n1. Free Trial%s\n2. Paid Consultation\n3. My History\n4. Change Language\n5. Logout", name, trialEN),
		fmt.Sprintf("SmartHealth\nKaribu %s\n\n1. Bure%s\n2. Malipo\n3. Historia\n4. Lugha\n5. Toka", name, trialSW),
	)
}

func (t *screenTexts) invalidOption(lang string) string {
	return pick(lang,
		fmt.Sprintf("Invalid Option\n\nPlease select a valid number.\n\nDial again:\n%s\n\nThank you!", t.shortCode),
		fmt.Sprintf("Chaguo Si Sahihi\n\nTafadhali chagua nambari sahihi.\n\nPiga tena:\n%s\n\nAsante!", t.shortCode),
	)
}

func (t *screenTexts) trialExpired(lang string) string {
	return pick(lang,
		"Trial Period Ended\n\nYou've used all 3 free consultations.\nPlease choose \"Paid Consultation\" from main menu.\n\nThank you!",
		"Kipindi cha Bure Kimeisha\n\nUmeshatumia ushauri 3 wa bure.\nTafadhali chagua \"Malipo\" kutoka menyu kuu.\n\nAsante!",
	)
}

func (t *screenTexts) trialAskSymptoms(lang string, remaining int) string {
	return pick(lang,
		fmt.Sprintf("Free Trial Consultation (%d remaining)\nDescribe your symptoms in detail:\n(At least 2 sentences)\nExample: I have severe headache and fever for 2 days", remaining),
		fmt.Sprintf("Ushauri wa Bure (%d zimebaki)\nAndika dalili zako kwa undani:\n(Angalau sentensi 2)\nMfano: Nina maumivu ya kichwa na homa kwa siku 2", remaining),
	)
}

func (t *screenTexts) symptomsTooShort(lang string) string {
	return pick(lang,
		"Description Too Short\n\nPlease provide more detailed symptoms.\nAt least 2 sentences or 20 words.\n\nTry again!",
		"Maelezo Mafupi Sana\n\nTafadhali eleza dalili zako kwa undani zaidi.\nAngalau sentensi 2 au maneno 20.\n\nJaribu tena!",
	)
}

func (t *screenTexts) trialReceived(lang, caseID string) string {
	return pick(lang,
		fmt.Sprintf("Received!\n\nA doctor will respond via SMS.\n\nCase: #%s\nTime: 5-30 minutes\nReply: SMS\n\nThank you for using SmartHealth!", caseID),
		fmt.Sprintf("Imepokelewa!\n\nDaktari atakujibu kupitia SMS.\n\nKesi: #%s\nMuda: Dakika 5-30\nJibu: SMS\n\nAsante kutumia SmartHealth!", caseID),
	)
}

func (t *screenTexts) consultationReceivedSMS(lang, caseID string) string {
	return pick(lang,
		fmt.Sprintf("Thank you! Your consultation has been received.\n\nCase: #%s\nA doctor will respond via SMS within 5-30 minutes.\n\nSmartHealth", caseID),
		fmt.Sprintf("Asante! Ushauri wako umepokelewa.\n\nKesi: #%s\nDaktari atakujibu kupitia SMS ndani ya dakika 5-30.\n\nSmartHealth", caseID),
	)
}

func (t *screenTexts) noDoctorsAvailable(lang string) string {
	return pick(lang,
		"No Doctors Available\n\nSorry, no doctors are available right now.\n\nPlease try again later.\n\nThank you!",
		"Hakuna Madaktari\n\nSamahani, hakuna madaktari wanaopatikana sasa.\n\nTafadhali jaribu tena baadaye.\n\nAsante!",
	)
}

func (t *screenTexts) doctorMenu(lang string, doctors []models.DoctorOption) string {
	menu := pick(lang, "Select Doctor\n", "Chagua Daktari\n")
	for i, doc := range doctors {
		menu += fmt.Sprintf("%d. Dr. %s\n%s - KES %.0f\n", i+1, doc.Name, doc.Specialization, doc.Fee)
	}
	return menu
}

func (t *screenTexts) freeOfferScreen(lang string, doctor *models.DoctorOption, discount float64) string {
	return pick(lang,
		fmt.Sprintf("CONGRATULATIONS! FREE Consultation!\nDoctor: %s\nRegular price: KES %.0f\nDiscount: -KES %.0f\nYour price: KES 0\n1. Continue\n2. Back", doctor.Name, doctor.Fee, discount),
		fmt.Sprintf("HONGERA! Ushauri wa BURE!\nDaktari: %s\nBei ya kawaida: KES %.0f\nPunguzo: -KES %.0f\nBei yako: KES 0\n1. Endelea\n2. Rudi", doctor.Name, doctor.Fee, discount),
	)
}

func (t *screenTexts) paymentMenu(lang string, doctor *models.DoctorOption, discount, finalAmount, balance float64) string {
	discountEN := ""
	discountSW := ""
	if discount > 0 {
		discountEN = fmt.Sprintf("\nDiscount: -KES %.0f", discount)
		discountSW = fmt.Sprintf("\nPunguzo: -KES %.0f", discount)
	}
	return pick(lang,
		fmt.Sprintf("PAYMENT REQUIRED\nDoctor: %s\nFee: KES %.0f%s\nTotal: KES %.0f\nSelect payment method:\n1. Mobile Payment\n2. Balance (KES %.0f)\n3. Back", doctor.Name, doctor.Fee, discountEN, finalAmount, balance),
		fmt.Sprintf("MALIPO YANAHITAJIKA\nDaktari: %s\nBei: KES %.0f%s\nJumla: KES %.0f\nChagua njia ya malipo:\n1. Malipo ya Simu\n2. Salio (KES %.0f)\n3. Rudi", doctor.Name, doctor.Fee, discountSW, finalAmount, balance),
	)
}

func (t *screenTexts) askSymptomsShort(lang string) string {
	return pick(lang,
		"Enter your symptoms:\n(At least 2 sentences)",
		"Andika dalili zako:\n(Angalau sentensi 2)",
	)
}

func (t *screenTexts) mobilePaymentSent(lang string, finalAmount float64, phone, caseID string) string {
	return pick(lang,
		fmt.Sprintf("Payment Request Sent!\n\nAmount: KES %.0f\nNumber: %s\n\nYou will receive payment SMS.\nPay then dial again:\n%s\n\nCase: #%s\nThank you!", finalAmount, phone, t.shortCode, caseID),
		fmt.Sprintf("Ombi la Malipo Limetumwa!\n\nKiasi: KES %.0f\nNambari: %s\n\nUtapokea SMS ya malipo.\nLipa kisha piga tena:\n%s\n\nKesi: #%s\nAsante!", finalAmount, phone, t.shortCode, caseID),
	)
}

func (t *screenTexts) paymentInitiationFailed(lang string) string {
	return pick(lang,
		"Payment Error\n\nSorry, payment cannot be initiated now.\nPlease try again later.\n\nThank you!",
		"Kosa la Malipo\n\nSamahani, malipo hayawezi kuanza sasa.\nTafadhali jaribu tena baadaye.\n\nAsante!",
	)
}

func (t *screenTexts) insufficientBalance(lang string, balance, finalAmount float64) string {
	shortage := finalAmount - balance
	return pick(lang,
		fmt.Sprintf("Insufficient Balance!\n\nYour balance: KES %.0f\nRequired: KES %.0f\nShort by: KES %.0f\n\nPlease:\n1. Use Mobile Payment, or\n2. Top up your balance first\n\nThank you!", balance, finalAmount, shortage),
		fmt.Sprintf("Salio Haitoshi!\n\nSalio lako: KES %.0f\nUnahitaji: KES %.0f\nUpungufu: KES %.0f\n\nTafadhali:\n1. Tumia Malipo ya Simu, au\n2. Ongeza salio kwanza\n\nAsante!", balance, finalAmount, shortage),
	)
}

func (t *screenTexts) balancePaymentSuccess(lang string, finalAmount, newBalance float64) string {
	return pick(lang,
		fmt.Sprintf("Payment Successful!\n\nAmount: KES %.0f\nNew balance: KES %.0f\n\nNow describe your symptoms in detail:\n(At least 2 sentences)\n\nExample: I have stomach pain and diarrhea for 3 days", finalAmount, newBalance),
		fmt.Sprintf("Malipo Yamefanikiwa!\n\nKiasi: KES %.0f\nSalio mpya: KES %.0f\n\nSasa andika dalili zako kwa undani:\n(Angalau sentensi 2)\n\nMfano: Nina maumivu ya tumbo na kuhara kwa siku 3", finalAmount, newBalance),
	)
}

func (t *screenTexts) paymentNotConfirmed(lang string) string {
	return pick(lang,
		fmt.Sprintf("Payment Not Confirmed\n\nPlease start again and pay first.\n\nDial again:\n%s\n\nThank you!", t.shortCode),
		fmt.Sprintf("Malipo Hayajathibitishwa\n\nTafadhali anza upya na lipa kwanza.\n\nPiga tena:\n%s\n\nAsante!", t.shortCode),
	)
}

func (t *screenTexts) paidCompleted(lang, doctorName string, finalAmount float64, caseID string) string {
	return pick(lang,
		fmt.Sprintf("Payment Completed!\n\nDoctor: %s\nAmount: KES %.0f\nCase: #%s\n\nTime: 5-30 minutes\nReply: SMS\n\nThank you for using SmartHealth!", doctorName, finalAmount, caseID),
		fmt.Sprintf("Malipo Yamekamilika!\n\nDaktari: %s\nKiasi: KES %.0f\nKesi: #%s\n\nMuda: Dakika 5-30\nJibu: SMS\n\nAsante kutumia SmartHealth!", doctorName, finalAmount, caseID),
	)
}

func (t *screenTexts) paidCompletedSMS(lang, doctorName string, finalAmount float64, caseID string) string {
	return pick(lang,
		fmt.Sprintf("Payment completed! Your consultation has been received.\n\nDoctor: %s\nAmount: KES %.0f\nCase: #%s\n\nDoctor will respond via SMS within 5-30 minutes.\n\nSmartHealth", doctorName, finalAmount, caseID),
		fmt.Sprintf("Malipo yamekamilika! Ushauri wako umepokelewa.\n\nDaktari: %s\nKiasi: KES %.0f\nKesi: #%s\n\nDaktari atakujibu kupitia SMS ndani ya dakika 5-30.\n\nSmartHealth", doctorName, finalAmount, caseID),
	)
}

func (t *screenTexts) paymentCompletedAskSymptoms(lang string) string {
	return pick(lang,
		"Payment Completed!\n\nNow describe your symptoms in detail:\n(At least 2 sentences)\n\nExample: I have stomach pain and diarrhea for 3 days",
		"Malipo Yamekamilika!\n\nSasa andika dalili zako kwa undani:\n(Angalau sentensi 2)\n\nMfano: Nina maumivu ya tumbo na kuhara kwa siku 3",
	)
}

func (t *screenTexts) paymentStillPending(lang, caseID string) string {
	return pick(lang,
		fmt.Sprintf("Payment Still Pending\n\nPlease complete payment via SMS.\nThen dial again:\n%s\n\nCase: #%s\nThank you!", t.shortCode, caseID),
		fmt.Sprintf("Malipo Bado Yanasubiri\n\nTafadhali lipa kwanza kupitia SMS.\nKisha piga tena:\n%s\n\nKesi: #%s\nAsante!", t.shortCode, caseID),
	)
}

func (t *screenTexts) paymentFailed(lang string) string {
	return pick(lang,
		fmt.Sprintf("Payment Failed\n\nPlease try again.\n\nDial:\n%s\n\nThank you!", t.shortCode),
		fmt.Sprintf("Malipo Yameshindwa\n\nTafadhali jaribu tena.\n\nPiga:\n%s\n\nAsante!", t.shortCode),
	)
}

func (t *screenTexts) noHistory(lang string) string {
	return pick(lang,
		"Consultation History\n\nNo consultation history yet.\n\nStart your first consultation today!",
		"Historia ya Ushauri\n\nHuna historia ya ushauri bado.\n\nAnza ushauri wako wa kwanza leo!",
	)
}

func (t *screenTexts) historyHeader(lang string) string {
	return pick(lang, "Your History (Last 5)\n", "Historia Yako (5 za hivi karibuni)\n")
}

func (t *screenTexts) historyFooter(lang string) string {
	return pick(lang, "Thank you for using SmartHealth!", "Asante kutumia SmartHealth!")
}

func (t *screenTexts) languageMenu() string {
	return "Select Language / Chagua Lugha\n1. English\n2. Kiswahili"
}

func (t *screenTexts) languageChanged(lang string) string {
	return pick(lang,
		fmt.Sprintf("Language Changed!\n\nNew language: English\n\nDial again to continue:\n%s\n\nThank you!", t.shortCode),
		fmt.Sprintf("Lugha Imebadilishwa!\n\nLugha mpya: Kiswahili\n\nPiga tena kuendelea:\n%s\n\nAsante!", t.shortCode),
	)
}

func (t *screenTexts) loggedOut(lang string) string {
	return pick(lang,
		fmt.Sprintf("Logged Out Successfully\n\nFor your security, session closed.\n\nDial again to login:\n%s\n\nThank you!", t.shortCode),
		fmt.Sprintf("Umetoka Kikamilifu\n\nKwa usalama wako, session imefungwa.\n\nPiga tena kuingia:\n%s\n\nAsante!", t.shortCode),
	)
}
