package models

type DoctorStatus string

const (
	DoctorOnline  DoctorStatus = "online"
	DoctorOffline DoctorStatus = "offline"
	DoctorBusy    DoctorStatus = "busy"
)

type Doctor struct {
	ID                 string       `json:"id" bson:"_id,omitempty"`
	Name               string       `json:"name" bson:"name"`
	Phone              string       `json:"phone" bson:"phone"`
	Email              string       `json:"email,omitempty" bson:"email,omitempty"`
	Specialization     string       `json:"specialization" bson:"specialization"`
	Fee                float64      `json:"fee" bson:"fee"`
	Rating             float64      `json:"rating" bson:"rating"`
	Status             DoctorStatus `json:"status" bson:"status"`
	TotalConsultations int          `json:"totalConsultations" bson:"totalConsultations"`
	TimeModel          `bson:",inline"`
}
