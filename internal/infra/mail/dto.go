package mail

type WonDealEmailData struct {
	LeadID        string
	Name          string
	Email         string
	Phone         string
	Company       string
	AssignedTo    string
	PreviousStage string
	Value         string
	ClosedAt      string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string

	dialer messageDialer
}
