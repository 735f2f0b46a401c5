package kommo

// StatusWon is Kommo's system status for successfully closed leads.
const StatusWon = 142

type leadPayload struct {
	Name     string       `json:"name"`
	StatusID int          `json:"status_id"`
	Price    int          `json:"price"`
	Embedded leadEmbedded `json:"_embedded"`
}

type leadEmbedded struct {
	Tags     []tag       `json:"tags"`
	Contacts []contactID `json:"contacts"`
}

type tag struct {
	Name string `json:"name"`
}

type contactID struct {
	ID int `json:"id"`
}

type contactPayload struct {
	Name               string        `json:"name"`
	CustomFieldsValues []customField `json:"custom_fields_values"`
}

type customField struct {
	FieldCode string       `json:"field_code"`
	Values    []fieldValue `json:"values"`
}

type fieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code"`
}

type embeddedIDs struct {
	Embedded struct {
		Leads    []contactID `json:"leads"`
		Contacts []contactID `json:"contacts"`
	} `json:"_embedded"`
}
