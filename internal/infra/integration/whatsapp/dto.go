package whatsapp

type SendMessageInput struct {
	PhoneNumber  string   // Ex: "5511999990000"
	TemplateName string   // Ex: "status_processo"
	Parameters   []string // Ex: []string{"Ana", "ABC1D23", "Concluído"}
}

type SendMessageResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Contacts []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Error *ErrorResponse `json:"error"`
}

type ErrorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}
