package dto

type RespondRequest struct {
	Query string `json:"query"`
}

type RespondResponse struct {
	Response    string `json:"response"`
	Kind        string `json:"kind"`
	Category    string `json:"category,omitempty"`
	Subcategory string `json:"subcategory,omitempty"`
}
