package mime

// Details Contains basic information about the type
type Details struct {
	Catagory  string `json:"category"`
	Type      string `json:"type"`
	Extension string `json:"extension"`
}
