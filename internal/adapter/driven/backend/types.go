package backend

// errorResponse is the failure body shared by every endpoint.
type errorResponse struct {
	Error string `json:"error"`
}

// testConnectionRequest is the JSON body for the test-connection endpoint.
type testConnectionRequest struct {
	Provider string `json:"provider"`
	Key      string `json:"key"`
}

// analyzeRequest is the JSON body for the analyze endpoint.
type analyzeRequest struct {
	JoinDate string `json:"join_date"`
}

// analyzeResponse is the success body of the analyze endpoint.
type analyzeResponse struct {
	Generation     int    `json:"generation"`
	GenerationName string `json:"generation_name"`
	Explanation    string `json:"explanation"`
}
