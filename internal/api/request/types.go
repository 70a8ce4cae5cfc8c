package request

// AddTableRequest is the request body for POST /add_mt_table
type AddTableRequest struct {
	Server     string `json:"server"`
	ClientURL  string `json:"client_url"`
	TableToken string `json:"table_token"`
	UserToken  string `json:"user_token"`
}

// LeaveRequest is the request body for POST /leave.
// The table-manager nests the fields under data and uses camelCase.
type LeaveRequest struct {
	Data LeaveData `json:"data"`
}

// LeaveData identifies the side table to close
type LeaveData struct {
	TableToken  string `json:"tableToken"`
	UserToken   string `json:"userToken"`
	ThreadToken string `json:"threadToken"`
}
