package model

// Push channel event names shared with the game clients
const (
	// Client to server
	EventUserEnter = "REQ_USER_ENTER"

	// Server to client
	EventTurn        = "REQ_MT_TURN"
	EventClientAdd   = "REQ_MT_CLIENT_ADD"
	EventClientLeave = "REQ_MT_CLIENT_LEAVE"
)

// UserEnterPayload is the body of a REQ_USER_ENTER handshake
type UserEnterPayload struct {
	UserData  string   `json:"user_data"`
	TableURLs []string `json:"table_urls"`
}

// UserEnterAck is sent back through the handshake acknowledgement
type UserEnterAck struct {
	Status    bool      `json:"status"`
	Error     string    `json:"error,omitempty"`
	Name      string    `json:"name,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	Rating    float64   `json:"rating,omitempty"`
	Tables    []TableID `json:"tables,omitempty"`
	TableURLs []string  `json:"table_urls,omitempty"`
}

// TurnPayload tells the client it is the player's turn at a table
type TurnPayload struct {
	TableID TableID `json:"table_token"`
}

// ClientAddPayload tells the client to mount a side-table view
type ClientAddPayload struct {
	Server  string  `json:"server"`
	URL     string  `json:"client_url"`
	TableID TableID `json:"table_token"`
}

// ClientLeavePayload tells the client to unmount a side-table view
type ClientLeavePayload struct {
	TableID     TableID `json:"table_token"`
	ThreadToken string  `json:"thread_token"`
}
