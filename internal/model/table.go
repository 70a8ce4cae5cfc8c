package model

// TableID names one table-server endpoint (the table token)
type TableID string

// TableEntry is one side table listed in an identity blob
type TableEntry struct {
	TableID TableID `json:"table_token"`
}

// TableClient describes how a player's client should mount a new side table
type TableClient struct {
	Server  string
	URL     string
	TableID TableID
}
