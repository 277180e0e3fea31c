package domain

// HistoryStatusOld marks messages read back from the platform inbox.
const HistoryStatusOld = "old"

// HistoricalMessage is a row of the platform inbox, not of the pipeline state.
type HistoricalMessage struct {
	Sender       string `json:"sender"`
	Content      string `json:"content"`
	Receiver     string `json:"receiver"`
	DateReceived string `json:"date_received"`
	Status       string `json:"status"`
}
