package mqtt

import "time"

// AnswerMessage is the JSON payload published for every graded answer
type AnswerMessage struct {
	SessionID string    `json:"sessionId"`
	Kind      string    `json:"kind"`
	Question  string    `json:"question"`
	Root      string    `json:"root"`
	Scale     string    `json:"scale"`
	Tuning    string    `json:"tuning"`
	Expected  int       `json:"expected"`
	Selected  int       `json:"selected"`
	Correct   bool      `json:"correct"`
	Timestamp time.Time `json:"timestamp"`
}
