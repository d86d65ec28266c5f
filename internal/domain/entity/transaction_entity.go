package entity

import "time"

// Transaction is an append-only ledger entry for one token transfer.
type Transaction struct {
	ID        string    `json:"_id"`
	FromUser  string    `json:"fromUser"`
	ToUser    string    `json:"toUser"`
	CourseID  string    `json:"course"`
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
}
