package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BudgetRefreshMessage asks the worker to re-sync one budget from the
// upstream API. It carries only the budget ID, the worker fetches the
// rest itself.
type BudgetRefreshMessage struct {
	BudgetID  uuid.UUID `json:"budget_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBudgetRefreshMessage(budgetID uuid.UUID) *BudgetRefreshMessage {
	return &BudgetRefreshMessage{
		BudgetID:  budgetID,
		Timestamp: time.Now(),
	}
}

func (m *BudgetRefreshMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetRefreshMessageFromJSON(data []byte) (*BudgetRefreshMessage, error) {
	var msg BudgetRefreshMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
