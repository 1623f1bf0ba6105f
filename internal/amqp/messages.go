package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"wallet/internal/core"
)

// TransactionRecordedMessage is published after a transaction row is
// committed. Consumers use it to refresh derived data such as monthly
// summaries.
type TransactionRecordedMessage struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewTransactionRecordedMessage(t core.Transaction) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:         t.ID,
		UserID:     t.UserID,
		OccurredAt: t.CreatedAt,
		Timestamp:  time.Now().UTC(),
	}
}

func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var m TransactionRecordedMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
