package repositories

import (
	"database/sql"

	"campusmarket/internal/models"
)

type MessageRepository interface {
	Create(m *models.Message) error
	// List returns messages the user sent or received, newest first.
	// participantID narrows to one conversation when non-nil.
	List(userID int, participantID *int, limit, offset int) ([]*models.Message, error)
}

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{DB: db}
}

const messageSelect = `
	SELECT
		m.id, m.sender_id, m.receiver_id, m.body, m.status, m.created_at,
		snd.name, snd.email,
		rcv.name, rcv.email
	FROM messages m
	JOIN users snd ON snd.id = m.sender_id
	JOIN users rcv ON rcv.id = m.receiver_id
`

func (r *messageRepository) Create(m *models.Message) error {
	err := r.DB.QueryRow(`
		INSERT INTO messages (sender_id, receiver_id, body, status)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at
	`, m.SenderID, m.ReceiverID, m.Body, m.Status).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return err
	}
	row := r.DB.QueryRow(messageSelect+` WHERE m.id=$1`, m.ID)
	got, err := scanMessage(row)
	if err != nil {
		return err
	}
	*m = *got
	return nil
}

func scanMessage(row rowScanner) (*models.Message, error) {
	m := &models.Message{
		Sender:   &models.PartySummary{},
		Receiver: &models.PartySummary{},
	}
	err := row.Scan(
		&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.Status, &m.CreatedAt,
		&m.Sender.Name, &m.Sender.Email,
		&m.Receiver.Name, &m.Receiver.Email,
	)
	if err != nil {
		return nil, err
	}
	m.Sender.ID = m.SenderID
	m.Receiver.ID = m.ReceiverID
	return m, nil
}

func (r *messageRepository) List(userID int, participantID *int, limit, offset int) ([]*models.Message, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if participantID != nil {
		rows, err = r.DB.Query(messageSelect+`
			WHERE (m.sender_id=$1 AND m.receiver_id=$2)
			   OR (m.sender_id=$2 AND m.receiver_id=$1)
			ORDER BY m.created_at DESC
			LIMIT $3 OFFSET $4
		`, userID, *participantID, limit, offset)
	} else {
		rows, err = r.DB.Query(messageSelect+`
			WHERE m.sender_id=$1 OR m.receiver_id=$1
			ORDER BY m.created_at DESC
			LIMIT $2 OFFSET $3
		`, userID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, rows.Err()
}
