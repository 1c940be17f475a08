package services

import (
	"campusmarket/internal/models"
	"campusmarket/internal/repositories"
)

type MessageService interface {
	Send(senderID, receiverID int, body, status string) (*models.Message, error)
	List(userID int, participantID *int, limit, offset int) ([]*models.Message, error)
}

type messageService struct {
	repo  repositories.MessageRepository
	users repositories.UserRepository
}

func NewMessageService(repo repositories.MessageRepository, users repositories.UserRepository) MessageService {
	return &messageService{repo: repo, users: users}
}

func (s *messageService) Send(senderID, receiverID int, body, status string) (*models.Message, error) {
	receiver, err := s.users.GetByID(receiverID)
	if err != nil {
		return nil, err
	}
	if receiver == nil {
		return nil, ErrReceiverNotFound
	}
	if status == "" {
		status = models.MessageStatusSent
	}
	m := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Body:       body,
		Status:     status,
	}
	if err := s.repo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *messageService) List(userID int, participantID *int, limit, offset int) ([]*models.Message, error) {
	return s.repo.List(userID, participantID, limit, offset)
}
