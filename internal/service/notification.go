package service

import (
	"context"
	"errors"
	"fmt"
	"medifind/internal/model"
	"medifind/internal/repository"

	"gorm.io/gorm"
)

const notificationTypeOrder = "order"

type NotificationService interface {
	OrderPlaced(ctx context.Context, order *model.Order) error
	OrderStatusChanged(ctx context.Context, order *model.Order) error
	List(ctx context.Context, userID uint) ([]*model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uint) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID uint) error
}

type notificationServiceImpl struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationServiceImpl{
		notificationRepo: notificationRepo,
	}
}

func (s *notificationServiceImpl) OrderPlaced(ctx context.Context, order *model.Order) error {
	return s.emit(ctx, order,
		"Order Placed Successfully",
		fmt.Sprintf("Your order #ORD%d has been placed successfully.", order.ID),
	)
}

func (s *notificationServiceImpl) OrderStatusChanged(ctx context.Context, order *model.Order) error {
	var title, message string
	switch order.Status {
	case model.OrderStatusReady:
		title = "Order Ready for Pickup"
		message = fmt.Sprintf("Your order #ORD%d is ready for pickup.", order.ID)
	case model.OrderStatusCompleted:
		title = "Order Completed"
		message = fmt.Sprintf("Your order #ORD%d has been completed.", order.ID)
	case model.OrderStatusCancelled:
		title = "Order Cancelled"
		message = fmt.Sprintf("Your order #ORD%d has been cancelled.", order.ID)
	default:
		title = "Order Status Updated"
		message = fmt.Sprintf("Your order #ORD%d status has been updated to %s.", order.ID, order.Status)
	}

	return s.emit(ctx, order, title, message)
}

func (s *notificationServiceImpl) emit(ctx context.Context, order *model.Order, title, message string) error {
	orderID := order.ID
	err := s.notificationRepo.Create(ctx, nil, &model.Notification{
		UserID:         order.UserID,
		Title:          title,
		Message:        message,
		Type:           notificationTypeOrder,
		RelatedOrderID: &orderID,
	})
	if err != nil {
		return fmt.Errorf("store notification for order %d: %w", order.ID, err)
	}

	return nil
}

func (s *notificationServiceImpl) List(ctx context.Context, userID uint) ([]*model.Notification, error) {
	return s.notificationRepo.ListByUser(ctx, userID)
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID, notificationID uint) (*model.Notification, error) {
	notification, err := s.notificationRepo.MarkRead(ctx, userID, notificationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Message: "Notification not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}

	return notification, nil
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
