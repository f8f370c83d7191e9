package service_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/malaura/storefront/internal/loyalty"
	"github.com/malaura/storefront/internal/models"
	"github.com/malaura/storefront/internal/pricing"
	service "github.com/malaura/storefront/internal/services"
	sendgridMocks "github.com/malaura/storefront/pkg/sendgrid/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const ownerEmail = "tienda@example.com"

func paidOrder() *models.Order {
	return &models.Order{
		ID:              42,
		CustomerName:    `Ana <script>alert("x")</script>García`,
		CustomerEmail:   "ana@example.com",
		ShippingAddress: "Calle Mayor 1, 28001 Madrid",
		DeliveryMethod:  pricing.DeliveryShipping,
		Subtotal:        decimal.RequireFromString("24.00"),
		ShippingCost:    decimal.RequireFromString("4.50"),
		TotalAmount:     decimal.RequireFromString("28.50"),
		Status:          models.OrderStatusPaid,
		Items: []models.OrderItem{
			{ProductID: 1, ProductName: "Jabón de lavanda", Quantity: 2, PricePerUnit: decimal.RequireFromString("12.00"), Color: "rosa", Finish: "mate"},
		},
	}
}

func notificationFor(order *models.Order, paid int) *models.OrderNotification {
	return &models.OrderNotification{
		Order:      order,
		PaidOrders: paid,
		Tier:       loyalty.TierFor(paid),
		Milestone:  loyalty.IsMilestone(paid),
		Loyalty:    loyalty.Summarize(paid),
	}
}

func TestSendOrderNotifications(t *testing.T) {
	ctx := t.Context()

	t.Run("Success - Owner and customer emails", func(t *testing.T) {
		// Arrange
		emails := sendgridMocks.NewMockEmailService(t)
		svc := service.NewNotificationService(emails, ownerEmail, "Jabones Malaura")

		var sent []*models.EmailNotificationRequest

		emails.On("Send", mock.Anything, mock.AnythingOfType("*models.EmailNotificationRequest")).
			Run(func(args mock.Arguments) {
				sent = append(sent, args.Get(1).(*models.EmailNotificationRequest))
			}).Return(nil).Twice()

		// Act
		err := svc.SendOrderNotifications(ctx, notificationFor(paidOrder(), 30))

		// Assert
		require.NoError(t, err)
		require.Len(t, sent, 2)

		owner, customer := sent[0], sent[1]
		assert.Equal(t, ownerEmail, owner.To)
		assert.Equal(t, "Nuevo pedido #42", owner.Subject)
		assert.Contains(t, owner.HTMLContent, "le corresponde un regalo")
		assert.Contains(t, owner.Content, "Jabón de lavanda (rosa / mate) x2: 24.00 EUR")
		assert.Contains(t, owner.Content, "Envío a Calle Mayor 1, 28001 Madrid")

		assert.Equal(t, "ana@example.com", customer.To)
		assert.Equal(t, "Gracias por tu pedido #42", customer.Subject)
		assert.Contains(t, customer.Content, "Tu nivel: Gold")
		assert.Contains(t, customer.HTMLContent, "has ganado un regalo")

		for _, email := range sent {
			assert.NotContains(t, email.HTMLContent, "<script>")
			assert.NotContains(t, email.Content, "<script>")
		}
	})

	t.Run("Success - Pickup order without milestone", func(t *testing.T) {
		// Arrange
		emails := sendgridMocks.NewMockEmailService(t)
		svc := service.NewNotificationService(emails, ownerEmail, "Jabones Malaura")
		order := paidOrder()
		order.DeliveryMethod = pricing.DeliveryPickup
		order.ShippingAddress = models.PickupMarker

		emails.On("Send", mock.Anything, mock.MatchedBy(func(req *models.EmailNotificationRequest) bool {
			return req.To == ownerEmail
		})).Return(nil).Once()
		emails.On("Send", mock.Anything, mock.MatchedBy(func(req *models.EmailNotificationRequest) bool {
			return req.To == "ana@example.com" &&
				strings.Contains(req.Content, "recogerlo en la tienda") &&
				strings.Contains(req.Content, "Te faltan 14 pedidos")
		})).Return(nil).Once()

		// Act
		err := svc.SendOrderNotifications(ctx, notificationFor(order, 1))

		// Assert
		assert.NoError(t, err)
	})

	t.Run("Failure - Owner email fails, customer still notified", func(t *testing.T) {
		// Arrange
		emails := sendgridMocks.NewMockEmailService(t)
		svc := service.NewNotificationService(emails, ownerEmail, "Jabones Malaura")

		emails.On("Send", mock.Anything, mock.MatchedBy(func(req *models.EmailNotificationRequest) bool {
			return req.To == ownerEmail && req.ReplyTo == "ana@example.com"
		})).Return(errors.New("sendgrid: 401")).Once()
		emails.On("Send", mock.Anything, mock.MatchedBy(func(req *models.EmailNotificationRequest) bool {
			return req.To == "ana@example.com"
		})).Return(nil).Once()

		// Act
		err := svc.SendOrderNotifications(ctx, notificationFor(paidOrder(), 2))

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "owner email")
		assert.NotContains(t, err.Error(), "customer email")
	})

	t.Run("Success - No owner address configured", func(t *testing.T) {
		// Arrange
		emails := sendgridMocks.NewMockEmailService(t)
		svc := service.NewNotificationService(emails, "", "Jabones Malaura")

		emails.On("Send", mock.Anything, mock.MatchedBy(func(req *models.EmailNotificationRequest) bool {
			return req.To == "ana@example.com" && req.ReplyTo == "" &&
				assert.ObjectsAreEqual([]string{"order-customer"}, req.Categories)
		})).Return(nil).Once()

		// Act
		err := svc.SendOrderNotifications(ctx, notificationFor(paidOrder(), 2))

		// Assert
		assert.NoError(t, err)
	})
}
