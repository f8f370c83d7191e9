package service

import (
	"bytes"
	"context"
	stdErrors "errors"
	"fmt"
	"html"
	htmlTemplate "html/template"
	"log/slog"
	textTemplate "text/template"

	"github.com/malaura/storefront/internal/api/middleware"
	"github.com/malaura/storefront/internal/loyalty"
	"github.com/malaura/storefront/internal/metrics"
	"github.com/malaura/storefront/internal/models"
	"github.com/malaura/storefront/internal/pricing"
	"github.com/malaura/storefront/pkg/sendgrid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/shopspring/decimal"
)

type NotificationService interface {
	// SendOrderNotifications emails the store owner and the customer. Both sends are
	// attempted; the returned error joins whatever failed.
	SendOrderNotifications(ctx context.Context, n *models.OrderNotification) error
}

type notificationService struct {
	emailService sendgrid.EmailService
	ownerEmail   string
	storeName    string
	sanitizer    *bluemonday.Policy
}

func NewNotificationService(emailService sendgrid.EmailService, ownerEmail, storeName string) NotificationService {
	return &notificationService{
		emailService: emailService,
		ownerEmail:   ownerEmail,
		storeName:    storeName,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

type emailItem struct {
	Name      string
	Variant   string
	Quantity  int
	UnitPrice string
	LineTotal string
}

type emailData struct {
	StoreName          string
	OrderID            int64
	CustomerName       htmlTemplate.HTML
	CustomerEmail      htmlTemplate.HTML
	Address            htmlTemplate.HTML
	Pickup             bool
	Items              []emailItem
	Subtotal           string
	Shipping           string
	Total              string
	PaidOrders         int
	Tier               string
	NextTier           string
	OrdersToNextTier   int
	Milestone          bool
	OrdersToNextReward int
}

func (s *notificationService) SendOrderNotifications(ctx context.Context, n *models.OrderNotification) error {
	logger := middleware.LoggerFromContext(ctx).With(slog.Int64("orderId", n.Order.ID))

	data := s.buildData(n)

	var errs []error

	if s.ownerEmail != "" {
		req := &models.EmailNotificationRequest{
			To:         s.ownerEmail,
			ReplyTo:    n.Order.CustomerEmail,
			Subject:    fmt.Sprintf("Nuevo pedido #%d", n.Order.ID),
			Categories: []string{"order-owner"},
		}

		err := render(req, data, ownerTextTemplate, ownerHTMLTemplate)
		if err == nil {
			err = s.emailService.Send(ctx, req)
		}

		if err != nil {
			metrics.NotificationFailed("owner")
			logger.Error("Failed to send owner notification", slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("owner email: %w", err))
		}
	}

	req := &models.EmailNotificationRequest{
		To:         n.Order.CustomerEmail,
		ReplyTo:    s.ownerEmail,
		Subject:    fmt.Sprintf("Gracias por tu pedido #%d", n.Order.ID),
		Categories: []string{"order-customer"},
	}

	err := render(req, data, customerTextTemplate, customerHTMLTemplate)
	if err == nil {
		err = s.emailService.Send(ctx, req)
	}

	if err != nil {
		metrics.NotificationFailed("customer")
		logger.Error("Failed to send customer notification", slog.String("error", err.Error()))
		errs = append(errs, fmt.Errorf("customer email: %w", err))
	}

	if len(errs) == 0 {
		logger.Info("Order notifications sent", slog.Bool("milestone", n.Milestone))
	}

	return stdErrors.Join(errs...)
}

// clean strips any markup from customer supplied text. The result is already HTML escaped.
func (s *notificationService) clean(value string) htmlTemplate.HTML {
	return htmlTemplate.HTML(s.sanitizer.Sanitize(value))
}

func (s *notificationService) buildData(n *models.OrderNotification) emailData {
	order := n.Order

	items := make([]emailItem, 0, len(order.Items))
	for _, item := range order.Items {
		variant := item.Color
		if item.Finish != "" {
			if variant != "" {
				variant += " / "
			}
			variant += item.Finish
		}

		name := item.ProductName
		if name == "" {
			name = fmt.Sprintf("Producto %d", item.ProductID)
		}

		items = append(items, emailItem{
			Name:      name,
			Variant:   variant,
			Quantity:  item.Quantity,
			UnitPrice: item.PricePerUnit.StringFixed(2),
			LineTotal: item.PricePerUnit.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2),
		})
	}

	data := emailData{
		StoreName:          s.storeName,
		OrderID:            order.ID,
		CustomerName:       s.clean(order.CustomerName),
		CustomerEmail:      s.clean(order.CustomerEmail),
		Address:            s.clean(order.ShippingAddress),
		Pickup:             order.DeliveryMethod == pricing.DeliveryPickup,
		Items:              items,
		Subtotal:           order.Subtotal.StringFixed(2),
		Shipping:           order.ShippingCost.StringFixed(2),
		Total:              order.TotalAmount.StringFixed(2),
		PaidOrders:         n.PaidOrders,
		Tier:               n.Tier.Name,
		Milestone:          n.Milestone,
		OrdersToNextReward: loyalty.OrdersToNextReward(n.PaidOrders),
	}

	if n.Loyalty.NextTier != nil && n.Loyalty.OrdersToNextTier != nil {
		data.NextTier = n.Loyalty.NextTier.Name
		data.OrdersToNextTier = *n.Loyalty.OrdersToNextTier
	}

	return data
}

// render fills the text and HTML bodies of req from the given templates.
func render(req *models.EmailNotificationRequest, data emailData, text *textTemplate.Template, page *htmlTemplate.Template) error {
	var textBody bytes.Buffer
	if err := text.Execute(&textBody, textData(data)); err != nil {
		return fmt.Errorf("rendering text body: %w", err)
	}

	var htmlBody bytes.Buffer
	if err := page.Execute(&htmlBody, data); err != nil {
		return fmt.Errorf("rendering html body: %w", err)
	}

	req.Content = textBody.String()
	req.HTMLContent = htmlBody.String()

	return nil
}

// textData turns the pre-escaped HTML fields back into plain text.
func textData(data emailData) map[string]any {
	return map[string]any{
		"StoreName":          data.StoreName,
		"OrderID":            data.OrderID,
		"CustomerName":       html.UnescapeString(string(data.CustomerName)),
		"CustomerEmail":      html.UnescapeString(string(data.CustomerEmail)),
		"Address":            html.UnescapeString(string(data.Address)),
		"Pickup":             data.Pickup,
		"Items":              data.Items,
		"Subtotal":           data.Subtotal,
		"Shipping":           data.Shipping,
		"Total":              data.Total,
		"PaidOrders":         data.PaidOrders,
		"Tier":               data.Tier,
		"NextTier":           data.NextTier,
		"OrdersToNextTier":   data.OrdersToNextTier,
		"Milestone":          data.Milestone,
		"OrdersToNextReward": data.OrdersToNextReward,
	}
}
