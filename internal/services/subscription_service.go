package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/stripe/stripe-go/v75"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	"github.com/stripe/stripe-go/v75/customer"
	"github.com/stripe/stripe-go/v75/price"
	"github.com/stripe/stripe-go/v75/subscription"
	"github.com/stripe/stripe-go/v75/webhook"

	"redbutton/internal/models/db_models"
	"redbutton/internal/models/response_models"
	"redbutton/internal/repositories"
	"redbutton/pkg/config"
	"redbutton/pkg/utils"
)

const (
	monthlyPeriodSeconds = 30 * 24 * 60 * 60
	yearlyPeriodSeconds  = 365 * 24 * 60 * 60

	trialDays = 7
)

// StripeCatalog holds the price ids resolved from the configured products
// at startup. The process fails fast if resolution is impossible.
type StripeCatalog struct {
	MonthlyProductID string
	YearlyProductID  string
	MonthlyPriceID   string
	YearlyPriceID    string
}

// ResolveStripeCatalog looks up the active recurring price for each
// configured product.
func ResolveStripeCatalog(cfg *config.Config) (*StripeCatalog, error) {
	stripe.Key = cfg.StripeSecretKey

	monthlyPrice, err := activeRecurringPrice(cfg.StripeMonthlyProductID)
	if err != nil {
		return nil, err
	}
	yearlyPrice, err := activeRecurringPrice(cfg.StripeYearlyProductID)
	if err != nil {
		return nil, err
	}

	log.Printf("Stripe catalog resolved: monthly price %s, yearly price %s", monthlyPrice, yearlyPrice)

	return &StripeCatalog{
		MonthlyProductID: cfg.StripeMonthlyProductID,
		YearlyProductID:  cfg.StripeYearlyProductID,
		MonthlyPriceID:   monthlyPrice,
		YearlyPriceID:    yearlyPrice,
	}, nil
}

func activeRecurringPrice(productID string) (string, error) {
	params := &stripe.PriceListParams{}
	params.Product = stripe.String(productID)
	params.Active = stripe.Bool(true)
	params.Type = stripe.String("recurring")
	params.Limit = stripe.Int64(1)

	it := price.List(params)
	for it.Next() {
		return it.Price().ID, nil
	}
	if err := it.Err(); err != nil {
		return "", err
	}
	return "", utils.ErrInvalidProduct
}

// CheckoutResult is what session creation hands back: either a new hosted
// session, or confirmation that a subscription already exists.
type CheckoutResult struct {
	AlreadySubscribed  bool
	SubscriptionID     string
	SubscriptionStatus string
	SessionID          string
	URL                string
}

type SubscriptionServiceInterface interface {
	Products() map[string]response_models.ProductInfo
	CreateCheckoutSession(ctx context.Context, user *db_models.User, productID string) (*CheckoutResult, error)
	Status(ctx context.Context, userID string) (*response_models.SubscriptionStatus, error)
	Restore(ctx context.Context, userID string) (*response_models.SubscriptionStatus, bool, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type SubscriptionService struct {
	cfg          *config.Config
	catalog      *StripeCatalog
	userDataRepo repositories.UserDataRepository
}

func NewSubscriptionService(
	cfg *config.Config,
	catalog *StripeCatalog,
	userDataRepo repositories.UserDataRepository,
) SubscriptionServiceInterface {
	stripe.Key = cfg.StripeSecretKey
	return &SubscriptionService{
		cfg:          cfg,
		catalog:      catalog,
		userDataRepo: userDataRepo,
	}
}

func (s *SubscriptionService) Products() map[string]response_models.ProductInfo {
	return map[string]response_models.ProductInfo{
		"monthly": {
			ID:          s.catalog.MonthlyProductID,
			PriceID:     s.catalog.MonthlyPriceID,
			Name:        "RedButton Monthly",
			Description: "Monthly subscription to RedButton",
			Interval:    "month",
			TrialDays:   trialDays,
		},
		"yearly": {
			ID:          s.catalog.YearlyProductID,
			PriceID:     s.catalog.YearlyPriceID,
			Name:        "RedButton Yearly",
			Description: "Yearly subscription to RedButton",
			Interval:    "year",
			TrialDays:   trialDays,
		},
	}
}

func (s *SubscriptionService) CreateCheckoutSession(ctx context.Context, user *db_models.User, productID string) (*CheckoutResult, error) {
	if productID != s.catalog.MonthlyProductID && productID != s.catalog.YearlyProductID {
		return nil, utils.ErrInvalidProduct
	}

	userID := user.ID.String()
	data, err := s.userDataRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if data == nil {
		return nil, utils.ErrUserDataNotFound
	}

	if data.StripeCustomerID == nil {
		params := &stripe.CustomerParams{
			Email: stripe.String(user.Email),
		}
		params.AddMetadata("userId", userID)

		cus, err := customer.New(params)
		if err != nil {
			log.Printf("Failed to create Stripe customer for user %s: %v", userID, err)
			return nil, utils.ErrUpstreamFailure
		}
		data.StripeCustomerID = stripe.String(cus.ID)
		if err := s.userDataRepo.Save(ctx, data); err != nil {
			return nil, utils.ErrDatabaseError
		}
	}

	// A customer with a live subscription gets reconciled, not double-billed.
	if active, err := s.findActiveSubscription(*data.StripeCustomerID); err != nil {
		return nil, err
	} else if active != nil {
		applySubscription(data, active, s.catalog.MonthlyPriceID)
		if err := s.userDataRepo.Save(ctx, data); err != nil {
			return nil, utils.ErrDatabaseError
		}
		return &CheckoutResult{
			AlreadySubscribed:  true,
			SubscriptionID:     active.ID,
			SubscriptionStatus: string(active.Status),
		}, nil
	}

	priceID := s.catalog.MonthlyPriceID
	if productID == s.catalog.YearlyProductID {
		priceID = s.catalog.YearlyPriceID
	}

	params := &stripe.CheckoutSessionParams{
		Customer:           data.StripeCustomerID,
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(trialDays),
			Metadata: map[string]string{
				"userId": userID,
			},
		},
		SuccessURL: stripe.String(s.cfg.StripeSuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.cfg.StripeCancelURL),
	}
	params.AddMetadata("userId", userID)

	session, err := checkoutsession.New(params)
	if err != nil {
		log.Printf("Failed to create checkout session for user %s: %v", userID, err)
		return nil, utils.ErrUpstreamFailure
	}

	return &CheckoutResult{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

func (s *SubscriptionService) Status(ctx context.Context, userID string) (*response_models.SubscriptionStatus, error) {
	data, err := s.userDataRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if data == nil {
		return nil, utils.ErrUserDataNotFound
	}
	return statusOf(data), nil
}

// Restore re-queries the billing provider by stored customer id and
// reconciles, or clears subscription fields when nothing is active.
func (s *SubscriptionService) Restore(ctx context.Context, userID string) (*response_models.SubscriptionStatus, bool, error) {
	data, err := s.userDataRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, false, utils.ErrDatabaseError
	}
	if data == nil {
		return nil, false, utils.ErrUserDataNotFound
	}
	if data.StripeCustomerID == nil {
		return nil, false, utils.ErrNoStripeCustomer
	}

	active, err := s.findActiveSubscription(*data.StripeCustomerID)
	if err != nil {
		return nil, false, err
	}

	if active == nil {
		clearSubscription(data)
		if err := s.userDataRepo.Save(ctx, data); err != nil {
			return nil, false, utils.ErrDatabaseError
		}
		return statusOf(data), false, nil
	}

	applySubscription(data, active, s.catalog.MonthlyPriceID)
	if err := s.userDataRepo.Save(ctx, data); err != nil {
		return nil, false, utils.ErrDatabaseError
	}
	return statusOf(data), true, nil
}

// HandleWebhook verifies and dispatches a billing event. Any error must be
// answered with a 4xx so the provider's retry policy is not tripped by
// bad payloads.
func (s *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		return utils.ErrInvalidCredentials
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return utils.ErrMissingFields
		}
		return s.reconcileFromEvent(ctx, &sub, false)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return utils.ErrMissingFields
		}
		return s.reconcileFromEvent(ctx, &sub, true)

	default:
		// Acknowledge unhandled event types so they are not retried.
		return nil
	}
}

func (s *SubscriptionService) reconcileFromEvent(ctx context.Context, sub *stripe.Subscription, deleted bool) error {
	data, err := s.resolveOwner(ctx, sub)
	if err != nil {
		return err
	}

	if deleted {
		clearSubscription(data)
	} else {
		applySubscription(data, sub, s.catalog.MonthlyPriceID)
	}

	if err := s.userDataRepo.Save(ctx, data); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

// resolveOwner finds the document a subscription event belongs to, first by
// the userId metadata set at checkout, then by the billing customer id.
func (s *SubscriptionService) resolveOwner(ctx context.Context, sub *stripe.Subscription) (*db_models.UserData, error) {
	if userID := sub.Metadata["userId"]; userID != "" {
		data, err := s.userDataRepo.FindByUserID(ctx, userID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if data != nil {
			return data, nil
		}
	}

	if sub.Customer != nil && sub.Customer.ID != "" {
		data, err := s.userDataRepo.FindByStripeCustomerID(ctx, sub.Customer.ID)
		if err != nil {
			return nil, utils.ErrDatabaseError
		}
		if data != nil {
			return data, nil
		}
	}

	log.Printf("Webhook: no owner for subscription %s", sub.ID)
	return nil, utils.ErrUserNotFound
}

func (s *SubscriptionService) findActiveSubscription(customerID string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionListParams{}
	params.Customer = stripe.String(customerID)
	params.Status = stripe.String("all")
	params.Limit = stripe.Int64(10)

	it := subscription.List(params)
	for it.Next() {
		sub := it.Subscription()
		if sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing {
			return sub, nil
		}
	}
	if err := it.Err(); err != nil {
		log.Printf("Failed to list subscriptions for customer %s: %v", customerID, err)
		return nil, utils.ErrUpstreamFailure
	}
	return nil, nil
}

// applySubscription derives the cached subscription fields from a provider
// subscription object. All reconciliation paths share this so they converge
// to identical state.
func applySubscription(data *db_models.UserData, sub *stripe.Subscription, monthlyPriceID string) {
	data.IsSubscribed = sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing

	subType := db_models.SubscriptionYearly
	var priceID string
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceID = sub.Items.Data[0].Price.ID
		if priceID == monthlyPriceID {
			subType = db_models.SubscriptionMonthly
		}
	}
	data.SubscriptionType = stripe.String(subType)

	periodEnd := sub.CurrentPeriodEnd
	if periodEnd <= 0 {
		// Degraded provider data: derive from the period start when we can.
		if sub.CurrentPeriodStart > 0 {
			if subType == db_models.SubscriptionMonthly {
				periodEnd = sub.CurrentPeriodStart + monthlyPeriodSeconds
			} else {
				periodEnd = sub.CurrentPeriodStart + yearlyPeriodSeconds
			}
		} else {
			log.Printf("No valid period end or fallback for subscription %s", sub.ID)
		}
	}
	if periodEnd > 0 {
		data.SubscriptionEnd = stripe.Int64(periodEnd)
	} else {
		data.SubscriptionEnd = nil
	}

	data.StripeSubscriptionID = stripe.String(sub.ID)
	if priceID != "" {
		data.ActiveProductID = stripe.String(priceID)
	} else {
		data.ActiveProductID = nil
	}
	if data.StripeCustomerID == nil && sub.Customer != nil && sub.Customer.ID != "" {
		data.StripeCustomerID = stripe.String(sub.Customer.ID)
	}
}

func clearSubscription(data *db_models.UserData) {
	data.IsSubscribed = false
	data.SubscriptionType = nil
	data.SubscriptionEnd = nil
	data.StripeSubscriptionID = nil
	data.ActiveProductID = nil
}

func statusOf(data *db_models.UserData) *response_models.SubscriptionStatus {
	return &response_models.SubscriptionStatus{
		IsSubscribed:     data.IsSubscribed,
		SubscriptionType: data.SubscriptionType,
		SubscriptionEnd:  data.SubscriptionEnd,
		ActiveProductID:  data.ActiveProductID,
	}
}
