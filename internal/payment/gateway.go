// Package payment wraps the hosted-checkout provider.  The rest of
// the application deals only in checkout sessions and completed
// checkout notifications; everything Stripe-specific stays here.
package payment

import (
    "encoding/json"
    "fmt"
    "math"

    "github.com/stripe/stripe-go/v82"
    "github.com/stripe/stripe-go/v82/checkout/session"
    "github.com/stripe/stripe-go/v82/webhook"
)

// Gateway creates checkout sessions and verifies webhook events.
type Gateway struct {
    webhookSecret string
    successURL    string
    cancelURL     string
}

// New configures the Stripe client and returns a Gateway.
func New(secretKey, webhookSecret, successURL, cancelURL string) *Gateway {
    stripe.Key = secretKey
    return &Gateway{
        webhookSecret: webhookSecret,
        successURL:    successURL,
        cancelURL:     cancelURL,
    }
}

// CheckoutSession is the subset of the gateway session the client
// needs to complete a payment.
type CheckoutSession struct {
    ID  string `json:"session_id"`
    URL string `json:"url"`
}

// CreateCheckoutSession opens a hosted checkout for a booking.  The
// booking ID travels as the session's client reference so the webhook
// can find the booking to confirm.  Amount is in the account
// currency; Stripe wants the smallest unit.
func (g *Gateway) CreateCheckoutSession(bookingID uint64, description string, amount float64) (CheckoutSession, error) {
    params := &stripe.CheckoutSessionParams{
        PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
        LineItems: []*stripe.CheckoutSessionLineItemParams{
            {
                PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
                    Currency: stripe.String("usd"),
                    ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
                        Name: stripe.String(description),
                    },
                    UnitAmount: stripe.Int64(int64(math.Round(amount * 100))),
                },
                Quantity: stripe.Int64(1),
            },
        },
        Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
        SuccessURL:        stripe.String(g.successURL),
        CancelURL:         stripe.String(g.cancelURL),
        ClientReferenceID: stripe.String(fmt.Sprintf("%d", bookingID)),
    }
    s, err := session.New(params)
    if err != nil {
        return CheckoutSession{}, err
    }
    return CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// CompletedCheckout carries the fields of a finished checkout session
// the webhook handler acts on.
type CompletedCheckout struct {
    BookingRef    string  // client reference id (the booking id)
    TransactionID string  // payment intent id, unique per charge
    Amount        float64 // amount actually charged
}

// ParseWebhook verifies the event signature and, when the event is a
// completed checkout session, extracts the completed checkout.  For
// any other (valid) event type it returns (nil, nil) so the caller
// can acknowledge and ignore it.  A signature mismatch or malformed
// payload returns an error.
func (g *Gateway) ParseWebhook(payload []byte, sigHeader string) (*CompletedCheckout, error) {
    event, err := webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
    if err != nil {
        return nil, err
    }
    if event.Type != "checkout.session.completed" {
        return nil, nil
    }
    var s stripe.CheckoutSession
    if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
        return nil, fmt.Errorf("parse checkout session: %w", err)
    }
    done := &CompletedCheckout{
        BookingRef: s.ClientReferenceID,
        Amount:     float64(s.AmountTotal) / 100.0,
    }
    if s.PaymentIntent != nil {
        done.TransactionID = s.PaymentIntent.ID
    }
    return done, nil
}
