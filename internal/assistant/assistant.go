// Package assistant answers customer messages: it tracks the conversation,
// spots order references, assembles context and asks the model for a reply.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayeshastore/ayesha/internal/llm"
	"github.com/ayeshastore/ayesha/internal/metrics"
	"github.com/ayeshastore/ayesha/internal/orders"
	"github.com/ayeshastore/ayesha/internal/session"
)

// DefaultSessionID is used when the caller does not name a session.
const DefaultSessionID = "default"

type Assistant struct {
	store   session.Store
	catalog *orders.Catalog
	gateway llm.Gateway
	locks   *session.Locker
	log     *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// New wires an Assistant. m may be nil.
func New(store session.Store, catalog *orders.Catalog, gateway llm.Gateway, locks *session.Locker, log *zap.Logger, m *metrics.Metrics) *Assistant {
	return &Assistant{
		store:   store,
		catalog: catalog,
		gateway: gateway,
		locks:   locks,
		log:     log.With(zap.String("component", "assistant")),
		metrics: m,
		now:     time.Now,
	}
}

// GetOrCreateSession returns the session for id, starting an empty one on first use.
func (a *Assistant) GetOrCreateSession(ctx context.Context, id string) (*session.Session, error) {
	return a.store.GetOrCreate(ctx, normalizeID(id))
}

// BuildContext renders the context block for id. Unknown sessions yield the
// store knowledge alone.
func (a *Assistant) BuildContext(ctx context.Context, id string) (string, error) {
	sess, err := a.store.Get(ctx, normalizeID(id))
	if err != nil {
		return "", err
	}
	return RenderContext(sess, a.catalog), nil
}

// AppendExchange records a completed exchange.
func (a *Assistant) AppendExchange(ctx context.Context, id, customer, reply string) error {
	return a.store.Append(ctx, normalizeID(id), session.Exchange{
		ID:        uuid.NewString(),
		Customer:  customer,
		Assistant: reply,
		CreatedAt: a.now().UTC(),
	})
}

// Ask handles one customer message and returns the model's reply. Any
// failure is returned as an *Error and leaves the history untouched.
func (a *Assistant) Ask(ctx context.Context, sessionID, message string) (string, error) {
	sessionID = normalizeID(sessionID)
	message = strings.TrimSpace(message)

	var reply string
	err := a.locks.WithLock(sessionID, func() (err error) {
		// A panicking gateway or store is reported like any other failure.
		defer func() {
			if r := recover(); r != nil {
				err = &Error{Kind: KindInternal, Err: fmt.Errorf("panic: %v", r)}
			}
		}()

		sess, err := a.store.GetOrCreate(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("loading session: %w", err)
		}

		if orderID, ok := DetectOrderReference(message); ok {
			if err := a.store.SetOrder(ctx, sessionID, orderID); err != nil {
				return fmt.Errorf("saving order reference: %w", err)
			}
			sess.OrderID = orderID

			_, known := a.catalog.Lookup(orderID)
			a.metrics.ObserveOrderReference(known)
			a.log.Debug("order reference detected",
				zap.String("session_id", sessionID),
				zap.String("order_id", orderID),
				zap.Bool("known", known))
		}

		prompt := BuildPrompt(RenderContext(sess, a.catalog), message)

		start := time.Now()
		text, err := a.gateway.Complete(ctx, prompt)
		a.metrics.ObserveGateway(a.gateway.Provider(), err, time.Since(start))
		if err != nil {
			return err
		}

		reply = strings.TrimSpace(text)
		if reply == "" {
			return fmt.Errorf("%w: empty reply", llm.ErrBadResponse)
		}

		if err := a.AppendExchange(ctx, sessionID, message, reply); err != nil {
			return fmt.Errorf("saving exchange: %w", err)
		}
		return nil
	})
	if err != nil {
		ae := Classify(err)
		a.metrics.ObserveAsk(string(ae.Kind))
		a.log.Error("ask failed",
			zap.String("session_id", sessionID),
			zap.String("kind", string(ae.Kind)),
			zap.Error(ae.Err))
		return "", ae
	}

	a.metrics.ObserveAsk("ok")
	return reply, nil
}

func normalizeID(id string) string {
	if id == "" {
		return DefaultSessionID
	}
	return id
}
