package payment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/sony/gobreaker/v2"
)

// MidtransGateway implements Gateway on Midtrans Snap (session creation) and
// the core API (cancellation). Calls go through a shared circuit breaker so a
// flapping gateway fails fast instead of tying up request workers.
type MidtransGateway struct {
	snap snap.Client
	core coreapi.Client
	cb   *gobreaker.CircuitBreaker[any]
}

func NewMidtransGateway(serverKey string, production bool, timeout time.Duration) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	g := &MidtransGateway{}
	g.snap.New(serverKey, env)
	g.core.New(serverKey, env)

	// the SDK has no context support, so the deadline lives on its HTTP client
	hc := midtrans.GetHttpClient(env)
	hc.HttpClient = &http.Client{Timeout: timeout}
	g.snap.HttpClient = hc
	g.core.HttpClient = hc

	g.cb = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "midtrans",
		Timeout: 30 * time.Second,
	})
	return g
}

func (g *MidtransGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	out, err := g.execute(ctx, func() (any, error) {
		resp, mErr := g.snap.CreateTransaction(&snap.Request{
			TransactionDetails: midtrans.TransactionDetails{
				OrderID:  req.OrderID,
				GrossAmt: req.GrossAmount,
			},
		})
		if mErr != nil {
			return nil, mErr
		}
		return &Session{RedirectURL: resp.RedirectURL, Token: resp.Token}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("midtrans create session: %w", err)
	}
	return out.(*Session), nil
}

func (g *MidtransGateway) CancelSession(ctx context.Context, orderID string) error {
	_, err := g.execute(ctx, func() (any, error) {
		if _, mErr := g.core.CancelTransaction(orderID); mErr != nil {
			return nil, mErr
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("midtrans cancel: %w", err)
	}
	return nil
}

// execute runs fn through the breaker but answers as soon as ctx is done; an
// abandoned call finishes in the background and only feeds the breaker stats.
func (g *MidtransGateway) execute(ctx context.Context, fn func() (any, error)) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		out any
		err error
	}
	ch := make(chan result, 1)
	go func() {
		out, err := g.cb.Execute(fn)
		ch <- result{out, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.out, r.err
	}
}
