package digitalocean

import (
	"context"
	"fmt"

	"github.com/digitalocean/godo"
)

type client struct {
	api *godo.Client
}

func NewClient(token string) *client {
	return &client{
		api: godo.NewFromToken(token),
	}
}

// GetBalanceMessage summarizes the hosting account balance for the status
// endpoint.
func (c *client) GetBalanceMessage(ctx context.Context) (string, error) {
	b, _, err := c.api.Balance.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching balance: %v", err)
	}

	return fmt.Sprintf("month-to-date $%v, account $%v", b.MonthToDateBalance, b.AccountBalance), nil
}
