package entity

import (
	"fmt"
	"net/url"
	"time"

	"cloud.google.com/go/civil"
)

// QueryWindow is the inclusive date range requested from the API.
type QueryWindow struct {
	From civil.Date `json:"from"`
	To   civil.Date `json:"to"`
}

// NewQueryWindow calcula a janela "N dias atrás até hoje" a partir de now.
func NewQueryWindow(now time.Time, days int) (QueryWindow, error) {
	if days < 0 {
		return QueryWindow{}, fmt.Errorf("lookback days must not be negative, got %d", days)
	}
	to := civil.DateOf(now)
	return QueryWindow{From: to.AddDays(-days), To: to}, nil
}

// Params renders the window as the desde/hasta query parameters.
func (w QueryWindow) Params() url.Values {
	params := url.Values{}
	params.Set("desde", w.From.String())
	params.Set("hasta", w.To.String())
	return params
}

func (w QueryWindow) String() string {
	return fmt.Sprintf("%s to %s", w.From, w.To)
}
