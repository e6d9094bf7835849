package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/travelstats/internal/models"
)

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func day(n int) time.Time {
	return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func datePtr(t time.Time) *time.Time {
	return &t
}

func split(userID string, amount float64) models.Split {
	return models.Split{UserID: userID, Amount: dec(amount)}
}

var aliasedUser = models.User{ID: "u1", RealID: "u2", AuthUserID: "auth-1"}
