package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inco-org/fincore-go/amort"
	"github.com/inco-org/fincore-go/engine"
)

func main() {
	fmt.Println("================================================================================")
	fmt.Println("FIXED-INCOME AMORTIZATION ENGINE EXAMPLES")
	fmt.Println("================================================================================")

	zeroDate := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	fmt.Println("\n1. BULLET: 12% a.y. fixed, 12-month term, principal 10,000")
	priceBulletFixed(zeroDate)

	fmt.Println("\n2. BULLET with a mid-term partial prepayment")
	priceBulletWithPrepayment(zeroDate)

	fmt.Println("\n3. DAILY RETURNS for the same Bullet operation")
	dailyReturnsForBullet(zeroDate)

	fmt.Println("\n================================================================================")
}

func priceBulletFixed(zeroDate time.Time) {
	principal := decimal.NewFromInt(10000)
	apy := decimal.NewFromInt(12)

	entries, err := amort.PreprocessBullet(zeroDate, 12, nil, nil, nil, nil)
	if err != nil {
		fmt.Println("   preprocess error:", err)
		return
	}

	payments, err := engine.GetPaymentsTable(principal, apy, entries, nil, engine.DayCount360, nil, false, engine.GainCurrent)
	if err != nil {
		fmt.Println("   payment error:", err)
		return
	}

	for _, p := range payments {
		fmt.Printf("   #%d %s  raw=%s  tax=%s  net=%s  bal=%s\n",
			p.No, p.Date.Format("2006-01-02"), p.Raw, p.Tax, p.Net, p.Bal)
	}
}

func priceBulletWithPrepayment(zeroDate time.Time) {
	principal := decimal.NewFromInt(10000)
	apy := decimal.NewFromInt(12)

	prepayments := []amort.Bare{
		{Date: zeroDate.AddDate(0, 6, 0), Value: decimal.NewFromInt(3000)},
	}
	entries, err := amort.PreprocessBullet(zeroDate, 12, nil, nil, prepayments, nil)
	if err != nil {
		fmt.Println("   preprocess error:", err)
		return
	}

	payments, err := engine.GetPaymentsTable(principal, apy, entries, nil, engine.DayCount360, nil, false, engine.GainCurrent)
	if err != nil {
		fmt.Println("   payment error:", err)
		return
	}

	for _, p := range payments {
		fmt.Printf("   #%d %s  raw=%s  tax=%s  net=%s  bal=%s\n",
			p.No, p.Date.Format("2006-01-02"), p.Raw, p.Tax, p.Net, p.Bal)
	}
}

func dailyReturnsForBullet(zeroDate time.Time) {
	principal := decimal.NewFromInt(10000)
	apy := decimal.NewFromInt(12)

	entries, err := amort.PreprocessBullet(zeroDate, 12, nil, nil, nil, nil)
	if err != nil {
		fmt.Println("   preprocess error:", err)
		return
	}

	daily, err := engine.GetDailyReturns(principal, apy, entries, nil, engine.DayCount360)
	if err != nil {
		fmt.Println("   daily-return error:", err)
		return
	}

	fmt.Printf("   %d daily rows; first=%s last=%s\n", len(daily), daily[0].Date.Format("2006-01-02"), daily[len(daily)-1].Date.Format("2006-01-02"))
}
