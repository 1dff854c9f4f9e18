package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"remit/internal/domain"
	"remit/internal/forex"
	"remit/internal/liquidity"
	"remit/internal/preflight"
	"remit/internal/registry"
	"remit/internal/routing"
	"remit/internal/store"
	"remit/internal/workflow"
	"remit/pkg/config"
	"remit/pkg/logger"
	"remit/pkg/validator"
)

func main() {
	useMemory := flag.Bool("memory", false, "use the in-memory store instead of Redis")
	liveRates := flag.Bool("live-rates", false, "query the configured forex API instead of the built-in demo rates")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logg := logger.New("simulate_remittance")

	fmt.Println("=========================================================")
	fmt.Println("REMIT - CORRESPONDENT BANKING REMITTANCE SIMULATION")
	fmt.Println("Demonstrating: Routing, Preflight Cascade & Approval Flow")
	fmt.Println("=========================================================")

	var kv store.KV
	var rateCache forex.RateCache
	if *useMemory {
		kv = store.NewMemoryKV()
	} else {
		redisKV, err := store.NewRedisKV(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisKV.Close()
		kv = redisKV
		rateCache = forex.NewRedisRateCache(redisKV.Client())
	}

	var rates forex.RateProvider = forex.NewStaticProvider(map[string]decimal.Decimal{
		"KRW-JPY": decimal.RequireFromString("0.09"),
		"JPY-USD": decimal.RequireFromString("0.0075"),
	})
	if *liveRates {
		rates = forex.NewHTTPProvider(cfg.Forex.Endpoint, cfg.Forex.APIKey, cfg.Forex.Timeout)
	}
	rates = forex.NewCachedProvider(rates, rateCache, cfg.Forex.CacheTTL, logg)

	banks := registry.NewService(kv, logg)
	router := routing.NewService(banks, logg)
	ledger := liquidity.NewService(banks, logg)

	feeRate := decimal.NewFromFloat(cfg.Settlement.FeePercent).Div(decimal.NewFromInt(100))
	calculator := preflight.NewService(banks, rates, router, feeRate, cfg.Settlement.MaxParticipants, logg)
	transactions := workflow.NewService(kv, ledger, validator.New(), logg)

	ctx := context.Background()

	fmt.Println("\n--- Step 1: Registering the KRW -> JPY -> USD corridor ---")
	corridor := []struct {
		code     string
		currency domain.Currency
	}{
		{"DEMOBANK1", "KRW"},
		{"DEMOBANK2", "JPY"},
		{"DEMOBANK3", "USD"},
	}
	for _, b := range corridor {
		if _, err := banks.RegisterBank(ctx, b.code, b.currency); err != nil {
			log.Fatalf("Failed to register %s: %v", b.code, err)
		}
		fmt.Printf("[PASS] Registered %s (%s)\n", b.code, b.currency)
	}

	mustCreate := func(owner, peer string) {
		if _, err := banks.CreateAccount(ctx, owner, peer); err != nil {
			log.Fatalf("Failed to create account %s -> %s: %v", owner, peer, err)
		}
	}
	mustCreate("DEMOBANK1", "DEMOBANK2")
	mustCreate("DEMOBANK2", "DEMOBANK3")

	fmt.Println("\n--- Step 2: Funding correspondent liquidity ---")
	if _, err := ledger.Apply(ctx, "DEMOBANK1", "DEMOBANK2", decimal.NewFromInt(100000)); err != nil {
		log.Fatalf("Failed to fund DEMOBANK1: %v", err)
	}
	if _, err := ledger.Apply(ctx, "DEMOBANK2", "DEMOBANK3", decimal.NewFromInt(10000)); err != nil {
		log.Fatalf("Failed to fund DEMOBANK2: %v", err)
	}
	fmt.Println("[PASS] Liquidity funded")

	fmt.Println("\n--- Step 3: Preflighting 1000 KRW from DEMOBANK1 to DEMOBANK3 ---")
	prepared, err := calculator.PreflightAll(ctx, "DEMOBANK1", "DEMOBANK3", decimal.NewFromInt(1000))
	if err != nil {
		log.Fatalf("Preflight failed: %v", err)
	}
	if len(prepared) == 0 {
		log.Fatal("No settlement route found")
	}
	for i, agreements := range prepared {
		fmt.Printf("Route %d:\n", i+1)
		for _, a := range agreements {
			fmt.Printf("  %s  fee=%s %s  forwards=%s %s\n",
				a.BankCode, a.CollectedFee, a.CurrencyCode, a.Amount, a.CurrencyCode)
		}
	}

	fmt.Println("\n--- Step 4: Proposing and approving the transaction ---")
	tx, err := transactions.Propose(ctx, "DEMOBANK1", &workflow.ProposeRequest{
		Sender:     domain.PartyInfo{FirstName: "Minsu", LastName: "Kim", AccountNumber: "110-234-567890"},
		Receiver:   domain.PartyInfo{FirstName: "Emily", LastName: "Carter", AccountNumber: "021000021-44556"},
		Agreements: prepared[0],
	})
	if err != nil {
		log.Fatalf("Propose failed: %v", err)
	}
	fmt.Printf("[PASS] Proposed transaction %s\n", tx.ID)

	for _, approver := range []string{"DEMOBANK2", "DEMOBANK3"} {
		tx, err = transactions.Approve(ctx, approver, tx.ID, workflow.ChoiceApprove, "")
		if err != nil {
			log.Fatalf("Approval by %s failed: %v", approver, err)
		}
		fmt.Printf("[PASS] %s approved (status=%d)\n", approver, tx.Status)
	}

	if tx.Status != domain.TransactionDone {
		log.Fatalf("Expected transaction to be done, got status %d", tx.Status)
	}

	fmt.Println("\n--- Step 5: Final correspondent balances ---")
	printBalance := func(owner, counterparty string) {
		balance, err := ledger.Balance(ctx, owner, counterparty)
		if err != nil {
			log.Fatalf("Failed to read balance %s/%s: %v", owner, counterparty, err)
		}
		fmt.Printf("  %s against %s: %s\n", owner, counterparty, balance)
	}
	printBalance("DEMOBANK1", "DEMOBANK2")
	printBalance("DEMOBANK2", "DEMOBANK1")
	printBalance("DEMOBANK2", "DEMOBANK3")
	printBalance("DEMOBANK3", "DEMOBANK2")

	fmt.Println("\n=========================================================")
	fmt.Println("REMITTANCE SIMULATION COMPLETE")
	fmt.Println("=========================================================")
}
