package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"relaybot/internal/config"
	"relaybot/internal/provider"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run diagnostic checks on your relaybot setup",
		Long: `Verifies that credentials, configuration, and both upstream APIs are
reachable. Reports pass/fail for each check.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("relaybot doctor v%s\n", version)
			fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

			passed := 0
			failed := 0

			_ = godotenv.Load()

			// 1. Required secrets present
			for _, name := range []string{"TELEGRAM_TOKEN", "GEMINI_API_KEY"} {
				if os.Getenv(name) == "" {
					printFail(name, "not set")
					failed++
				} else {
					printPass(name, "set")
					passed++
				}
			}

			// 2. Config loads and validates
			cfg, err := config.Load(configPath)
			if err != nil {
				printFail("Config", err.Error())
				failed++
			} else {
				printPass("Config", "valid")
				passed++
			}

			if failed > 0 || cfg == nil {
				fmt.Printf("\nResults: %d passed, %d failed\n", passed, failed)
				return fmt.Errorf("%d check(s) failed", failed)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			// 3. Telegram API reachable
			if bot, err := tgbotapi.NewBotAPI(os.Getenv("TELEGRAM_TOKEN")); err != nil {
				printFail("Telegram API", err.Error())
				failed++
			} else {
				printPass("Telegram API", "@"+bot.Self.UserName)
				passed++
			}

			// 4. Gemini API reachable
			gemini, err := provider.NewGemini(ctx, provider.GeminiConfig{
				APIKey: os.Getenv("GEMINI_API_KEY"),
				Model:  cfg.Gemini.Model,
				Logger: logger,
			})
			if err != nil {
				printFail("Gemini client", err.Error())
				failed++
			} else if err := gemini.Healthy(ctx); err != nil {
				printFail("Gemini API", err.Error())
				failed++
			} else {
				printPass("Gemini API", cfg.Gemini.Model)
				passed++
			}

			fmt.Printf("\n━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Printf("Results: %d passed, %d failed\n", passed, failed)
			if failed > 0 {
				fmt.Printf("\nPlease fix the failed checks before running relaybot.\n")
				return fmt.Errorf("%d check(s) failed", failed)
			}
			fmt.Printf("\nAll checks passed! relaybot is ready to run.\n")
			return nil
		},
	}
}

func printPass(check, detail string) {
	fmt.Printf("  [PASS] %-16s %s\n", check, detail)
}

func printFail(check, detail string) {
	fmt.Printf("  [FAIL] %-16s %s\n", check, detail)
}
