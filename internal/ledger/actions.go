// Package ledger implements the ledger inspection commands.
package ledger

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/cejezed/kavelarchitect/models"
	ledgerpkg "github.com/cejezed/kavelarchitect/pkg/ledger"
)

func ShowAction(c *cli.Context) error {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	led := ledgerpkg.Open(cfg.State.LedgerFile)

	urls := led.URLs()
	if len(urls) == 0 {
		fmt.Println("Ledger is empty")
		return nil
	}
	for _, u := range urls {
		fmt.Println(u)
	}
	return nil
}

func StatsAction(c *cli.Context) error {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	led := ledgerpkg.Open(cfg.State.LedgerFile)

	fmt.Printf("Ledger file: %s\n", cfg.State.LedgerFile)
	fmt.Printf("Processed URLs: %d\n", len(led.URLs()))
	fmt.Printf("Processed IDs:  %d\n", len(led.IDs()))
	return nil
}
