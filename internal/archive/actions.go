// Package archive implements the archive inspection commands.
package archive

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cejezed/kavelarchitect/models"
	archivepkg "github.com/cejezed/kavelarchitect/pkg/archive"
)

func ListAction(c *cli.Context) error {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := archivepkg.Open(cfg.Archive.Database)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer db.Close()

	entries, err := db.List(c.String("status"), c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list archive: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No listings found")
		return nil
	}

	fmt.Printf("%-10s %-10s %-24s %-16s %-10s %-9s %s\n",
		"ID", "Status", "Place", "Province", "Price", "Surface", "URL")
	fmt.Println(strings.Repeat("-", 110))
	for _, e := range entries {
		price, surface := "-", "-"
		if e.Price > 0 {
			price = fmt.Sprintf("%d", e.Price)
		}
		if e.Surface > 0 {
			surface = fmt.Sprintf("%d m²", e.Surface)
		}
		fmt.Printf("%-10s %-10s %-24s %-16s %-10s %-9s %s\n",
			e.ListingID, e.Status, e.Place, e.Province, price, surface, e.SourceURL)
	}
	fmt.Printf("\nTotal: %d listings\n", len(entries))
	return nil
}

func StatsAction(c *cli.Context) error {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	db, err := archivepkg.Open(cfg.Archive.Database)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		return fmt.Errorf("failed to collect stats: %w", err)
	}
	runs, err := db.RunCount()
	if err != nil {
		return fmt.Errorf("failed to count runs: %w", err)
	}

	fmt.Printf("Archive: %s\n", db.Path())
	total := 0
	for _, status := range []string{"published", "duplicate", "skipped", "failed", "dry-run"} {
		if n, ok := stats[status]; ok {
			fmt.Printf("  %-10s %d\n", status, n)
			total += n
		}
	}
	fmt.Printf("  %-10s %d\n", "total", total)
	fmt.Printf("Runs: %d\n", runs)
	return nil
}
