// Package erpdump pages through ERPDesk entities via the SDK and writes them
// out as newline-delimited JSON, one object per line, for offline analysis
// or backup.
package erpdump

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	erpdesk "github.com/erpdesk/erpdesk.go"
	"github.com/erpdesk/erpdesk.go/pkg/logger"
	"github.com/erpdesk/erpdesk.go/pkg/models"
)

// record is one NDJSON line of the dump.
type record struct {
	Entity string `json:"entity"`
	Data   any    `json:"data"`
}

// Do runs the dump described by config against the backend and writes the
// result to config.OutputPath().
func Do(ctx context.Context, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	var log logger.Logger
	if config.Verbose {
		log = logger.New(os.Stderr)
	}

	client, err := erpdesk.New(erpdesk.Config{
		Endpoint: config.Endpoint,
		Token:    config.Token,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	out, err := os.Create(config.OutputPath())
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	entities := config.Entities
	if len(entities) == 0 {
		entities = []string{"invoices", "reports", "companies", "systemlogs"}
	}
	for _, entity := range entities {
		if err := dumpEntity(ctx, client, entity, config.PageSize, out); err != nil {
			return fmt.Errorf("dumping %s: %w", entity, err)
		}
	}
	return nil
}

func dumpEntity(ctx context.Context, client *erpdesk.Client, entity string, pageSize int, out io.Writer) error {
	switch entity {
	case "invoices":
		svc := client.Invoices()
		return dumpPages(out, entity, func(page int) (int, []any, error) {
			svc.SetPage(page)
			items, err := svc.List(ctx, models.Filters{"pageSize": fmt.Sprint(pageSize)})
			return svc.State().Pagination.TotalPages, anySlice(items), err
		})
	case "reports":
		svc := client.Reports()
		return dumpPages(out, entity, func(page int) (int, []any, error) {
			svc.SetPage(page)
			items, err := svc.List(ctx, models.Filters{"pageSize": fmt.Sprint(pageSize)})
			return svc.State().Pagination.TotalPages, anySlice(items), err
		})
	case "companies":
		svc := client.Companies()
		return dumpPages(out, entity, func(page int) (int, []any, error) {
			svc.SetPage(page)
			items, err := svc.List(ctx, models.Filters{"pageSize": fmt.Sprint(pageSize)})
			return svc.State().Pagination.TotalPages, anySlice(items), err
		})
	case "systemlogs":
		svc := client.SystemLogs()
		return dumpPages(out, entity, func(page int) (int, []any, error) {
			svc.SetPage(page)
			items, err := svc.List(ctx, models.Filters{"pageSize": fmt.Sprint(pageSize)})
			return svc.State().Pagination.TotalPages, anySlice(items), err
		})
	default:
		return fmt.Errorf("unknown entity %q", entity)
	}
}

// dumpPages walks every page of one entity, writing each item as a line.
func dumpPages(out io.Writer, entity string, fetch func(page int) (totalPages int, items []any, err error)) error {
	enc := json.NewEncoder(out)
	for page := 1; ; page++ {
		totalPages, items, err := fetch(page)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := enc.Encode(record{Entity: entity, Data: item}); err != nil {
				return err
			}
		}
		if page >= totalPages {
			return nil
		}
	}
}

func anySlice[T any](items []T) []any {
	out := make([]any, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}
