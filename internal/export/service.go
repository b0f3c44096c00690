package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/rentledger/internal/asset"
	"github.com/MrJamesThe3rd/rentledger/internal/bill"
)

const unknownAsset = "Unknown asset"

// Bills lists the bills to export.
type Bills interface {
	List(ctx context.Context, filter bill.ListFilter) ([]*bill.Bill, error)
}

// Assets resolves the asset a bill was issued for.
type Assets interface {
	Get(ctx context.Context, id uuid.UUID) (*asset.Asset, error)
}

// Item is one exported bill and the statement written for it.
type Item struct {
	Bill       *bill.Bill
	AssetTitle string
	FilePath   string
}

// Service renders bill statements to PDF files.
type Service struct {
	bills  Bills
	assets Assets
	amount *message.Printer
}

func NewService(bills Bills, assets Assets) *Service {
	return &Service{
		bills:  bills,
		assets: assets,
		amount: message.NewPrinter(language.English),
	}
}

// Export writes one PDF statement per bill matching the filter into
// outputDir and returns the written items in list order.
func (s *Service) Export(ctx context.Context, filter bill.ListFilter, outputDir string) ([]Item, error) {
	bills, err := s.bills.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	titles := make(map[uuid.UUID]string)
	items := make([]Item, 0, len(bills))

	for _, b := range bills {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		title, ok := titles[b.AssetID]
		if !ok {
			title, err = s.assetTitle(ctx, b.AssetID)
			if err != nil {
				return nil, err
			}

			titles[b.AssetID] = title
		}

		doc, err := s.renderStatement(b, title)
		if err != nil {
			return nil, fmt.Errorf("rendering statement for bill %s: %w", b.ID, err)
		}

		path := filepath.Join(outputDir, fileName(b, title))
		if err := os.WriteFile(path, doc, 0o644); err != nil {
			return nil, fmt.Errorf("writing statement for bill %s: %w", b.ID, err)
		}

		items = append(items, Item{Bill: b, AssetTitle: title, FilePath: path})
	}

	return items, nil
}

func (s *Service) assetTitle(ctx context.Context, id uuid.UUID) (string, error) {
	a, err := s.assets.Get(ctx, id)
	if errors.Is(err, asset.ErrNotFound) {
		return unknownAsset, nil
	}

	if err != nil {
		return "", fmt.Errorf("getting asset %s: %w", id, err)
	}

	return a.Title, nil
}

// GenerateSummary builds a plain-text statement with one line per item.
func (s *Service) GenerateSummary(items []Item) string {
	var sb strings.Builder

	for _, item := range items {
		b := item.Bill

		file := "no file"
		if item.FilePath != "" {
			file = filepath.Base(item.FilePath)
		}

		fmt.Fprintf(&sb, "* %s | %s | total %s | paid %s | %s | %s\n",
			b.PeriodStart.Format("2006-01-02"),
			item.AssetTitle,
			s.format(b.Total),
			s.format(b.PaidAmount),
			b.Status,
			file,
		)
	}

	return sb.String()
}

func (s *Service) format(amount int64) string {
	return s.amount.Sprintf("%d", amount)
}

// fileName is YYYYMMDD_Title_shortid.pdf with the title reduced to
// filename-safe characters.
func fileName(b *bill.Bill, title string) string {
	safe := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}

		return '_'
	}, title)

	return fmt.Sprintf("%s_%s_%s.pdf", b.PeriodStart.Format("20060102"), safe, b.ID.String()[:8])
}
