package report

import (
	"context"
	"fmt"

	"github.com/foliotrack/folio/internal/common"
	"github.com/foliotrack/folio/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.ReportService = (*Service)(nil)

// Service implements ReportService on top of the portfolio deriver.
type Service struct {
	portfolioService interfaces.PortfolioService
	logger           *common.Logger
}

// NewService creates a new report service.
func NewService(portfolioService interfaces.PortfolioService, logger *common.Logger) *Service {
	return &Service{
		portfolioService: portfolioService,
		logger:           logger,
	}
}

// AllocationChart renders the current market-value allocation as a PNG pie.
func (s *Service) AllocationChart(ctx context.Context) ([]byte, error) {
	holdings, err := s.portfolioService.Holdings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to derive holdings: %w", err)
	}

	slices := make([]allocationSlice, 0, len(holdings))
	for _, h := range holdings {
		slices = append(slices, allocationSlice{Label: h.Ticker, Value: h.MarketValue})
	}

	png, err := renderAllocationChart(slices)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Int("holdings", len(slices)).
		Int("bytes", len(png)).
		Msg("Allocation chart rendered")

	return png, nil
}
