// ==============================================================================
// ROUTE FINDER SERVICE - internal/routing/service.go
// ==============================================================================
package routing

import (
	"context"

	"remit/internal/domain"
	"remit/pkg/logger"
)

// DefaultMaxParticipants bounds route length when the caller does not
// override it.
const DefaultMaxParticipants = 3

// Route is an ordered sequence of distinct bank codes from sender to
// receiver.
type Route []string

// Service enumerates settlement routes over the directed correspondent graph.
type Service struct {
	banks  BankReader
	logger logger.Logger
}

func NewService(banks BankReader, log logger.Logger) *Service {
	return &Service{
		banks:  banks,
		logger: log,
	}
}

// FindRoutes returns every simple path of length <= maxParticipants from
// sourceCode to targetCode, in correspondent-insertion depth-first order.
// A non-positive maxParticipants selects the default bound.
func (s *Service) FindRoutes(ctx context.Context, sourceCode, targetCode string, maxParticipants int) ([]Route, error) {
	if maxParticipants <= 0 {
		maxParticipants = DefaultMaxParticipants
	}

	routes := []Route{}
	if sourceCode == targetCode {
		return routes, nil
	}
	path := Route{sourceCode}

	if err := s.search(ctx, targetCode, maxParticipants, &path, &routes); err != nil {
		return nil, err
	}

	s.logger.Debug("Route search finished", map[string]interface{}{
		"source":       sourceCode,
		"target":       targetCode,
		"max_banks":    maxParticipants,
		"routes_found": len(routes),
	})

	return routes, nil
}

// search extends path one correspondent at a time, backtracking after each
// branch. The target check runs before the length cutoff so a path exactly at
// the bound still counts.
func (s *Service) search(ctx context.Context, targetCode string, maxParticipants int, path *Route, routes *[]Route) error {
	last := (*path)[len(*path)-1]
	if last == targetCode {
		found := make(Route, len(*path))
		copy(found, *path)
		*routes = append(*routes, found)
		return nil
	}
	if len(*path) == maxParticipants {
		return nil
	}

	bank, err := s.banks.ReadBank(ctx, last)
	if err != nil {
		return err
	}

	for _, next := range bank.Correspondents {
		if contains(*path, next) {
			// revisiting a bank is forbidden
			continue
		}

		*path = append(*path, next)
		if err := s.search(ctx, targetCode, maxParticipants, path, routes); err != nil {
			return err
		}
		*path = (*path)[:len(*path)-1]
	}

	return nil
}

func contains(path Route, code string) bool {
	for _, c := range path {
		if c == code {
			return true
		}
	}
	return false
}

// BankReader provides read access to bank records.
type BankReader interface {
	ReadBank(ctx context.Context, code string) (*domain.Bank, error)
}
