package app

import (
	"context"
	"fmt"

	"github.com/jeffnemesis/gcam-core/internal/config"
	"github.com/jeffnemesis/gcam-core/internal/domain"
	"github.com/jeffnemesis/gcam-core/internal/logger"
	"github.com/jeffnemesis/gcam-core/internal/marketplace"
	"github.com/jeffnemesis/gcam-core/internal/region"
	"github.com/jeffnemesis/gcam-core/internal/report"
	"github.com/jeffnemesis/gcam-core/internal/solver"

	"github.com/google/uuid"
)

// RunHandler wires a scenario into a full model run: marketplace, regions,
// solver, and the result rows for reporting.
type RunHandler struct{}

type RunInput struct {
	Scenario *config.Scenario
}

type RunOutput struct {
	RunID     uuid.UUID
	Scenario  string
	Result    *solver.Result
	Rows      []*report.Row
	Modeltime *domain.Modeltime
	Regions   []*region.Region
}

func (h RunHandler) Run(ctx context.Context, in RunInput) (*RunOutput, error) {
	log := logger.FromContext(ctx)

	if in.Scenario == nil {
		return nil, fmt.Errorf("run requires a scenario")
	}

	modeltime, err := domain.NewModeltime(in.Scenario.Years)
	if err != nil {
		return nil, fmt.Errorf("invalid modeltime: %w", err)
	}

	mkt := marketplace.New(modeltime.MaxPeriods(), log)

	regions := make([]*region.Region, 0, len(in.Scenario.Regions))
	for _, regionCfg := range in.Scenario.Regions {
		r, err := region.NewFromConfig(regionCfg, modeltime, in.Scenario.Options, mkt, log)
		if err != nil {
			return nil, fmt.Errorf("failed to build region %s: %w", regionCfg.Name, err)
		}
		regions = append(regions, r)
	}

	s := solver.New(in.Scenario.Solver, in.Scenario.Options, mkt, log)
	result := s.Solve(regions, modeltime.MaxPeriods())

	if in.Scenario.Options.PrintPrices {
		for _, r := range regions {
			for _, sec := range r.Sectors() {
				for period := 0; period < modeltime.MaxPeriods(); period++ {
					log.Infow("sector price",
						"region", r.Name(), "sector", sec.Name(),
						"year", modeltime.PeriodToYear(period),
						"price", sec.SectorPrice(period))
				}
			}
		}
	}

	rows := report.BuildRows(in.Scenario.Name, result.RunID, regions, modeltime)

	return &RunOutput{
		RunID:     result.RunID,
		Scenario:  in.Scenario.Name,
		Result:    result,
		Rows:      rows,
		Modeltime: modeltime,
		Regions:   regions,
	}, nil
}
