package inspection

import (
	"context"
	"fmt"
	"time"

	"github.com/BridgeWatch/BW-Backend/internal/db"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm/clause"
)

// SummaryCounts is the severity × side aggregate over a set of
// observations. A total includes every side (lhs, rhs and both);
// the lhs/rhs buckets count exact side matches only.
type SummaryCounts struct {
	CriticalTotal int `json:"critical_total"`
	CriticalLHS   int `json:"critical_lhs"`
	CriticalRHS   int `json:"critical_rhs"`

	ModerateTotal int `json:"moderate_total"`
	ModerateLHS   int `json:"moderate_lhs"`
	ModerateRHS   int `json:"moderate_rhs"`

	CleaningTotal int `json:"cleaning_total"`
	CleaningLHS   int `json:"cleaning_lhs"`
	CleaningRHS   int `json:"cleaning_rhs"`
}

type severitySide struct {
	Severity string
	Side     string
}

// tally partitions observations by (severity, side) in a single pass.
func tally(rows []severitySide) SummaryCounts {
	var c SummaryCounts
	for _, r := range rows {
		switch r.Severity {
		case SeverityCritical:
			c.CriticalTotal++
			switch r.Side {
			case SideLHS:
				c.CriticalLHS++
			case SideRHS:
				c.CriticalRHS++
			}
		case SeverityModerate:
			c.ModerateTotal++
			switch r.Side {
			case SideLHS:
				c.ModerateLHS++
			case SideRHS:
				c.ModerateRHS++
			}
		case SeverityCleaning:
			c.CleaningTotal++
			switch r.Side {
			case SideLHS:
				c.CleaningLHS++
			case SideRHS:
				c.CleaningRHS++
			}
		}
	}
	return c
}

func scanAndTally(ctx context.Context, query string, args ...interface{}) (SummaryCounts, error) {
	rows, err := db.DB.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return SummaryCounts{}, fmt.Errorf("observation scan failed: %w", err)
	}
	defer rows.Close()

	var pairs []severitySide
	for rows.Next() {
		var p severitySide
		if err := rows.Scan(&p.Severity, &p.Side); err != nil {
			return SummaryCounts{}, fmt.Errorf("scan severity/side: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return SummaryCounts{}, fmt.Errorf("observation scan failed: %w", err)
	}

	return tally(pairs), nil
}

// AggregateProject computes the live severity × side counts over every
// observation in the project. Read-only: it never touches the
// summary_stats cache.
func AggregateProject(ctx context.Context, projectID uuid.UUID) (SummaryCounts, error) {
	query := `
		SELECT o.severity, o.side
		FROM inspection.observations o
		JOIN inspection.bridges b ON o.bridge_id = b.id
		WHERE b.project_id = $1 AND o.severity = ANY($2)
	`
	return scanAndTally(ctx, query, projectID,
		pq.Array([]string{SeverityCritical, SeverityModerate, SeverityCleaning}))
}

// AggregateBridge computes the live severity × side counts for a
// single bridge.
func AggregateBridge(ctx context.Context, bridgeID uuid.UUID) (SummaryCounts, error) {
	query := `
		SELECT o.severity, o.side
		FROM inspection.observations o
		WHERE o.bridge_id = $1 AND o.severity = ANY($2)
	`
	return scanAndTally(ctx, query, bridgeID,
		pq.Array([]string{SeverityCritical, SeverityModerate, SeverityCleaning}))
}

// RefreshSummaryStat rebuilds the bridge's summary_stats row from the
// live aggregate. Concurrent refreshes race benignly: the row is a
// recomputable cache, so last write wins.
func RefreshSummaryStat(ctx context.Context, bridgeID uuid.UUID) (*SummaryStat, error) {
	if err := ensureBridge(ctx, bridgeID); err != nil {
		return nil, err
	}

	counts, err := AggregateBridge(ctx, bridgeID)
	if err != nil {
		return nil, err
	}

	stat := SummaryStat{
		ID:       uuid.New(),
		BridgeID: bridgeID,

		CriticalTotal: counts.CriticalTotal,
		CriticalLHS:   counts.CriticalLHS,
		CriticalRHS:   counts.CriticalRHS,

		ModerateTotal: counts.ModerateTotal,
		ModerateLHS:   counts.ModerateLHS,
		ModerateRHS:   counts.ModerateRHS,

		CleaningTotal: counts.CleaningTotal,
		CleaningLHS:   counts.CleaningLHS,
		CleaningRHS:   counts.CleaningRHS,

		UpdatedAt: time.Now(),
	}

	err = db.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "bridge_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"critical_total", "critical_lhs", "critical_rhs",
			"moderate_total", "moderate_lhs", "moderate_rhs",
			"cleaning_total", "cleaning_lhs", "cleaning_rhs",
			"updated_at",
		}),
	}).Create(&stat).Error
	if err != nil {
		return nil, fmt.Errorf("upsert summary stat: %w", err)
	}

	var stored SummaryStat
	if err := db.DB.WithContext(ctx).First(&stored, "bridge_id = ?", bridgeID).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// RefreshAllSummaryStats recomputes the cache for every bridge and
// returns how many rows were rebuilt.
func RefreshAllSummaryStats(ctx context.Context) (int, error) {
	var ids []uuid.UUID
	if err := db.DB.WithContext(ctx).Model(&Bridge{}).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	for _, id := range ids {
		if _, err := RefreshSummaryStat(ctx, id); err != nil {
			return 0, fmt.Errorf("refresh bridge %s: %w", id, err)
		}
	}
	return len(ids), nil
}
