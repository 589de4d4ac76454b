package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/samber/lo"

	"github.com/crewbase/backend/common/errors"
	"github.com/crewbase/backend/common/models"
)

// ValuationBatchItem is one valuation type plus its phase-label percentages.
type ValuationBatchItem struct {
	Type         string  `json:"type"`
	FixedPercent float64 `json:"fixed_percent"`
	Phases       []struct {
		Phase   string  `json:"phase"`
		Percent float64 `json:"percent"`
	} `json:"phases"`
}

// SaveValuations stores a batch of valuation types with their phase rows.
// The whole batch shares one transaction: a failure on any row discards all
// of them.
func SaveValuations(ctx context.Context, batch []ValuationBatchItem) ([]models.ValuationType, error) {
	db := getPool()

	if len(batch) == 0 {
		return nil, errors.BadRequest("valuation batch is empty")
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	types := make([]models.ValuationType, 0, len(batch))
	for _, item := range batch {
		vt := models.ValuationType{
			ID:           uuid.New(),
			Type:         item.Type,
			FixedPercent: item.FixedPercent,
		}
		err = tx.QueryRow(ctx, `
			INSERT INTO valuation_types (id, type, fixed_percent)
			VALUES ($1, $2, $3)
			RETURNING created_at
		`, vt.ID, vt.Type, vt.FixedPercent).Scan(&vt.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, errors.Conflict("valuation type already exists: " + item.Type)
			}
			return nil, errors.Wrap(err, "failed to save valuation type")
		}

		for _, ph := range item.Phases {
			_, err = tx.Exec(ctx, `
				INSERT INTO valuations (id, valuation_type_id, phase, percent)
				VALUES ($1, $2, $3, $4)
			`, uuid.New(), vt.ID, ph.Phase, ph.Percent)
			if err != nil {
				return nil, errors.Wrap(err, "failed to save valuation")
			}
		}
		types = append(types, vt)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return types, nil
}

// AddValuationToPhase attaches a valuation to a project phase, copying the
// type name and percentages onto the link row. Later edits to the valuation
// definitions never alter phases already assigned.
func AddValuationToPhase(ctx context.Context, valuationID, phaseID uuid.UUID) (*models.PhaseValuation, error) {
	db := getPool()

	var (
		phase        string
		percent      float64
		typeName     string
		fixedPercent float64
	)
	err := db.QueryRow(ctx, `
		SELECT v.phase, v.percent, vt.type, vt.fixed_percent
		FROM valuations v
		JOIN valuation_types vt ON vt.id = v.valuation_type_id
		WHERE v.id = $1
	`, valuationID).Scan(&phase, &percent, &typeName, &fixedPercent)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("valuation")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load valuation")
	}

	var phaseExists bool
	err = db.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM project_phases WHERE id = $1)", phaseID,
	).Scan(&phaseExists)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check project phase")
	}
	if !phaseExists {
		return nil, errors.NotFound("project phase")
	}

	pv := models.PhaseValuation{
		ID:            uuid.New(),
		PhaseID:       phaseID,
		ValuationID:   valuationID,
		ValuationType: typeName,
		FixedPercent:  fixedPercent,
		Percent:       percent,
	}
	err = db.QueryRow(ctx, `
		INSERT INTO phase_valuations (id, phase_id, valuation_id, valuation_type, fixed_percent, percent)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, pv.ID, pv.PhaseID, pv.ValuationID, pv.ValuationType, pv.FixedPercent, pv.Percent).Scan(&pv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Conflict("valuation already attached to this phase")
		}
		return nil, errors.Wrap(err, "failed to attach valuation to phase")
	}

	return &pv, nil
}

// ValuationTypeWithPhases groups a valuation type with its phase rows.
type ValuationTypeWithPhases struct {
	models.ValuationType
	Phases []models.Valuation `json:"phases"`
}

// ListValuations returns every valuation type with its phase rows grouped.
func ListValuations(ctx context.Context) ([]ValuationTypeWithPhases, error) {
	db := getPool()

	rows, err := db.Query(ctx, `
		SELECT id, type, fixed_percent, created_at
		FROM valuation_types
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list valuation types")
	}
	defer rows.Close()

	types := make([]ValuationTypeWithPhases, 0)
	for rows.Next() {
		var t ValuationTypeWithPhases
		if err := rows.Scan(&t.ID, &t.Type, &t.FixedPercent, &t.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan valuation type")
		}
		t.Phases = make([]models.Valuation, 0)
		types = append(types, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read valuation types")
	}
	if len(types) == 0 {
		return types, nil
	}

	typeIDs := lo.Map(types, func(t ValuationTypeWithPhases, _ int) uuid.UUID { return t.ID })
	vrows, err := db.Query(ctx, `
		SELECT id, valuation_type_id, phase, percent, created_at
		FROM valuations
		WHERE valuation_type_id = ANY($1)
		ORDER BY created_at
	`, typeIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list valuations")
	}
	defer vrows.Close()

	valuations := make([]models.Valuation, 0)
	for vrows.Next() {
		var v models.Valuation
		if err := vrows.Scan(&v.ID, &v.ValuationTypeID, &v.Phase, &v.Percent, &v.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan valuation")
		}
		valuations = append(valuations, v)
	}
	if err := vrows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read valuations")
	}

	grouped := lo.GroupBy(valuations, func(v models.Valuation) uuid.UUID { return v.ValuationTypeID })
	for i := range types {
		if phases, ok := grouped[types[i].ID]; ok {
			types[i].Phases = phases
		}
	}
	return types, nil
}
