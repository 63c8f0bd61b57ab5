package db

import (
	"context"
	"fmt"

	"github.com/jonathan/proposal-agent/internal/types"
)

// RecordRun appends one audit record for a generation attempt. Rows are
// never mutated afterward.
func (db *DB) RecordRun(ctx context.Context, run *types.Run) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO runs (job_text_hash, job_analysis_json, proposal_json,
		                   model_name, presentation_id, status, error_message)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, NULLIF($5, ''), $6, NULLIF($7, ''))`,
		run.JobTextHash, run.JobAnalysisJSON, run.ProposalJSON,
		run.ModelName, run.PresentationID, run.Status, run.ErrorMessage,
	)
	if err != nil {
		return &StorageError{Op: "record run", Cause: err}
	}
	return nil
}

// ListRuns returns the most recent run records, newest first.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]types.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, job_text_hash, COALESCE(job_analysis_json, ''), COALESCE(proposal_json, ''),
		        COALESCE(model_name, ''), COALESCE(presentation_id, ''),
		        status, COALESCE(error_message, ''), created_at
		 FROM runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, &StorageError{Op: "list runs", Cause: err}
	}
	defer rows.Close()

	var runs []types.Run
	for rows.Next() {
		var r types.Run
		if err := rows.Scan(&r.ID, &r.JobTextHash, &r.JobAnalysisJSON, &r.ProposalJSON,
			&r.ModelName, &r.PresentationID, &r.Status, &r.ErrorMessage, &r.CreatedAt); err != nil {
			return nil, &StorageError{Op: "scan run", Cause: err}
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list runs", Cause: err}
	}
	return runs, nil
}

// PurgeRuns deletes run records older than the retention window and returns
// how many were removed. This is the only path that removes rows.
func (db *DB) PurgeRuns(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays <= 0 {
		return 0, &StorageError{Op: "purge runs", Cause: fmt.Errorf("retention must be positive, got %d days", olderThanDays)}
	}

	tag, err := db.pool.Exec(ctx,
		`DELETE FROM runs WHERE created_at < NOW() - ($1 * INTERVAL '1 day')`,
		olderThanDays,
	)
	if err != nil {
		return 0, &StorageError{Op: "purge runs", Cause: err}
	}
	return tag.RowsAffected(), nil
}
