package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/lfreitas/redator/internal/correction"
)

// CorrectionsRepo provides append-only access to correction records and
// owner-scoped live subscriptions over them.
type CorrectionsRepo struct {
	db    *sql.DB
	appID string
	hub   *subscriptionHub

	mu     sync.Mutex
	lastID int64
}

// Append persists one correction record for the given owner and returns
// the assigned record ID. The store assigns the commit timestamp; the
// record ID is derived from the submission time and kept strictly
// increasing per store. Failures are reported as *WriteError.
func (r *CorrectionsRepo) Append(ctx context.Context, ownerID, essayText string, corr correction.Result) (string, error) {
	if ownerID == "" {
		return "", &WriteError{Err: fmt.Errorf("owner ID is required")}
	}

	payload, err := json.Marshal(corr)
	if err != nil {
		return "", &WriteError{Err: fmt.Errorf("encode correction: %w", err)}
	}

	id := r.nextID()
	createdAt := time.Now().UTC()

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO corrections (app_id, owner_id, id, essay_text, correction, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.appID, ownerID, id, essayText, string(payload), createdAt,
	)
	if err != nil {
		return "", &WriteError{Err: err}
	}

	// Feed the new snapshot to live subscribers after the commit. Delivery
	// is asynchronous relative to this call returning. The record is
	// already committed, so a notify failure does not fail the append.
	r.notify(ctx, ownerID)

	return id, nil
}

// notify rebuilds the owner's snapshot and feeds it to live subscribers.
// A snapshot that cannot be built is logged and reported; subscribers
// catch up on the next successful write.
func (r *CorrectionsRepo) notify(ctx context.Context, ownerID string) error {
	snap, err := r.Query(ctx, ownerID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not refresh history snapshot for subscribers: %v\n", err)
		return err
	}
	r.hub.broadcast(ownerID, snap)
	return nil
}

// nextID returns a submission-time record ID, strictly increasing even
// when two appends land in the same nanosecond.
func (r *CorrectionsRepo) nextID() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := time.Now().UnixNano()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return strconv.FormatInt(id, 10)
}

// Query returns all records owned by ownerID in commit order.
func (r *CorrectionsRepo) Query(ctx context.Context, ownerID string) ([]correction.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, essay_text, correction, created_at
		 FROM corrections
		 WHERE app_id = ? AND owner_id = ?
		 ORDER BY created_at, id`,
		r.appID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("query corrections: %w", err)
	}
	defer rows.Close()

	var records []correction.Record
	for rows.Next() {
		var rec correction.Record
		var payload string
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.EssayText, &payload, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &rec.Correction); err != nil {
			return nil, fmt.Errorf("decode correction %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteAll removes every record owned by ownerID and returns the
// number deleted. Live subscribers receive the emptied snapshot.
func (r *CorrectionsRepo) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	if ownerID == "" {
		return 0, &WriteError{Err: fmt.Errorf("owner ID is required")}
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM corrections WHERE app_id = ? AND owner_id = ?`,
		r.appID, ownerID,
	)
	if err != nil {
		return 0, &WriteError{Err: err}
	}
	n, _ := res.RowsAffected()

	r.hub.broadcast(ownerID, nil)
	return n, nil
}

// Subscribe establishes a live feed of the owner's records. onChange is
// invoked once with the initial snapshot and again after every insert
// visible to that owner, in commit order. The returned cancel function
// waits for any in-flight callback, so after it returns onChange is not
// running and never will be; it must not be called from inside onChange.
// Failures are reported as *SubscriptionError.
func (r *CorrectionsRepo) Subscribe(ctx context.Context, ownerID string, onChange func([]correction.Record)) (func(), error) {
	if ownerID == "" {
		return nil, &SubscriptionError{Err: fmt.Errorf("owner ID is required")}
	}

	initial, err := r.Query(ctx, ownerID)
	if err != nil {
		return nil, &SubscriptionError{Err: err}
	}

	// The hub queues the initial snapshot ahead of any snapshot a later
	// append triggers, so delivery order matches commit order.
	cancel := r.hub.subscribe(ownerID, onChange, initial)

	return cancel, nil
}
