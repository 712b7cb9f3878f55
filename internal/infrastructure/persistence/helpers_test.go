package persistence

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	dup := &pq.Error{Code: "23505", Constraint: "bids_project_freelancer_key"}

	assert.True(t, isUniqueViolation(dup, "bids_project_freelancer_key"))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", dup), "bids_project_freelancer_key"))
	assert.False(t, isUniqueViolation(dup, "orders_bid_id_key"))
	assert.False(t, isUniqueViolation(&pq.Error{Code: "23503", Constraint: "bids_project_freelancer_key"}, "bids_project_freelancer_key"))
	assert.False(t, isUniqueViolation(errors.New("boom"), "bids_project_freelancer_key"))
	assert.False(t, isUniqueViolation(nil, "bids_project_freelancer_key"))
}

func TestSetClause_Placeholders(t *testing.T) {
	var set setClause
	set.add("status", "completed")
	set.add("completed_at", "2026-01-01")
	set.add("updated_at", "2026-01-01")

	assert.Equal(t, []string{"status = $1", "completed_at = $2", "updated_at = $3"}, set.cols)
	assert.Len(t, set.args, 3)
}
