package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rocketpool/rocketpool-web/internal/config"
)

func TestHasLimitClause(t *testing.T) {
	assert.True(t, hasLimitClause("SELECT * FROM enquiry LIMIT 5"))
	assert.True(t, hasLimitClause("select * from enquiry limit 1"))
	assert.False(t, hasLimitClause("SELECT * FROM enquiry"))
	assert.False(t, hasLimitClause("SELECT * FROM unlimited"))
}

func TestNewDB_NotConfigured(t *testing.T) {
	_, err := NewDB(context.Background(), &config.Config{DBUrl: "ws://localhost:8000/rpc"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
