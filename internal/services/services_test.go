package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/classmode-backend/internal/data/repos/testutil"
	"github.com/yungbote/classmode-backend/internal/platform/logger"
)

// testFixture carries the shared DB transaction every service test runs in.
// Repos and services built on fx.tx see each other's writes and roll back
// together when the test ends.
type testFixture struct {
	tx  *gorm.DB
	log *logger.Logger
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	db := testutil.DB(t)
	return &testFixture{
		tx:  testutil.Tx(t, db),
		log: testutil.Logger(t),
	}
}
