package services

import (
	"fmt"
	"testing"

	"mediagate/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLog_RecordAssignsIDAndTimestamp(t *testing.T) {
	log := NewAccessLog(10, nil)

	log.Record(domain.AccessLogEntry{
		ContentID: "movie-1",
		ClientID:  "device-1",
		Outcome:   domain.OutcomeAllowed,
	})

	entries := log.Recent(1)
	require.Len(t, entries, 1)
	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, domain.OutcomeAllowed, entries[0].Outcome)
}

func TestAccessLog_RedactsTokens(t *testing.T) {
	log := NewAccessLog(10, nil)

	log.Record(domain.AccessLogEntry{
		Token:   "eyJhbGciOiJIUzI1NiJ9.very-secret-payload.signature",
		Outcome: domain.OutcomeInvalidToken,
	})

	entries := log.Recent(1)
	require.Len(t, entries, 1)
	assert.Equal(t, "eyJhbGci...", entries[0].Token)

	// Short tokens pass through untouched.
	assert.Equal(t, "abc", RedactToken("abc"))
	assert.Equal(t, "12345678", RedactToken("12345678"))
}

func TestAccessLog_EvictsOldestWhenFull(t *testing.T) {
	log := NewAccessLog(3, nil)

	for i := 1; i <= 5; i++ {
		log.Record(domain.AccessLogEntry{
			ContentID: domain.ContentID(fmt.Sprintf("movie-%d", i)),
			Outcome:   domain.OutcomeAllowed,
		})
	}

	assert.Equal(t, 3, log.Len())

	entries := log.Recent(0)
	require.Len(t, entries, 3)
	// Newest first; movie-1 and movie-2 evicted.
	assert.Equal(t, domain.ContentID("movie-5"), entries[0].ContentID)
	assert.Equal(t, domain.ContentID("movie-4"), entries[1].ContentID)
	assert.Equal(t, domain.ContentID("movie-3"), entries[2].ContentID)
}

func TestAccessLog_RecentLimitsResults(t *testing.T) {
	log := NewAccessLog(10, nil)

	for i := 1; i <= 6; i++ {
		log.Record(domain.AccessLogEntry{
			ContentID: domain.ContentID(fmt.Sprintf("movie-%d", i)),
			Outcome:   domain.OutcomeAllowed,
		})
	}

	entries := log.Recent(2)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.ContentID("movie-6"), entries[0].ContentID)
	assert.Equal(t, domain.ContentID("movie-5"), entries[1].ContentID)

	// Asking for more than recorded returns everything.
	assert.Len(t, log.Recent(100), 6)
}
