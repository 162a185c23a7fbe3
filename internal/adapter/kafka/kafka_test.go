package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/damage-rate-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	rate := 75.0
	generatedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &domain.StateYearMetric{
		State:        "AL",
		Year:         2022,
		Volume:       100000,
		Damages:      850,
		ActualRate:   &rate,
		ExpectedRate: &rate,
	}

	msg, err := serializeToMessage(m, generatedAt)
	require.NoError(t, err)

	assert.Equal(t, []byte("AL-2022"), msg.Key)
	assert.Contains(t, string(msg.Value), `"state":"AL"`)
	assert.Contains(t, string(msg.Value), `"expected_rate":75`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "state", msg.Headers[0].Key)
	assert.Equal(t, []byte("AL"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2026-03-01T12:00:00Z"), msg.Headers[1].Value)
}

func TestSerializeToMessage_OmitsAbsentFields(t *testing.T) {
	m := &domain.StateYearMetric{State: "WY", Year: 2020, Volume: 500}

	msg, err := serializeToMessage(m, time.Now())
	require.NoError(t, err)

	assert.NotContains(t, string(msg.Value), "expected_rate")
	assert.NotContains(t, string(msg.Value), "residuals")
}
