package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/changelog-browser/internal/logging"
	"github.com/crucial707/changelog-browser/internal/models"
)

type stubSource struct {
	calls atomic.Int32
	err   error
}

func (s *stubSource) Stats(ctx context.Context) (*models.Stats, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return &models.Stats{ByCountry: map[string]models.CountryStats{"US": {}, "IN": {}}}, nil
}

func TestProbe(t *testing.T) {
	src := &stubSource{}
	p := NewProber(src, logging.Discard(), time.Second)

	assert.False(t, p.Status().Checked)

	st := p.Probe(context.Background())
	assert.True(t, st.Up)
	assert.Equal(t, 2, st.Countries)
	assert.Equal(t, st, p.Status())

	src.err = errors.New("Failed to fetch stats")
	st = p.Probe(context.Background())
	assert.False(t, st.Up)
	assert.True(t, st.Checked)
	assert.Equal(t, "Failed to fetch stats", st.Error)
}

func TestStartInvalidSchedule(t *testing.T) {
	p := NewProber(&stubSource{}, logging.Discard(), time.Second)
	assert.Error(t, p.Start(context.Background(), "not a schedule"))
	p.Stop()
}

func TestStartProbesImmediately(t *testing.T) {
	src := &stubSource{}
	p := NewProber(src, logging.Discard(), time.Second)

	require.NoError(t, p.Start(context.Background(), "@every 1h"))
	defer p.Stop()

	assert.Eventually(t, func() bool { return p.Status().Checked }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, p.Status().Up)
	assert.GreaterOrEqual(t, src.calls.Load(), int32(1))
}
