package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDurations(t *testing.T) {
	cfg := &Config{}
	cfg.Scraper.DelaySeconds = 2.5
	cfg.Scraper.BackoffBaseSeconds = 0.5

	require.Equal(t, 2500*time.Millisecond, cfg.Delay())
	require.Equal(t, 500*time.Millisecond, cfg.BackoffBase())
}
