package xdebug_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olcart/olcart/internal/xdebug"
)

func TestAssertPanicsOnFalseCondition(t *testing.T) {
	require.Panics(t, func() { xdebug.Assert(false, "boom %d", 42) })
}

func TestAssertDoesNothingOnTrueCondition(t *testing.T) {
	require.NotPanics(t, func() { xdebug.Assert(true, "unreachable") })
}

func TestLogRespectsFilter(t *testing.T) {
	old := xdebug.Filter
	defer func() { xdebug.Filter = old }()

	xdebug.Filter = regexp.MustCompile(`definitely-does-not-match`)
	require.NotPanics(t, func() { xdebug.Log("some diagnostic line") })

	xdebug.Filter = nil
	require.NotPanics(t, func() { xdebug.Log("another line") })
}
