package reveal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/spaceconquest-go/internal/application/reveal"
	"github.com/andrescamacho/spaceconquest-go/internal/domain/report"
)

func battle(lines ...string) *report.Report {
	return &report.Report{Winner: "attacker", Log: lines}
}

func TestOpen_RevealsLinesInOrder(t *testing.T) {
	// Arrange
	r := reveal.New(time.Millisecond)
	defer r.Wait()
	defer r.Close()

	// Act
	r.Open(context.Background(), battle("Round 1", "Round 2", "Round 3"))

	// Assert
	require.Eventually(t, func() bool { return r.Frame().Done }, time.Second, time.Millisecond)
	assert.Equal(t, []string{"Round 1", "Round 2", "Round 3"}, r.Frame().Lines)
}

func TestOpen_StartsHidden(t *testing.T) {
	r := reveal.New(time.Hour)
	defer r.Wait()
	defer r.Close()

	r.Open(context.Background(), battle("Round 1"))

	frame := r.Frame()
	assert.True(t, frame.Open())
	assert.Empty(t, frame.Lines)
	assert.False(t, frame.Done)
}

func TestOpen_EmptyLogIsDoneImmediately(t *testing.T) {
	r := reveal.New(time.Hour)

	r.Open(context.Background(), battle())

	assert.True(t, r.Frame().Done)
	r.Close()
	r.Wait()
}

func TestClose_CancelsRevealImmediately(t *testing.T) {
	// Arrange
	r := reveal.New(time.Millisecond)
	r.Open(context.Background(), battle("a", "b", "c", "d", "e", "f", "g", "h"))

	// Act
	r.Close()
	r.Wait()

	// Assert
	assert.False(t, r.Frame().Open())
	assert.Empty(t, r.Frame().Lines)
}

func TestOpen_ReplacingReportCancelsPreviousReveal(t *testing.T) {
	// Arrange
	r := reveal.New(time.Millisecond)
	defer r.Wait()
	defer r.Close()
	first := battle("old 1", "old 2", "old 3", "old 4")
	second := battle("new 1")

	// Act
	r.Open(context.Background(), first)
	r.Open(context.Background(), second)

	// Assert
	require.Eventually(t, func() bool { return r.Frame().Done }, time.Second, time.Millisecond)
	assert.Same(t, second, r.Frame().Report)
	assert.Equal(t, []string{"new 1"}, r.Frame().Lines)
}

func TestSkip_RevealsEverything(t *testing.T) {
	r := reveal.New(time.Hour)
	r.Open(context.Background(), battle("a", "b"))

	r.Skip()

	assert.True(t, r.Frame().Done)
	assert.Len(t, r.Frame().Lines, 2)
	r.Close()
	r.Wait()
}

func TestReveal_SurvivesCallerContextCancel(t *testing.T) {
	// The caller's request context ends when the poll finishes; the modal must not
	ctx, cancel := context.WithCancel(context.Background())
	r := reveal.New(time.Millisecond)
	defer r.Wait()
	defer r.Close()

	r.Open(ctx, battle("a", "b"))
	cancel()

	require.Eventually(t, func() bool { return r.Frame().Done }, time.Second, time.Millisecond)
}
