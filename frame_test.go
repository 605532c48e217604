package infinitable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImmediateScheduler(t *testing.T) {
	ran := false
	cancel := ImmediateScheduler{}.Schedule(func() { ran = true })
	assert.True(t, ran)
	cancel()
}

func TestManualScheduler(t *testing.T) {
	t.Run("tick runs uncanceled callbacks in order", func(t *testing.T) {
		var m ManualScheduler
		var got []int
		m.Schedule(func() { got = append(got, 1) })
		cancel := m.Schedule(func() { got = append(got, 2) })
		m.Schedule(func() { got = append(got, 3) })
		cancel()

		assert.Equal(t, 2, m.Pending())
		m.Tick()
		assert.Equal(t, []int{1, 3}, got)
		assert.Zero(t, m.Pending())
	})

	t.Run("callbacks scheduled during a tick wait for the next one", func(t *testing.T) {
		var m ManualScheduler
		runs := 0
		var again func()
		again = func() {
			runs++
			m.Schedule(again)
		}
		m.Schedule(again)

		m.Tick()
		assert.Equal(t, 1, runs)
		assert.Equal(t, 1, m.Pending())
		m.Tick()
		assert.Equal(t, 2, runs)
	})
}

func TestTeaScheduler(t *testing.T) {
	t.Run("no command without pending work", func(t *testing.T) {
		s := NewTeaScheduler(60)
		assert.Nil(t, s.Cmd())
	})

	t.Run("one tick in flight at a time", func(t *testing.T) {
		s := NewTeaScheduler(1000)
		ran := 0
		s.Schedule(func() { ran++ })

		cmd := s.Cmd()
		require.NotNil(t, cmd)
		s.Schedule(func() { ran++ })
		assert.Nil(t, s.Cmd())

		msg := cmd()
		require.IsType(t, FrameMsg{}, msg)
		assert.True(t, s.Update(msg))
		assert.Equal(t, 2, ran)
		assert.Nil(t, s.Cmd())
	})

	t.Run("stale and foreign messages are ignored", func(t *testing.T) {
		s := NewTeaScheduler(60)
		ran := false
		s.Schedule(func() { ran = true })
		require.NotNil(t, s.Cmd())

		assert.False(t, s.Update(FrameMsg{id: s.id + 1}))
		assert.False(t, s.Update("hello"))
		assert.False(t, ran)
		assert.True(t, s.Update(FrameMsg{id: s.id}))
		assert.True(t, ran)
	})

	t.Run("drives a scroller burst into one render", func(t *testing.T) {
		s := NewTeaScheduler(60)
		vp := &fakeViewport{extent: 10}
		sc := newTestScroller(t, &updatingRows{countingRows: countingRows{height: 1}}, vp,
			WithBufferSize(0), WithScheduler(s))
		sc.SetRowCount(100)
		renders := sc.Stats().Renders

		for off := 1; off <= 40; off++ {
			vp.offset = off
			sc.NotifyScroll()
		}
		require.NotNil(t, s.Cmd())
		s.Update(FrameMsg{id: s.id})

		assert.Equal(t, renders+1, sc.Stats().Renders)
		start, _ := sc.Range()
		assert.Equal(t, 40, start)
	})
}

func TestFrameLoop(t *testing.T) {
	l := NewFrameLoop(200)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	ran := make(chan string, 4)
	wait := func() string {
		select {
		case s := <-ran:
			return s
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for the frame loop")
			return ""
		}
	}

	l.Post(func() { ran <- "event" })
	assert.Equal(t, "event", wait())

	l.Post(func() {
		l.Schedule(func() { ran <- "frame" })
		drop := l.Schedule(func() { ran <- "canceled" })
		drop()
	})
	assert.Equal(t, "frame", wait())

	select {
	case s := <-ran:
		t.Fatalf("unexpected %q", s)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
