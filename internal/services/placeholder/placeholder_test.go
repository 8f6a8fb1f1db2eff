package placeholder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frame struct {
	phase Phase
	text  string
	delay time.Duration
}

func TestMachineCycle(t *testing.T) {
	m := NewMachine([]string{"Kat", "Go"})
	assert.Equal(t, Idle, m.Phase())
	assert.Equal(t, "", m.Text())

	want := []frame{
		{Typing, "K", TypeDelay},
		{Typing, "Ka", TypeDelay},
		{Holding, "Kat", HoldDelay},
		{Clearing, "Kat", ClearDelay},
		{NextWord, "", 0},
		{Typing, "G", TypeDelay},
		{Holding, "Go", HoldDelay},
		{Clearing, "Go", ClearDelay},
		{NextWord, "", 0},
		{Typing, "K", TypeDelay},
	}

	for i, w := range want {
		delay := m.Step()
		assert.Equal(t, w, frame{m.Phase(), m.Text(), delay}, "step %d", i)
	}
}

func TestMachineMultibyte(t *testing.T) {
	m := NewMachine([]string{"काठ"})
	m.Step()
	assert.Equal(t, "क", m.Text())
}

func TestMachineStop(t *testing.T) {
	m := NewMachine(DefaultSuggestions)
	m.Step()
	m.Step()
	m.Stop()

	assert.Equal(t, Stopped, m.Phase())
	assert.Equal(t, "", m.Text())
	assert.Equal(t, time.Duration(0), m.Step())
	assert.Equal(t, Stopped, m.Phase())
}

func TestMachineWithoutWords(t *testing.T) {
	m := NewMachine([]string{"", ""})
	m.Step()
	assert.Equal(t, Stopped, m.Phase())
}

func TestRunStopsWithMachine(t *testing.T) {
	m := NewMachine([]string{"Quarantine"})

	var mu sync.Mutex
	var shown []string
	first := make(chan struct{})
	var once sync.Once

	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(context.Background(), m, func(text string) {
			mu.Lock()
			shown = append(shown, text)
			mu.Unlock()
			once.Do(func() { close(first) })
		})
	}()

	<-first
	m.Stop()

	select {
	case <-done:
	case <-time.After(2 * TypeDelay):
		t.Fatal("Run did not return after Stop")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, shown)
	assert.Equal(t, "Q", shown[0])
	assert.Equal(t, "", shown[len(shown)-1])
}

func TestRunStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		Run(ctx, NewMachine(DefaultSuggestions), func(string) {})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run ignored cancelled context")
	}
}
