package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEvents(t *testing.T) {
	body := ": comment\n" +
		"event: one\ndata: first\n\n" +
		"data: multi\ndata: line\n\n" +
		"\n\n" +
		"event: tail\ndata:no-space"

	var got []sseEvent
	for ev, err := range readEvents(strings.NewReader(body)) {
		require.NoError(t, err)
		got = append(got, ev)
	}
	assert.Equal(t, []sseEvent{
		{Event: "one", Data: "first"},
		{Data: "multi\nline"},
		{Event: "tail", Data: "no-space"},
	}, got)
}

func TestReadEvents_StopsWhenConsumerBreaks(t *testing.T) {
	body := "data: a\n\ndata: b\n\ndata: c\n\n"
	n := 0
	for range readEvents(strings.NewReader(body)) {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}
