package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(matches ...Match) []RawRow {
	var rows []RawRow
	m := newMerger(func(r RawRow) { rows = append(rows, r) })
	for _, match := range matches {
		m.feed(match, 1)
	}
	m.flush()
	return rows
}

func TestMerger_ContinuationExtendsPending(t *testing.T) {
	rows := collect(
		start("01/03", "DUITNOW TRSF", nil),
		continuation("ACME SDN BHD", []string{"10.00", "90.00"}),
		continuation("INVOICE 42", []string{"1.00", "2.00"}),
		start("02/03", "FEE", []string{"1.00", "89.00"}),
	)
	require.Len(t, rows, 2)
	assert.Equal(t, "DUITNOW TRSF ACME SDN BHD INVOICE 42", joinDescription(rows[0].Description))
	// Amounts come from the first line that has them.
	assert.Equal(t, []string{"10.00", "90.00"}, rows[0].Amounts)
	assert.Equal(t, 1, rows[0].Page)
}

func TestMerger_NoLookback(t *testing.T) {
	rows := collect(
		continuation("ORPHAN LINE", nil),
		start("01/03", "PAYMENT", []string{"5.00"}),
	)
	require.Len(t, rows, 1)
	assert.Equal(t, "PAYMENT", joinDescription(rows[0].Description))
}

func TestMerger_TerminatorClosesPending(t *testing.T) {
	rows := collect(
		start("01/03", "PAYMENT", []string{"5.00"}),
		terminator(),
		continuation("PAGE FOOTER TEXT", nil),
	)
	require.Len(t, rows, 1)
	assert.Equal(t, "PAYMENT", joinDescription(rows[0].Description))
}

func TestMerger_NoiseKeepsPendingOpen(t *testing.T) {
	rows := collect(
		start("01/03", "PAYMENT", []string{"5.00"}),
		noise(),
		continuation("TO ACME", nil),
	)
	require.Len(t, rows, 1)
	assert.Equal(t, "PAYMENT TO ACME", joinDescription(rows[0].Description))
}

func TestMerger_OpeningIsEmittedInOrder(t *testing.T) {
	rows := collect(
		start("01/03", "PAYMENT", []string{"5.00"}),
		opening("02/03", "100.00"),
		start("03/03", "FEE", []string{"1.00"}),
	)
	require.Len(t, rows, 3)
	assert.False(t, rows[0].Opening)
	assert.True(t, rows[1].Opening)
	assert.Equal(t, []string{"100.00"}, rows[1].Amounts)
	assert.False(t, rows[2].Opening)
}

func TestMerger_ChunkingIsAssociative(t *testing.T) {
	tokens := strings.Fields("TRANSFER TO SAVINGS ACCOUNT 1234 MONTHLY STANDING INSTRUCTION REF 998877")

	chunkings := [][]int{
		{len(tokens)},
		{1, len(tokens) - 1},
		{3, 3, len(tokens) - 6},
		{1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
		{5, len(tokens) - 5},
	}

	var want string
	for i, sizes := range chunkings {
		matches := []Match{start("01/03", "", []string{"5.00"})}
		pos := 0
		for _, n := range sizes {
			matches = append(matches, continuation(strings.Join(tokens[pos:pos+n], " "), nil))
			pos += n
		}
		require.Equal(t, len(tokens), pos)

		rows := collect(matches...)
		require.Len(t, rows, 1)
		got := joinDescription(rows[0].Description)
		if i == 0 {
			want = got
			continue
		}
		assert.Equal(t, want, got, "chunking %v", sizes)
	}
	assert.Equal(t, strings.Join(tokens, " "), want)
}
