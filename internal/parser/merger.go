package parser

type mergeState int

const (
	seekingStart mergeState = iota
	inContinuation
)

// merger rebuilds multi-line transactions from a page's classified units.
// It only ever extends the transaction opened last; a continuation seen
// before any start is dropped.
type merger struct {
	state   mergeState
	pending RawRow
	emit    func(RawRow)
}

func newMerger(emit func(RawRow)) *merger {
	return &merger{emit: emit}
}

// feed applies one match and reports whether the unit was used.
func (m *merger) feed(match Match, page int) bool {
	switch match.Kind {
	case KindStart:
		m.flush()
		m.pending = match.Row
		m.pending.Page = page
		m.state = inContinuation
		return true

	case KindContinuation:
		if m.state != inContinuation {
			return false
		}
		m.pending.Description = append(m.pending.Description, match.Row.Description...)
		if len(m.pending.Amounts) == 0 && len(match.Row.Amounts) > 0 {
			m.pending.Amounts = match.Row.Amounts
			if m.pending.Marker == markerNone {
				m.pending.Marker = match.Row.Marker
			}
		}
		return true

	case KindTerminator:
		m.flush()
		return true

	case KindOpening:
		m.flush()
		row := match.Row
		row.Page = page
		m.emit(row)
		return true
	}
	return false
}

// flush emits the pending transaction, if any. It is called at every
// terminator and at the end of each page.
func (m *merger) flush() {
	if m.state == inContinuation {
		m.emit(m.pending)
	}
	m.pending = RawRow{}
	m.state = seekingStart
}
