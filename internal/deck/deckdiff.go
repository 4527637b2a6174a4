package deck

import (
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Section stop keywords, in deck order.
const (
	StopExec = "CEND"
	StopCase = "BEGIN BULK"
	StopBulk = "ENDDATA"
)

// DeckDiff is everything a rendering layer needs to produce a report: the
// raw lines of the two non-bulk sections from each deck, the bulk-data diff,
// and the diagnostics collected from both decks.
type DeckDiff struct {
	Path1, Path2 string
	Exec1, Exec2 []string
	Case1, Case2 []string
	Bulk         Result
	Diags        []Diagnostic
}

// deckSections is one deck fully read: the two textual sections plus the
// assembled bulk-data table.
type deckSections struct {
	exec []string
	cas  []string
	bulk *Table
}

// DiffDecks reads both decks and computes the bulk-data diff. The two decks
// share no state, so they are read concurrently. A nil rules falls back to
// DefaultKeyRules; a nil logger is replaced with a nop.
func DiffDecks(path1, path2 string, rules KeyRules, logger *zap.Logger) (*DeckDiff, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rules == nil {
		rules = DefaultKeyRules()
	}

	var s1, s2 *deckSections
	var g errgroup.Group
	g.Go(func() error {
		var err error
		s1, err = readDeck(path1, rules, logger)
		return err
	})
	g.Go(func() error {
		var err error
		s2, err = readDeck(path2, rules, logger)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := &DeckDiff{
		Path1: path1,
		Path2: path2,
		Exec1: s1.exec,
		Exec2: s2.exec,
		Case1: s1.cas,
		Case2: s2.cas,
		Bulk:  Compare(s1.bulk, s2.bulk),
	}
	d.Diags = append(d.Diags, s1.bulk.Diags...)
	d.Diags = append(d.Diags, s2.bulk.Diags...)
	logger.Debug("decks compared",
		zap.Int("changed", len(d.Bulk.Changed1)),
		zap.Int("only_left", len(d.Bulk.Only1)),
		zap.Int("only_right", len(d.Bulk.Only2)),
		zap.Int("diagnostics", len(d.Diags)))
	return d, nil
}

// readDeck consumes one deck as three sequential section cuts.
func readDeck(path string, rules KeyRules, logger *zap.Logger) (*deckSections, error) {
	d, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	exec, err := collect(d.Section(StopExec))
	if err != nil {
		return nil, err
	}
	cas, err := collect(d.Section(StopCase))
	if err != nil {
		return nil, err
	}
	bulk, err := Assemble(d.Section(StopBulk), rules)
	if err != nil {
		return nil, err
	}
	logger.Debug("deck parsed",
		zap.String("path", path),
		zap.Int("exec_lines", len(exec)),
		zap.Int("case_lines", len(cas)),
		zap.Int("bulk_records", len(bulk.Records)),
		zap.Int("diagnostics", len(bulk.Diags)))
	return &deckSections{exec: exec, cas: cas, bulk: bulk}, nil
}

func collect(s *Section) ([]string, error) {
	var out []string
	for s.Scan() {
		out = append(out, s.Line())
	}
	return out, s.Err()
}
