package signalqueue

import (
	"github.com/lexishift/lexicore/pkg/langpair"
	"github.com/lexishift/lexicore/pkg/srs"
)

// Replay folds journaled events into a store in order. Exposure events
// increment exposure counts; feedback events run the scheduler transition
// and count as an exposure. Events with an unparseable pair or an unknown
// type or rating are skipped so a damaged journal never blocks the rest.
func Replay(store srs.Store, events []Event) srs.Store {
	for _, ev := range events {
		pair, err := langpair.Parse(ev.Pair)
		if err != nil {
			continue
		}
		switch ev.EventType {
		case EventExposure:
			store = store.RecordExposure(pair, ev.Lemma, ev.TS.Time, true, ev.SourceType)
		case EventFeedback:
			rating, err := srs.ParseRating(ev.Rating)
			if err != nil {
				continue
			}
			next, err := store.RecordFeedback(pair, ev.Lemma, rating, ev.TS.Time, srs.FeedbackOptions{
				CreateIfMissing:    true,
				SourceType:         ev.SourceType,
				IncrementExposures: true,
			})
			if err != nil {
				continue
			}
			store = next
		}
	}
	return store
}
