package memory

import (
	"context"
	"sort"

	"github.com/relay-chat/relay"
	"golang.org/x/sync/errgroup"
)

// transcriptFetchLimit bounds concurrent transcript requests during preload.
const transcriptFetchLimit = 4

// LoadThreads builds the thread list for an actor from the store: one
// thread per stored session, newest first, with transcripts fetched
// concurrently to derive titles. Transcript fetches are best effort — a
// session whose events cannot be read still appears, with its creation
// date as the title.
func LoadThreads(ctx context.Context, m relay.Memory, actorID string) ([]relay.Thread, error) {
	sessions, err := m.Sessions(ctx, actorID)
	if err != nil {
		return nil, err
	}

	threads := make([]relay.Thread, len(sessions))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(transcriptFetchLimit)
	for i, session := range sessions {
		g.Go(func() error {
			thread := relay.Thread{
				ID:        session.SessionID,
				CreatedAt: session.CreatedAt,
				UpdatedAt: session.CreatedAt,
			}

			// Best effort: history display should survive a bad session.
			if msgs, err := m.Messages(ctx, actorID, session.SessionID); err == nil {
				thread.Messages = msgs
				if len(msgs) > 0 {
					thread.UpdatedAt = msgs[len(msgs)-1].Timestamp
				}
			}

			thread.RefreshTitle()
			if thread.Title == "" {
				thread.Title = session.CreatedAt.Format("2006-01-02")
			}

			threads[i] = thread
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].CreatedAt.After(threads[j].CreatedAt)
	})
	return threads, nil
}
