package catalog

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/flokiorg/storehub/constants"
	"github.com/flokiorg/storehub/events"
	"github.com/flokiorg/storehub/logger"
	"github.com/flokiorg/storehub/remote"
)

// SyncStatus describes the relationship between the in-memory catalog and
// the remote document. The in-memory catalog is always authoritative for the
// session; this only reports whether the remote copy has kept up.
type SyncStatus struct {
	State     string    `json:"state"`
	Reason    string    `json:"reason,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Store) SyncStatus() SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store) setStatus(state string, reason string) {
	s.mu.Lock()
	s.status = SyncStatus{
		State:     state,
		Reason:    reason,
		UpdatedAt: time.Now(),
	}
	s.mu.Unlock()
}

// enqueuePush hands a serialized snapshot to the push worker. The channel
// holds at most one pending snapshot: a newer snapshot displaces an older
// queued one, so the worker always writes the latest state and at most one
// remote write is in flight at a time.
func (s *Store) enqueuePush(content []byte) {
	s.setStatus(constants.SYNC_STATE_PENDING, "")
	for {
		select {
		case s.pushCh <- content:
			return
		default:
			select {
			case <-s.pushCh:
				// displaced a stale queued snapshot
			default:
			}
		}
	}
}

func (s *Store) runPushWorker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case content := <-s.pushCh:
			s.push(ctx, content)
		}
	}
}

// push performs one conditional remote write. Failures never roll back the
// in-memory catalog: a conflict or transport error flips the status to
// out-of-sync and publishes an event so the operator can decide between
// retry and force push.
func (s *Store) push(ctx context.Context, content []byte) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	newToken, err := s.remote.WriteDocument(ctx, content, token, constants.CATALOG_COMMIT_MESSAGE)
	switch {
	case errors.Is(err, remote.ErrConflict):
		logger.Logger.Warn().Msg("Remote catalog changed underneath us, local state kept")
		s.setStatus(constants.SYNC_STATE_OUT_OF_SYNC, constants.SYNC_REASON_CONFLICT)
		s.publisher.Publish(&events.Event{
			Event:      "catalog_out_of_sync",
			Properties: map[string]interface{}{"reason": constants.SYNC_REASON_CONFLICT},
		})
	case err != nil:
		logger.Logger.Error().Err(err).Msg("Failed to push catalog to remote store")
		s.setStatus(constants.SYNC_STATE_OUT_OF_SYNC, constants.SYNC_REASON_TRANSPORT)
		s.publisher.Publish(&events.Event{
			Event: "catalog_out_of_sync",
			Properties: map[string]interface{}{
				"reason": constants.SYNC_REASON_TRANSPORT,
				"error":  err.Error(),
			},
		})
	default:
		s.mu.Lock()
		s.token = newToken
		s.mu.Unlock()
		s.setStatus(constants.SYNC_STATE_SYNCED, "")
		s.publisher.Publish(&events.Event{Event: "catalog_synced"})
	}
}

// Resync refreshes the version token from the remote store and replays the
// local catalog on top of it. Used after a conflict when the operator wants
// local state to win without an unconditional overwrite racing a further
// edit.
func (s *Store) Resync(ctx context.Context) error {
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}

	doc, err := s.remote.FetchDocument(ctx)
	if err != nil && !errors.Is(err, remote.ErrNotFound) {
		return err
	}

	s.mu.Lock()
	if doc != nil {
		s.token = doc.Token
	} else {
		s.token = remote.VersionToken{}
	}
	snapshot := slices.Clone(s.entries)
	s.mu.Unlock()

	s.persistAndPush(snapshot)
	return nil
}

// ForcePush overwrites the remote file with the local catalog, discarding
// whatever it currently holds. Also the path that creates the document on
// first run. The contents API still wants the current blob sha to replace an
// existing file, so the freshest token is fetched immediately before the
// write instead of conditioning on the last one we saw.
func (s *Store) ForcePush(ctx context.Context) error {
	if !s.session.IsAdmin() {
		return ErrNotAdmin
	}

	token := remote.VersionToken{}
	doc, err := s.remote.FetchDocument(ctx)
	if err != nil && !errors.Is(err, remote.ErrNotFound) {
		return err
	}
	if doc != nil {
		token = doc.Token
	}

	s.mu.RLock()
	snapshot := slices.Clone(s.entries)
	s.mu.RUnlock()

	content, err := MarshalDocument(snapshot)
	if err != nil {
		return err
	}

	newToken, err := s.remote.WriteDocument(ctx, content, token, constants.CATALOG_COMMIT_MESSAGE)
	if err != nil {
		s.setStatus(constants.SYNC_STATE_OUT_OF_SYNC, constants.SYNC_REASON_TRANSPORT)
		return err
	}

	s.mu.Lock()
	s.token = newToken
	s.mu.Unlock()
	s.setStatus(constants.SYNC_STATE_SYNCED, "")
	s.publisher.Publish(&events.Event{Event: "catalog_synced"})
	return nil
}
