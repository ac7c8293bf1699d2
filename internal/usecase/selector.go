package usecase

import (
	"context"
	"fmt"

	"tg-overview/internal/domain"
)

// Selector narrows the chat list down to one conversation.
type Selector struct {
	source domain.MessageSource
}

func NewSelector(source domain.MessageSource) *Selector {
	return &Selector{source: source}
}

func (s *Selector) ListDialogs(ctx context.Context) ([]domain.DialogInfo, error) {
	return s.source.ListDialogs(ctx)
}

// FindDialog resolves a peer id against the chat list, for
// non-interactive runs.
func (s *Selector) FindDialog(ctx context.Context, peerID int64) (domain.DialogInfo, error) {
	dialogs, err := s.source.ListDialogs(ctx)
	if err != nil {
		return domain.DialogInfo{}, err
	}
	for _, d := range dialogs {
		if d.Peer.ID == peerID {
			return d, nil
		}
	}
	return domain.DialogInfo{}, fmt.Errorf("peer %d not found in recent dialogs", peerID)
}
