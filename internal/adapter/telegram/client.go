package telegram

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tg-overview/internal/domain"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"go.uber.org/zap"
)

// Client implements domain.MessageSource using gotd.
type Client struct {
	client *telegram.Client
	api    *tg.Client
	log    *zap.Logger

	mu      sync.RWMutex
	peers   *peerStore
	conv    *converter
	markers map[int64]readMarkers
}

type readMarkers struct {
	inbox  domain.MsgID
	outbox domain.MsgID
}

// AuthInput defines an interface for interactive authentication input.
type AuthInput interface {
	GetPhoneNumber() (string, error)
	GetCode() (string, error)
	GetPassword() (string, error)
}

func NewClient(appID int, appHash string, sessionFile string, log *zap.Logger) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(sessionFile), 0700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}

	opts := telegram.Options{
		SessionStorage: &session.FileStorage{Path: sessionFile},
		Logger:         log.Named("gotd"),
	}

	peers := newPeerStore()
	c := &Client{
		client:  telegram.NewClient(appID, appHash, opts),
		log:     log,
		peers:   peers,
		conv:    &converter{peers: peers},
		markers: make(map[int64]readMarkers),
	}
	return c, nil
}

// SetTransfers wires the loader collaborator into payload conversion.
func (c *Client) SetTransfers(f TransferFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conv.transfers = f
}

// API exposes the raw client for collaborators that issue their own
// requests, like the file loader.
func (c *Client) API() *tg.Client {
	return c.api
}

// Start connects and authenticates the client, returning once it is
// ready to serve requests.
func (c *Client) Start(ctx context.Context, input AuthInput) error {
	ready := make(chan error, 1)

	go func() {
		c.log.Info("starting client run loop")
		err := c.client.Run(ctx, func(ctx context.Context) error {
			status, err := c.client.Auth().Status(ctx)
			if err != nil {
				return fmt.Errorf("auth status check failed: %w", err)
			}

			if !status.Authorized {
				c.log.Info("not authorized, starting auth flow")
				flow := auth.NewFlow(
					flowAuth{input: input},
					auth.SendCodeOptions{},
				)
				if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
					return fmt.Errorf("auth flow failed: %w", err)
				}
				c.log.Info("authorization successful")
			}

			c.api = c.client.API()

			select {
			case ready <- nil:
			default:
			}

			c.log.Info("client is ready and connected")
			<-ctx.Done()
			return ctx.Err()
		})
		if err != nil {
			c.log.Warn("client run loop exited", zap.Error(err))
			select {
			case ready <- err:
			default:
			}
		}
	}()

	select {
	case err := <-ready:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) Close() error {
	return nil
}

// ListDialogs fetches the chat list and caches the peers and read
// markers the history loader needs later.
func (c *Client) ListDialogs(ctx context.Context) ([]domain.DialogInfo, error) {
	res, err := c.api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		Limit:      100,
		OffsetPeer: &tg.InputPeerEmpty{},
	})
	if err != nil {
		return nil, fmt.Errorf("get dialogs failed: %w", err)
	}

	var (
		dialogs []tg.DialogClass
		users   []tg.UserClass
		chats   []tg.ChatClass
	)
	switch d := res.(type) {
	case *tg.MessagesDialogs:
		dialogs, users, chats = d.Dialogs, d.Users, d.Chats
	case *tg.MessagesDialogsSlice:
		dialogs, users, chats = d.Dialogs, d.Users, d.Chats
	}

	c.mu.Lock()
	c.peers.addUsers(users)
	c.peers.addChats(chats)
	c.mu.Unlock()

	var out []domain.DialogInfo
	for _, dc := range dialogs {
		d, ok := dc.(*tg.Dialog)
		if !ok {
			continue
		}
		peer := c.peers.peer(d.Peer)
		if peer == nil {
			continue
		}
		c.mu.Lock()
		c.markers[peer.ID] = readMarkers{
			inbox:  domain.MsgID(d.ReadInboxMaxID),
			outbox: domain.MsgID(d.ReadOutboxMaxID),
		}
		c.mu.Unlock()
		out = append(out, domain.DialogInfo{
			Peer:        peer,
			TopMessage:  domain.MsgID(d.TopMessage),
			UnreadCount: d.UnreadCount,
		})
	}
	c.log.Debug("dialogs listed", zap.Int("count", len(out)))
	return out, nil
}

// LoadHistory fetches up to limit newest messages of the conversation
// and adds them to h through the acceptance pipeline.
func (c *Client) LoadHistory(ctx context.Context, h *domain.History, limit int) error {
	c.mu.RLock()
	inputPeer, ok := c.peers.inputPeer(h.Peer.ID)
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("peer %d not found in recent dialogs", h.Peer.ID)
	}

	res, err := c.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:  inputPeer,
		Limit: limit,
	})
	if err != nil {
		return fmt.Errorf("get history failed: %w", err)
	}

	var (
		messages []tg.MessageClass
		users    []tg.UserClass
		chats    []tg.ChatClass
	)
	switch r := res.(type) {
	case *tg.MessagesMessages:
		messages, users, chats = r.Messages, r.Users, r.Chats
	case *tg.MessagesMessagesSlice:
		messages, users, chats = r.Messages, r.Users, r.Chats
	case *tg.MessagesChannelMessages:
		messages, users, chats = r.Messages, r.Users, r.Chats
	}

	c.mu.Lock()
	c.peers.addUsers(users)
	c.peers.addChats(chats)
	c.mu.Unlock()

	// Responses come newest first; add oldest first so album groups
	// register in display order.
	for i := len(messages) - 1; i >= 0; i-- {
		if item := c.conv.CreateItem(h, messages[i]); item != nil {
			item.IndexAsNewItem()
		}
	}

	c.mu.RLock()
	markers, ok := c.markers[h.Peer.ID]
	c.mu.RUnlock()
	if ok {
		h.ApplyInboxRead(markers.inbox)
		h.ApplyOutboxRead(markers.outbox)
	}

	c.log.Debug("history loaded",
		zap.Int64("peer", h.Peer.ID),
		zap.Int("items", h.Len()))
	return nil
}
