// Package gazelletest provides an in-memory gazelle.API for tests.
package gazelletest

import (
	"context"
	"sync"

	"github.com/RogueOneEcho/gazelle-api/pkg/gazelle"
)

// Compile-time interface compliance check.
var _ gazelle.API = (*Client)(nil)

type result[T any] struct {
	value T
	err   error
	set   bool
}

func (r result[T]) get(op string) (T, error) {
	if !r.set {
		var zero T
		return zero, &gazelle.Error{Op: op, Kind: gazelle.KindOther, Message: "gazelletest: no result configured"}
	}
	return r.value, r.err
}

// Call records one invocation on the mock.
type Call struct {
	Op string
	ID int // zero for uploads
}

// Client returns preconfigured results. Configure it with the With* methods
// before sharing it between goroutines. Unconfigured operations fail with a
// KindOther error.
type Client struct {
	torrent   result[*gazelle.TorrentResponse]
	group     result[*gazelle.GroupResponse]
	user      result[*gazelle.User]
	download  result[[]byte]
	upload    result[*gazelle.UploadResponse]
	newSource result[*gazelle.UploadResponse]

	mu    sync.Mutex
	calls []Call
}

// New returns a Client with no results configured.
func New() *Client {
	return &Client{}
}

// NewDefault returns a Client whose operations all succeed with fixtures.
func NewDefault() *Client {
	return New().
		WithGetTorrent(TorrentResponse(), nil).
		WithGetTorrentGroup(GroupResponse(), nil).
		WithGetUser(User(), nil).
		WithDownloadTorrent([]byte("d8:announce0:4:infod4:name4:testee"), nil).
		WithUploadTorrent(UploadResponse(), nil).
		WithUploadNewSource(UploadResponse(), nil)
}

// WithGetTorrent sets the result of GetTorrent.
func (c *Client) WithGetTorrent(resp *gazelle.TorrentResponse, err error) *Client {
	c.torrent = result[*gazelle.TorrentResponse]{resp, err, true}
	return c
}

// WithGetTorrentGroup sets the result of GetTorrentGroup.
func (c *Client) WithGetTorrentGroup(resp *gazelle.GroupResponse, err error) *Client {
	c.group = result[*gazelle.GroupResponse]{resp, err, true}
	return c
}

// WithGetUser sets the result of GetUser.
func (c *Client) WithGetUser(resp *gazelle.User, err error) *Client {
	c.user = result[*gazelle.User]{resp, err, true}
	return c
}

// WithDownloadTorrent sets the bytes or error returned by DownloadTorrent.
func (c *Client) WithDownloadTorrent(data []byte, err error) *Client {
	c.download = result[[]byte]{data, err, true}
	return c
}

// WithUploadTorrent sets the result of UploadTorrent.
func (c *Client) WithUploadTorrent(resp *gazelle.UploadResponse, err error) *Client {
	c.upload = result[*gazelle.UploadResponse]{resp, err, true}
	return c
}

// WithUploadNewSource sets the result of UploadNewSource.
func (c *Client) WithUploadNewSource(resp *gazelle.UploadResponse, err error) *Client {
	c.newSource = result[*gazelle.UploadResponse]{resp, err, true}
	return c
}

// Calls returns the invocations so far, in order.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Call, len(c.calls))
	copy(out, c.calls)
	return out
}

func (c *Client) record(op string, id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, Call{Op: op, ID: id})
}

func (c *Client) GetTorrent(ctx context.Context, id int) (*gazelle.TorrentResponse, error) {
	c.record("get torrent", id)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.torrent.get("get torrent")
}

func (c *Client) GetTorrentGroup(ctx context.Context, id int) (*gazelle.GroupResponse, error) {
	c.record("get torrent group", id)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.group.get("get torrent group")
}

func (c *Client) GetUser(ctx context.Context, id int) (*gazelle.User, error) {
	c.record("get user", id)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.user.get("get user")
}

func (c *Client) DownloadTorrent(ctx context.Context, id int) ([]byte, error) {
	c.record("download torrent", id)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.download.get("download torrent")
}

func (c *Client) UploadTorrent(ctx context.Context, _ gazelle.UploadForm) (*gazelle.UploadResponse, error) {
	c.record("upload torrent", 0)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.upload.get("upload torrent")
}

func (c *Client) UploadNewSource(ctx context.Context, _ gazelle.NewSourceUploadForm) (*gazelle.UploadResponse, error) {
	c.record("upload new source", 0)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.newSource.get("upload new source")
}
