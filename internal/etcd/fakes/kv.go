package fakes

import (
	"context"
	"strings"
	"sync"

	"go.etcd.io/etcd/api/v3/etcdserverpb"
	mvccpb "go.etcd.io/etcd/api/v3/mvccpb"
	clientv3 "go.etcd.io/etcd/client/v3"
)

// Client is an in-memory etcd.Client. Puts are routed to every open watch
// whose key or prefix matches.
type Client struct {
	mu       sync.Mutex
	rev      int64
	lease    int64
	kvs      map[string]*mvccpb.KeyValue
	watches  []*Watch
	putErr   error
	noNotify bool
}

func NewClient() *Client {
	return &Client{kvs: make(map[string]*mvccpb.KeyValue)}
}

// SilenceCreated stops new watches from confirming their creation.
func (c *Client) SilenceCreated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.noNotify = true
}

// FailPuts makes every Put fail with err until called with nil.
func (c *Client) FailPuts(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.putErr = err
}

func (c *Client) Get(_ context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	resp := &clientv3.GetResponse{Header: &etcdserverpb.ResponseHeader{Revision: c.rev}}
	prefix := clientv3.IsOptsWithPrefix(opts)
	for k, kv := range c.kvs {
		if k == key || (prefix && strings.HasPrefix(k, key)) {
			resp.Kvs = append(resp.Kvs, kv)
		}
	}
	resp.Count = int64(len(resp.Kvs))
	return resp, nil
}

func (c *Client) Put(_ context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.putErr != nil {
		return nil, c.putErr
	}
	c.rev++
	kv := &mvccpb.KeyValue{Key: []byte(key), Value: []byte(val), ModRevision: c.rev}
	c.kvs[key] = kv

	ev := &clientv3.Event{Type: clientv3.EventTypePut, Kv: kv}
	for _, w := range c.watches {
		if w.matches(key) {
			w.Send(clientv3.WatchResponse{
				Header: etcdserverpb.ResponseHeader{Revision: c.rev},
				Events: []*clientv3.Event{ev},
			})
		}
	}
	return &clientv3.PutResponse{Header: &etcdserverpb.ResponseHeader{Revision: c.rev}}, nil
}

func (c *Client) Delete(_ context.Context, key string, _ ...clientv3.OpOption) (*clientv3.DeleteResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rev++
	_, ok := c.kvs[key]
	delete(c.kvs, key)
	resp := &clientv3.DeleteResponse{Header: &etcdserverpb.ResponseHeader{Revision: c.rev}}
	if ok {
		resp.Deleted = 1
	}
	return resp, nil
}

func (c *Client) Grant(_ context.Context, ttl int64) (*clientv3.LeaseGrantResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lease++
	return &clientv3.LeaseGrantResponse{ID: clientv3.LeaseID(c.lease), TTL: ttl}, nil
}

func (c *Client) Watch(ctx context.Context, key string, opts ...clientv3.OpOption) clientv3.WatchChan {
	c.mu.Lock()
	defer c.mu.Unlock()

	w := &Watch{
		Key:    key,
		prefix: clientv3.IsOptsWithPrefix(opts),
		ch:     make(chan clientv3.WatchResponse, 16),
	}
	c.watches = append(c.watches, w)
	if !c.noNotify {
		w.Send(clientv3.WatchResponse{Created: true})
	}

	go func() {
		<-ctx.Done()
		w.Close()
	}()
	return w.ch
}

// Watches returns the watches opened so far.
func (c *Client) Watches() []*Watch {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Watch(nil), c.watches...)
}

// Watch is one open watch stream.
type Watch struct {
	Key    string
	prefix bool

	mu     sync.Mutex
	ch     chan clientv3.WatchResponse
	closed bool
}

func (w *Watch) matches(key string) bool {
	if w.prefix {
		return strings.HasPrefix(key, w.Key)
	}
	return key == w.Key
}

// Send delivers resp unless the watch is closed.
func (w *Watch) Send(resp clientv3.WatchResponse) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return false
	}
	w.ch <- resp
	return true
}

// Close ends the stream as the server would on cancellation or failure.
func (w *Watch) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}

func (w *Watch) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}
